// Package bitutil provides the bit containers used to build QR symbols: a
// growable bit stream for codeword packing and a fixed-size bit grid for
// module placement.
package bitutil

import "strings"

// BitArray is an append-only stream of bits, most significant bit first,
// packed into uint32 words.
type BitArray struct {
	words []uint32
	size  int
}

// NewBitArray returns an empty BitArray with room for capacity bits.
func NewBitArray(capacity int) *BitArray {
	if capacity <= 0 {
		return &BitArray{}
	}
	return &BitArray{words: make([]uint32, 0, (capacity+31)/32)}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int {
	return ba.size
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int {
	return (ba.size + 7) / 8
}

// Get returns bit i.
func (ba *BitArray) Get(i int) bool {
	return ba.words[i>>5]&(1<<uint(31-(i&0x1F))) != 0
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	if ba.size&0x1F == 0 {
		ba.words = append(ba.words, 0)
	}
	if bit {
		ba.words[ba.size>>5] |= 1 << uint(31-(ba.size&0x1F))
	}
	ba.size++
}

// AppendBits appends the numBits least significant bits of value, most
// significant first.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitarray: numBits must be between 0 and 32")
	}
	for i := numBits - 1; i >= 0; i-- {
		ba.AppendBit((value>>uint(i))&1 == 1)
	}
}

// ToBytes packs numBytes bytes starting at bitOffset into dst[offset:].
func (ba *BitArray) ToBytes(bitOffset int, dst []byte, offset, numBytes int) {
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			if bitOffset < ba.size && ba.Get(bitOffset) {
				b |= 1 << uint(7-j)
			}
			bitOffset++
		}
		dst[offset+i] = b
	}
}

// Bytes returns the whole array packed into bytes. A trailing partial byte
// is padded with zero bits.
func (ba *BitArray) Bytes() []byte {
	out := make([]byte, ba.SizeInBytes())
	ba.ToBytes(0, out, 0, len(out))
	return out
}

// String renders the bits as 'X' and '.', grouped by byte.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
