package bitutil

import (
	"errors"
	"fmt"
)

// ErrShortRead is returned when fewer bits remain than were asked for.
var ErrShortRead = errors.New("bitreader: not enough bits")

// BitReader reads a byte slice as a stream of bits, most significant bit
// of the first byte first. It is the read side of BitArray.Bytes.
type BitReader struct {
	data []byte
	pos  int
}

// NewBitReader returns a reader over data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// Available returns the number of unread bits.
func (r *BitReader) Available() int {
	return 8*len(r.data) - r.pos
}

// ReadBit reads one bit.
func (r *BitReader) ReadBit() (bool, error) {
	if r.Available() < 1 {
		return false, ErrShortRead
	}
	bit := r.data[r.pos>>3]&(0x80>>uint(r.pos&7)) != 0
	r.pos++
	return bit, nil
}

// ReadBits reads numBits bits, 1 to 32, into the low bits of the result.
func (r *BitReader) ReadBits(numBits int) (uint32, error) {
	if numBits < 1 || numBits > 32 {
		return 0, fmt.Errorf("bitreader: cannot read %d bits", numBits)
	}
	if numBits > r.Available() {
		return 0, fmt.Errorf("%w: want %d, have %d", ErrShortRead, numBits, r.Available())
	}
	var v uint32
	for i := 0; i < numBits; i++ {
		bit, _ := r.ReadBit()
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v, nil
}
