// Package qrcode builds QR Code Model 2 symbols.
//
// Encode turns a payload and an error correction level into an immutable
// Matrix: it picks the densest mode and the smallest version that holds the
// payload, adds Reed-Solomon error correction, places the codewords and
// chooses the mask with the lowest penalty.
package qrcode

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/bitutil"
	"github.com/ivan-nizamov/qrfolio/charset"
	"github.com/ivan-nizamov/qrfolio/reedsolomon"
)

// Options tunes Encode. A nil *Options selects everything automatically.
type Options struct {
	// Version forces a symbol version, 1-40. Zero picks the smallest fit.
	Version int
	// Mask forces a mask pattern, 0-7. Nil picks the lowest penalty.
	Mask *int
	// Mode forces a data mode. ModeAuto picks the densest one.
	Mode Mode
	// CharacterSet names the text encoding used by EncodeText. Empty means
	// UTF-8.
	CharacterSet string
	// Verify decodes every error correction block after encoding and fails
	// if any block does not check out.
	Verify bool
}

// ForceMask returns a pointer for Options.Mask.
func ForceMask(mask int) *int { return &mask }

// Validate checks level and opts the way Encode does, without encoding. A
// nil opts is valid.
func Validate(level Level, opts *Options) error {
	if !level.valid() {
		return fmt.Errorf("%w: unknown level %d", qrfolio.ErrInvalidOptions, int(level))
	}
	if opts == nil {
		return nil
	}
	return opts.validate()
}

func (o *Options) validate() error {
	if o.Version != 0 && (o.Version < 1 || o.Version > 40) {
		return fmt.Errorf("%w: version %d out of range 1-40", qrfolio.ErrInvalidOptions, o.Version)
	}
	if o.Mask != nil && (*o.Mask < 0 || *o.Mask > 7) {
		return fmt.Errorf("%w: mask %d out of range 0-7", qrfolio.ErrInvalidOptions, *o.Mask)
	}
	if o.Mode < ModeAuto || o.Mode > ModeByte {
		return fmt.Errorf("%w: mode %s cannot be forced", qrfolio.ErrInvalidOptions, o.Mode)
	}
	return nil
}

var rsEncoder = reedsolomon.NewEncoder(reedsolomon.QRField)

// Encode builds the QR symbol for payload at the given level. The same
// arguments always produce the same Matrix.
func Encode(payload []byte, level Level, opts *Options) (*Matrix, error) {
	return encode(payload, level, opts, nil)
}

// EncodeText converts text to opts.CharacterSet and encodes it. Character
// sets other than UTF-8 and US-ASCII are announced with their ECI.
func EncodeText(text string, level Level, opts *Options) (*Matrix, error) {
	var name string
	if opts != nil {
		name = opts.CharacterSet
	}
	data, eci, err := charset.Encode(text, name)
	switch {
	case err == nil:
	case errors.Is(err, charset.ErrUnsupportedCharset):
		return nil, fmt.Errorf("%w: %v", qrfolio.ErrInvalidOptions, err)
	default:
		return nil, fmt.Errorf("%w: %v", qrfolio.ErrInvalidPayload, err)
	}
	if eci == charset.UTF8 || eci == charset.ASCII {
		eci = nil
	}
	return encode(data, level, opts, eci)
}

// MaskPenalties returns the penalty score of every mask pattern for the
// symbol Encode would build. Encode picks the lowest, preferring the lowest
// index on ties.
func MaskPenalties(payload []byte, level Level, opts *Options) ([8]int, error) {
	var scores [8]int
	s, err := prepare(payload, level, opts, nil)
	if err != nil {
		return scores, err
	}
	c, err := s.layout()
	if err != nil {
		return scores, err
	}
	for mask := range masks {
		scores[mask] = penalty(c.masked(level, mask))
	}
	return scores, nil
}

func encode(payload []byte, level Level, opts *Options, eci *charset.ECI) (*Matrix, error) {
	s, err := prepare(payload, level, opts, eci)
	if err != nil {
		return nil, err
	}
	c, err := s.layout()
	if err != nil {
		return nil, err
	}

	var best *bitutil.BitMatrix
	bestMask := -1
	if opts != nil && opts.Mask != nil {
		bestMask = *opts.Mask
		best = c.masked(level, bestMask)
	} else {
		bestPenalty := 0
		for mask := range masks {
			candidate := c.masked(level, mask)
			p := penalty(candidate)
			if bestMask < 0 || p < bestPenalty {
				best, bestMask, bestPenalty = candidate, mask, p
			}
		}
	}
	return &Matrix{
		modules: best,
		version: s.version.number,
		level:   level,
		mask:    bestMask,
		mode:    s.mode,
	}, nil
}

// segment is a payload ready for version selection.
type segment struct {
	level   Level
	mode    Mode
	eci     *charset.ECI
	data    []byte
	version *Version
	verify  bool
}

func prepare(payload []byte, level Level, opts *Options, eci *charset.ECI) (*segment, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", qrfolio.ErrInvalidPayload)
	}
	if err := Validate(level, opts); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	s := &segment{level: level, mode: opts.Mode, eci: eci, data: payload, verify: opts.Verify}
	if s.mode == ModeAuto {
		s.mode = chooseMode(payload)
	} else if !s.mode.supports(payload) {
		return nil, fmt.Errorf("%w: payload has characters outside %s mode", qrfolio.ErrInvalidPayload, s.mode)
	}
	if s.mode == ModeByte && s.eci == nil && !charset.IsASCII(payload) && utf8.Valid(payload) {
		s.eci = charset.UTF8
	}

	if opts.Version != 0 {
		v, _ := VersionFor(opts.Version)
		if err := s.fits(v); err != nil {
			return nil, err
		}
		s.version = v
		return s, nil
	}
	for n := 1; n <= 40; n++ {
		if s.fits(&versions[n-1]) == nil {
			s.version = &versions[n-1]
			return s, nil
		}
	}
	return nil, s.fits(&versions[39])
}

func (s *segment) headerBits() int {
	n := 4
	if s.eci != nil {
		n += 4 + eciDesignatorBits(s.eci.Value)
	}
	return n
}

func (s *segment) dataBits() int {
	n := len(s.data)
	switch s.mode {
	case ModeNumeric:
		return n/3*10 + [3]int{0, 4, 7}[n%3]
	case ModeAlphanumeric:
		return n/2*11 + n%2*6
	}
	return n * 8
}

// fits returns a *CapacityError when the segment does not fit v.
func (s *segment) fits(v *Version) error {
	countBits := s.mode.CharacterCountBits(v.number)
	required := s.headerBits() + countBits + s.dataBits()
	available := v.DataCodewords(s.level) * 8
	if required <= available && len(s.data) < 1<<uint(countBits) {
		return nil
	}
	return &qrfolio.CapacityError{
		Mode:          s.mode.String(),
		Level:         s.level.String(),
		Version:       v.number,
		BitsRequired:  required,
		BitsAvailable: available,
	}
}

// bits packs the header, character count and data, then terminates and pads
// to the data capacity.
func (s *segment) bits() *bitutil.BitArray {
	capacity := s.version.DataCodewords(s.level) * 8
	ba := bitutil.NewBitArray(capacity)
	if s.eci != nil {
		ba.AppendBits(ModeECI.Bits(), 4)
		appendECIDesignator(ba, s.eci.Value)
	}
	ba.AppendBits(s.mode.Bits(), 4)
	ba.AppendBits(uint32(len(s.data)), s.mode.CharacterCountBits(s.version.number))
	switch s.mode {
	case ModeNumeric:
		appendNumeric(ba, s.data)
	case ModeAlphanumeric:
		appendAlphanumeric(ba, s.data)
	default:
		for _, c := range s.data {
			ba.AppendBits(uint32(c), 8)
		}
	}
	terminate(ba, capacity)
	return ba
}

func appendNumeric(ba *bitutil.BitArray, data []byte) {
	for i := 0; i < len(data); {
		n := min(3, len(data)-i)
		value := 0
		for _, c := range data[i : i+n] {
			value = value*10 + int(c-'0')
		}
		ba.AppendBits(uint32(value), [4]int{0, 4, 7, 10}[n])
		i += n
	}
}

func appendAlphanumeric(ba *bitutil.BitArray, data []byte) {
	for i := 0; i < len(data); i += 2 {
		if i+1 < len(data) {
			ba.AppendBits(uint32(alphanumericCode(data[i])*45+alphanumericCode(data[i+1])), 11)
		} else {
			ba.AppendBits(uint32(alphanumericCode(data[i])), 6)
		}
	}
}

func eciDesignatorBits(value int) int {
	switch {
	case value < 1<<7:
		return 8
	case value < 1<<14:
		return 16
	}
	return 24
}

func appendECIDesignator(ba *bitutil.BitArray, value int) {
	switch eciDesignatorBits(value) {
	case 8:
		ba.AppendBits(uint32(value), 8)
	case 16:
		ba.AppendBits(0x8000|uint32(value), 16)
	default:
		ba.AppendBits(0xc00000|uint32(value), 24)
	}
}

// terminate appends up to four zero bits, zero-fills the last byte and then
// alternates pad codewords 0xEC and 0x11 up to capacity bits.
func terminate(ba *bitutil.BitArray, capacity int) {
	ba.AppendBits(0, min(4, capacity-ba.Size()))
	if rem := ba.Size() % 8; rem != 0 {
		ba.AppendBits(0, 8-rem)
	}
	for i := 0; ba.Size() < capacity; i++ {
		if i%2 == 0 {
			ba.AppendBits(0xec, 8)
		} else {
			ba.AppendBits(0x11, 8)
		}
	}
}

// codewords splits the data codewords into blocks, appends error correction
// to each and interleaves the result.
func (s *segment) codewords() ([]byte, error) {
	data := s.bits().Bytes()
	blocks := &s.version.blocks[s.level]
	ecLen := blocks.ecCodewordsPerBlock

	var dataBlocks, ecBlocks [][]byte
	offset := 0
	for _, g := range blocks.groups {
		for i := 0; i < g.count; i++ {
			block := data[offset : offset+g.dataCodewords]
			offset += g.dataCodewords
			dataBlocks = append(dataBlocks, block)
			ecBlocks = append(ecBlocks, rsEncoder.Encode(block, ecLen))
		}
	}

	if s.verify {
		if err := verifyBlocks(dataBlocks, ecBlocks, ecLen); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, s.version.totalCodewords)
	out = interleave(out, dataBlocks)
	out = interleave(out, ecBlocks)
	if len(out) != s.version.totalCodewords {
		return nil, fmt.Errorf("qrcode: interleaved %d codewords, version %d holds %d",
			len(out), s.version.number, s.version.totalCodewords)
	}
	return out, nil
}

func interleave(dst []byte, blocks [][]byte) []byte {
	longest := 0
	for _, b := range blocks {
		longest = max(longest, len(b))
	}
	for i := 0; i < longest; i++ {
		for _, b := range blocks {
			if i < len(b) {
				dst = append(dst, b[i])
			}
		}
	}
	return dst
}

func verifyBlocks(dataBlocks, ecBlocks [][]byte, ecLen int) error {
	dec := reedsolomon.NewDecoder(reedsolomon.QRField)
	for i := range dataBlocks {
		block := append(append([]byte{}, dataBlocks[i]...), ecBlocks[i]...)
		corrected, err := dec.Decode(block, ecLen)
		if err != nil {
			return fmt.Errorf("qrcode: block %d failed verification: %w", i, err)
		}
		if corrected != 0 {
			return fmt.Errorf("qrcode: block %d failed verification: %d codewords differ", i, corrected)
		}
	}
	return nil
}

// layout places function patterns and codewords on an unmasked canvas.
func (s *segment) layout() (*canvas, error) {
	cw, err := s.codewords()
	if err != nil {
		return nil, err
	}
	c := newCanvas(s.version)
	c.placeData(cw)
	return c, nil
}

// Capacity returns how many characters of mode fit version at level, without
// an ECI header. Byte mode counts bytes. It returns 0 for invalid arguments.
func Capacity(level Level, mode Mode, version int) int {
	v, err := VersionFor(version)
	if err != nil || !level.valid() {
		return 0
	}
	countBits := mode.CharacterCountBits(version)
	if countBits == 0 {
		return 0
	}
	avail := v.DataCodewords(level)*8 - 4 - countBits
	var n int
	switch mode {
	case ModeNumeric:
		n = avail / 10 * 3
		switch rem := avail % 10; {
		case rem >= 7:
			n += 2
		case rem >= 4:
			n++
		}
	case ModeAlphanumeric:
		n = avail / 11 * 2
		if avail%11 >= 6 {
			n++
		}
	default:
		n = avail / 8
	}
	return min(n, 1<<uint(countBits)-1)
}
