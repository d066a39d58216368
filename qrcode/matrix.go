package qrcode

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/ivan-nizamov/qrfolio/bitutil"
)

// Matrix is a finished QR symbol: masked modules with format and version
// information in place. A Matrix is never modified after Encode returns it
// and may be shared between goroutines.
type Matrix struct {
	modules *bitutil.BitMatrix
	version int
	level   Level
	mask    int
	mode    Mode
}

var (
	_ encoding.BinaryMarshaler   = (*Matrix)(nil)
	_ encoding.BinaryUnmarshaler = (*Matrix)(nil)
)

// Size returns the side length in modules, without quiet zone.
func (m *Matrix) Size() int { return m.modules.Width() }

// Dark reports whether the module in column x and row y is dark. Coordinates
// outside the symbol belong to the quiet zone and are light.
func (m *Matrix) Dark(x, y int) bool {
	size := m.Size()
	if x < 0 || y < 0 || x >= size || y >= size {
		return false
	}
	return m.modules.Get(x, y)
}

// Version returns the symbol version, 1-40.
func (m *Matrix) Version() int { return m.version }

// Level returns the error correction level.
func (m *Matrix) Level() Level { return m.level }

// Mask returns the applied mask pattern, 0-7.
func (m *Matrix) Mask() int { return m.mask }

// Mode returns the data mode of the payload segment.
func (m *Matrix) Mode() Mode { return m.mode }

// Bits returns a copy of the modules.
func (m *Matrix) Bits() *bitutil.BitMatrix { return m.modules.Clone() }

// Equal reports whether both matrices hold identical symbols.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.version == other.version &&
		m.level == other.level &&
		m.mask == other.mask &&
		m.mode == other.mode &&
		m.modules.Equals(other.modules)
}

// String renders the symbol as text, two characters per module.
func (m *Matrix) String() string {
	return m.modules.StringWithChars("##", "  ")
}

// InPattern reports whether (x, y) belongs to a finder pattern, its
// separator or an alignment pattern.
func (m *Matrix) InPattern(x, y int) bool {
	size := m.Size()
	if x < 0 || y < 0 || x >= size || y >= size {
		return false
	}
	near := finderPatternSize + 1
	if ((x < near || x >= size-near) && y < near) || (x < near && y >= size-near) {
		return true
	}
	v, err := VersionFor(m.version)
	if err != nil {
		return false
	}
	centers := v.AlignmentCenters()
	last := len(centers) - 1
	for i, cy := range centers {
		for j, cx := range centers {
			if (i == 0 && j == 0) || (i == 0 && j == last) || (i == last && j == 0) {
				continue
			}
			if abs(x-cx) <= 2 && abs(y-cy) <= 2 {
				return true
			}
		}
	}
	return false
}

// Summary describes the symbol parameters in one line.
func (m *Matrix) Summary() string {
	return fmt.Sprintf("version %d (%dx%d), level %s, mask %d, mode %s",
		m.version, m.Size(), m.Size(), m.level, m.mask, m.mode)
}

const matrixMagic = "QRM1"

var errBadMatrixEncoding = errors.New("qrcode: malformed matrix encoding")

// MarshalBinary encodes the matrix as a 4-byte magic, version, level, mask
// and mode bytes, then the modules row by row, eight to a byte.
func (m *Matrix) MarshalBinary() ([]byte, error) {
	size := m.Size()
	bits := bitutil.NewBitArray(size * size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			bits.AppendBit(m.modules.Get(x, y))
		}
	}
	out := make([]byte, 0, len(matrixMagic)+4+bits.SizeInBytes())
	out = append(out, matrixMagic...)
	out = append(out, byte(m.version), byte(m.level), byte(m.mask), byte(m.mode))
	return append(out, bits.Bytes()...), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (m *Matrix) UnmarshalBinary(data []byte) error {
	header := len(matrixMagic) + 4
	if len(data) < header || string(data[:len(matrixMagic)]) != matrixMagic {
		return errBadMatrixEncoding
	}
	meta := data[len(matrixMagic):header]
	v, err := VersionFor(int(meta[0]))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadMatrixEncoding, err)
	}
	level, mask, mode := Level(meta[1]), int(meta[2]), Mode(meta[3])
	if !level.valid() || mask > 7 || mode < ModeNumeric || mode > ModeByte {
		return errBadMatrixEncoding
	}
	size := v.Dimension()
	body := data[header:]
	if len(body) != (size*size+7)/8 {
		return fmt.Errorf("%w: %d module bytes for size %d", errBadMatrixEncoding, len(body), size)
	}
	modules := bitutil.NewBitMatrix(size)
	r := bitutil.NewBitReader(body)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dark, err := r.ReadBit()
			if err != nil {
				return fmt.Errorf("%w: %v", errBadMatrixEncoding, err)
			}
			modules.SetBool(x, y, dark)
		}
	}
	*m = Matrix{modules: modules, version: v.number, level: level, mask: mask, mode: mode}
	return nil
}
