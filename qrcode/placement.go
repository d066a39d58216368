package qrcode

import (
	"math/bits"

	"github.com/ivan-nizamov/qrfolio/bitutil"
)

const (
	formatInfoPoly    = 0x537
	formatInfoMask    = 0x5412
	versionInfoPoly   = 0x1f25
	finderPatternSize = 7
)

// canvas tracks module colours and which modules belong to function
// patterns. Reserved modules are never written by data placement or masking.
type canvas struct {
	dim      int
	dark     *bitutil.BitMatrix
	reserved *bitutil.BitMatrix
}

func newCanvas(v *Version) *canvas {
	dim := v.Dimension()
	c := &canvas{
		dim:      dim,
		dark:     bitutil.NewBitMatrix(dim),
		reserved: bitutil.NewBitMatrix(dim),
	}
	c.drawFunctionPatterns(v)
	return c
}

func (c *canvas) setFunction(x, y int, dark bool) {
	c.dark.SetBool(x, y, dark)
	c.reserved.Set(x, y)
}

func (c *canvas) drawFunctionPatterns(v *Version) {
	// Timing patterns first; finders and alignment patterns overwrite the ends.
	for i := 0; i < c.dim; i++ {
		c.setFunction(6, i, i%2 == 0)
		c.setFunction(i, 6, i%2 == 0)
	}

	c.drawFinder(0, 0)
	c.drawFinder(c.dim-finderPatternSize, 0)
	c.drawFinder(0, c.dim-finderPatternSize)

	centers := v.AlignmentCenters()
	last := len(centers) - 1
	for i, cy := range centers {
		for j, cx := range centers {
			if (i == 0 && j == 0) || (i == 0 && j == last) || (i == last && j == 0) {
				continue
			}
			c.drawAlignment(cx, cy)
		}
	}

	// Format areas are reserved now and written after masking.
	c.reserved.SetRegion(8, 0, 1, 9)
	c.reserved.SetRegion(0, 8, 9, 1)
	c.reserved.SetRegion(c.dim-8, 8, 8, 1)
	c.reserved.SetRegion(8, c.dim-8, 1, 8)
	c.setFunction(8, c.dim-8, true)

	if v.number >= 7 {
		c.drawVersionInfo(v.number)
	}
}

// drawFinder draws a finder pattern with its separator, top-left corner at
// (left, top).
func (c *canvas) drawFinder(left, top int) {
	for dy := -1; dy <= finderPatternSize; dy++ {
		for dx := -1; dx <= finderPatternSize; dx++ {
			x, y := left+dx, top+dy
			if x < 0 || y < 0 || x >= c.dim || y >= c.dim {
				continue
			}
			ring := max(abs(dx-3), abs(dy-3))
			c.setFunction(x, y, ring != 2 && ring != 4)
		}
	}
}

func (c *canvas) drawAlignment(cx, cy int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			c.setFunction(cx+dx, cy+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

// drawVersionInfo writes the 18-bit version block next to the top-right and
// bottom-left finders.
func (c *canvas) drawVersionInfo(version int) {
	info := version<<12 | bchCode(version, versionInfoPoly)
	for i := 0; i < 18; i++ {
		bit := (info>>uint(i))&1 != 0
		a, b := c.dim-11+i%3, i/3
		c.setFunction(a, b, bit)
		c.setFunction(b, a, bit)
	}
}

// drawFormatInfo writes both copies of the 15-bit format information.
func drawFormatInfo(dark *bitutil.BitMatrix, level Level, mask int) {
	info := formatInfo(level, mask)
	dim := dark.Width()
	for i := 0; i < 15; i++ {
		bit := (info>>uint(i))&1 != 0
		x, y := formatInfoCoordinates[i][0], formatInfoCoordinates[i][1]
		dark.SetBool(x, y, bit)
		if i < 8 {
			dark.SetBool(dim-1-i, 8, bit)
		} else {
			dark.SetBool(8, dim-15+i, bit)
		}
	}
}

// formatInfoCoordinates lists the top-left copy positions, least
// significant bit first.
var formatInfoCoordinates = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

func formatInfo(level Level, mask int) int {
	data := level.Bits()<<3 | mask
	return (data<<10 | bchCode(data, formatInfoPoly)) ^ formatInfoMask
}

// bchCode returns the remainder of value shifted by the generator degree,
// divided by poly over GF(2).
func bchCode(value, poly int) int {
	msb := bits.Len(uint(poly))
	value <<= uint(msb - 1)
	for bits.Len(uint(value)) >= msb {
		value ^= poly << uint(bits.Len(uint(value))-msb)
	}
	return value
}

// placeData fills unreserved modules with the codeword bits, two columns at
// a time from the bottom-right, alternating upward and downward, skipping
// the vertical timing column. Remainder modules stay light.
func (c *canvas) placeData(codewords []byte) {
	total := len(codewords) * 8
	bitIndex := 0
	upward := true
	for right := c.dim - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		for vert := 0; vert < c.dim; vert++ {
			y := vert
			if upward {
				y = c.dim - 1 - vert
			}
			for j := 0; j < 2; j++ {
				x := right - j
				if c.reserved.Get(x, y) {
					continue
				}
				if bitIndex < total {
					c.dark.SetBool(x, y, codewords[bitIndex>>3]&(0x80>>uint(bitIndex&7)) != 0)
					bitIndex++
				}
			}
		}
		upward = !upward
	}
}

// masked returns a copy of the canvas with mask applied and format
// information written.
func (c *canvas) masked(level Level, mask int) *bitutil.BitMatrix {
	out := c.dark.Clone()
	applyMask(out, c.reserved, mask)
	drawFormatInfo(out, level, mask)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
