package qrcode

import "github.com/ivan-nizamov/qrfolio/bitutil"

// maskFunc reports whether the module at row i, column j is inverted.
type maskFunc func(i, j int) bool

var masks = [8]maskFunc{
	func(i, j int) bool { return (i+j)&0x01 == 0 },
	func(i, j int) bool { return i&0x01 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return ((i/2)+(j/3))&0x01 == 0 },
	func(i, j int) bool { return (i*j)%6 == 0 },
	func(i, j int) bool { return (i*j)%6 < 3 },
	func(i, j int) bool { return (i+j+(i*j)%3)&0x01 == 0 },
}

// applyMask inverts every data module selected by mask.
func applyMask(dark, reserved *bitutil.BitMatrix, mask int) {
	fn := masks[mask]
	dim := dark.Width()
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if !reserved.Get(x, y) && fn(y, x) {
				dark.Flip(x, y)
			}
		}
	}
}

// penalty sums the four mask evaluation rules.
func penalty(m *bitutil.BitMatrix) int {
	return penaltyRule1(m) + penaltyRule2(m) + penaltyRule3(m) + penaltyRule4(m)
}

// penaltyRule1 scores runs of five or more same-coloured modules in rows and
// columns: 3 points plus 1 per module beyond five.
func penaltyRule1(m *bitutil.BitMatrix) int {
	return runPenalty(m, true) + runPenalty(m, false)
}

func runPenalty(m *bitutil.BitMatrix, horizontal bool) int {
	dim := m.Width()
	total := 0
	for i := 0; i < dim; i++ {
		run := 0
		prev := false
		for j := 0; j < dim; j++ {
			bit := line(m, horizontal, i, j)
			if run > 0 && bit == prev {
				run++
				continue
			}
			if run >= 5 {
				total += 3 + run - 5
			}
			run = 1
			prev = bit
		}
		if run >= 5 {
			total += 3 + run - 5
		}
	}
	return total
}

// penaltyRule2 scores 3 points per 2x2 block of one colour. Blocks overlap.
func penaltyRule2(m *bitutil.BitMatrix) int {
	dim := m.Width()
	blocks := 0
	for y := 0; y < dim-1; y++ {
		for x := 0; x < dim-1; x++ {
			v := m.Get(x, y)
			if v == m.Get(x+1, y) && v == m.Get(x, y+1) && v == m.Get(x+1, y+1) {
				blocks++
			}
		}
	}
	return 3 * blocks
}

// penaltyRule3 scores 40 points per 1:1:3:1:1 finder-like sequence with four
// light modules before or after it. Modules outside the symbol count as light.
func penaltyRule3(m *bitutil.BitMatrix) int {
	dim := m.Width()
	found := 0
	for i := 0; i < dim; i++ {
		for j := 0; j+6 < dim; j++ {
			for _, horizontal := range [2]bool{true, false} {
				if finderLike(m, horizontal, i, j) &&
					(lightRun(m, horizontal, i, j-4, j) || lightRun(m, horizontal, i, j+7, j+11)) {
					found++
				}
			}
		}
	}
	return 40 * found
}

var finderPattern = [7]bool{true, false, true, true, true, false, true}

func finderLike(m *bitutil.BitMatrix, horizontal bool, i, j int) bool {
	for k, want := range finderPattern {
		if line(m, horizontal, i, j+k) != want {
			return false
		}
	}
	return true
}

func lightRun(m *bitutil.BitMatrix, horizontal bool, i, from, to int) bool {
	from = max(from, 0)
	to = min(to, m.Width())
	for j := from; j < to; j++ {
		if line(m, horizontal, i, j) {
			return false
		}
	}
	return true
}

// penaltyRule4 scores 10 points per full 5% the dark ratio deviates from half.
func penaltyRule4(m *bitutil.BitMatrix) int {
	total := m.Width() * m.Height()
	darkCount := m.CountSet()
	deviation := darkCount*2 - total
	if deviation < 0 {
		deviation = -deviation
	}
	return deviation * 10 / total * 10
}

// line reads module j of row i (horizontal) or column i.
func line(m *bitutil.BitMatrix, horizontal bool, i, j int) bool {
	if horizontal {
		return m.Get(j, i)
	}
	return m.Get(i, j)
}
