package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivan-nizamov/qrfolio/bitutil"
)

func TestPenaltyRule1(t *testing.T) {
	light := bitutil.NewBitMatrix(7)
	// Every row and column is a run of 7.
	assert.Equal(t, 2*7*(3+2), penaltyRule1(light))

	stripes := bitutil.NewBitMatrix(4)
	for x := 0; x < 4; x += 2 {
		stripes.SetRegion(x, 0, 1, 4)
	}
	assert.Zero(t, penaltyRule1(stripes))
}

func TestPenaltyRule2(t *testing.T) {
	assert.Equal(t, 3*4, penaltyRule2(bitutil.NewBitMatrix(3)))

	checker := bitutil.NewBitMatrix(4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			checker.SetBool(x, y, (x+y)%2 == 0)
		}
	}
	assert.Zero(t, penaltyRule2(checker))
}

func TestPenaltyRule3(t *testing.T) {
	m := bitutil.NewBitMatrix(15)
	for i, dark := range finderPattern {
		m.SetBool(4+i, 0, dark)
	}
	assert.Equal(t, 40, penaltyRule3(m))

	// Without four light modules on either side the sequence is not scored.
	m.Set(1, 0)
	m.Set(13, 0)
	assert.Zero(t, penaltyRule3(m))
}

func TestPenaltyRule4(t *testing.T) {
	assert.Equal(t, 100, penaltyRule4(bitutil.NewBitMatrix(3)))

	half := bitutil.NewBitMatrix(10)
	half.SetRegion(0, 0, 10, 5)
	assert.Zero(t, penaltyRule4(half))

	// 60% dark is two full 5% steps away.
	sixty := bitutil.NewBitMatrix(10)
	sixty.SetRegion(0, 0, 10, 6)
	assert.Equal(t, 20, penaltyRule4(sixty))
}

func TestMasksMatchDefinitions(t *testing.T) {
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			want := [8]bool{
				(i+j)%2 == 0,
				i%2 == 0,
				j%3 == 0,
				(i+j)%3 == 0,
				(i/2+j/3)%2 == 0,
				(i*j)%2+(i*j)%3 == 0,
				((i*j)%2+(i*j)%3)%2 == 0,
				((i+j)%2+(i*j)%3)%2 == 0,
			}
			for k, fn := range masks {
				assert.Equal(t, want[k], fn(i, j), "mask %d at (%d,%d)", k, i, j)
			}
		}
	}
}
