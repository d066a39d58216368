package reedsolomon

import "errors"

// ErrUncorrectable is returned when a block has more errors than its error
// correction codewords can repair.
var ErrUncorrectable = errors.New("reedsolomon: uncorrectable block")

// Decoder corrects errors in Reed-Solomon encoded blocks.
type Decoder struct {
	field *Field
}

// NewDecoder creates a Decoder over field.
func NewDecoder(field *Field) *Decoder {
	return &Decoder{field: field}
}

// Decode corrects block in place, where the last ecLen bytes are error
// correction codewords, and returns the number of corrected bytes.
func (d *Decoder) Decode(block []byte, ecLen int) (int, error) {
	received := make([]int, len(block))
	for i, b := range block {
		received[i] = int(b)
	}
	poly := newPoly(d.field, received)

	syndromes := make([]int, ecLen)
	clean := true
	for i := 0; i < ecLen; i++ {
		eval := poly.EvaluateAt(d.field.Exp(i + d.field.GeneratorBase()))
		syndromes[ecLen-1-i] = eval
		if eval != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := d.euclidean(d.field.Monomial(ecLen, 1), newPoly(d.field, syndromes), ecLen)
	if err != nil {
		return 0, err
	}
	locations, err := d.errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := d.errorMagnitudes(omega, locations)
	for i, loc := range locations {
		position := len(block) - 1 - d.field.Log(loc)
		if position < 0 {
			return 0, ErrUncorrectable
		}
		block[position] = byte(addOrSubtract(int(block[position]), magnitudes[i]))
	}
	return len(locations), nil
}

func (d *Decoder) euclidean(a, b *Poly, r int) (sigma, omega *Poly, err error) {
	if a.Degree() < b.Degree() {
		a, b = b, a
	}
	rLast, rCur := a, b
	tLast, tCur := d.field.zero, d.field.one

	for 2*rCur.Degree() >= r {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = rCur, tCur
		if rLast.IsZero() {
			return nil, nil, ErrUncorrectable
		}
		rCur = rLastLast
		q := d.field.zero
		inverseLead := d.field.Inverse(rLast.Coefficient(rLast.Degree()))
		for rCur.Degree() >= rLast.Degree() && !rCur.IsZero() {
			degreeDiff := rCur.Degree() - rLast.Degree()
			scale := d.field.Multiply(rCur.Coefficient(rCur.Degree()), inverseLead)
			q = q.Add(d.field.Monomial(degreeDiff, scale))
			rCur = rCur.Add(rLast.MultiplyByMonomial(degreeDiff, scale))
		}
		tCur = q.Multiply(tLast).Add(tLastLast)
		if rCur.Degree() >= rLast.Degree() {
			return nil, nil, ErrUncorrectable
		}
	}

	atZero := tCur.Coefficient(0)
	if atZero == 0 {
		return nil, nil, ErrUncorrectable
	}
	inverse := d.field.Inverse(atZero)
	return tCur.Scale(inverse), rCur.Scale(inverse), nil
}

func (d *Decoder) errorLocations(locator *Poly) ([]int, error) {
	n := locator.Degree()
	if n == 1 {
		return []int{locator.Coefficient(1)}, nil
	}
	result := make([]int, 0, n)
	for i := 1; i < 256 && len(result) < n; i++ {
		if locator.EvaluateAt(i) == 0 {
			result = append(result, d.field.Inverse(i))
		}
	}
	if len(result) != n {
		return nil, ErrUncorrectable
	}
	return result, nil
}

func (d *Decoder) errorMagnitudes(evaluator *Poly, locations []int) []int {
	result := make([]int, len(locations))
	for i, loc := range locations {
		xiInverse := d.field.Inverse(loc)
		denominator := 1
		for j, other := range locations {
			if i == j {
				continue
			}
			term := d.field.Multiply(other, xiInverse)
			// 1 + term, written without a branch on the low bit.
			denominator = d.field.Multiply(denominator, term^1)
		}
		result[i] = d.field.Multiply(evaluator.EvaluateAt(xiInverse), d.field.Inverse(denominator))
		if d.field.GeneratorBase() != 0 {
			result[i] = d.field.Multiply(result[i], xiInverse)
		}
	}
	return result
}
