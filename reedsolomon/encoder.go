package reedsolomon

import "sync"

// Encoder computes Reed-Solomon error correction codewords. It is safe for
// concurrent use.
type Encoder struct {
	field *Field

	mu         sync.Mutex
	generators []*Poly
}

// NewEncoder creates an Encoder over field.
func NewEncoder(field *Field) *Encoder {
	return &Encoder{
		field:      field,
		generators: []*Poly{field.one},
	}
}

// generator returns prod_{i<degree} (x - alpha^(i+base)).
func (e *Encoder) generator(degree int) *Poly {
	e.mu.Lock()
	defer e.mu.Unlock()
	for d := len(e.generators); d <= degree; d++ {
		last := e.generators[d-1]
		next := last.Multiply(newPoly(e.field, []int{1, e.field.Exp(d - 1 + e.field.GeneratorBase())}))
		e.generators = append(e.generators, next)
	}
	return e.generators[degree]
}

// Encode returns ecLen error correction codewords for data.
func (e *Encoder) Encode(data []byte, ecLen int) []byte {
	if ecLen <= 0 {
		panic("reedsolomon: no error correction bytes")
	}
	if len(data) == 0 {
		panic("reedsolomon: no data bytes provided")
	}
	info := make([]int, len(data))
	for i, b := range data {
		info[i] = int(b)
	}
	_, remainder := newPoly(e.field, info).
		MultiplyByMonomial(ecLen, 1).
		Divide(e.generator(ecLen))

	ec := make([]byte, ecLen)
	coefficients := remainder.Coefficients()
	if remainder.IsZero() {
		return ec
	}
	offset := ecLen - len(coefficients)
	for i, c := range coefficients {
		ec[offset+i] = byte(c)
	}
	return ec
}
