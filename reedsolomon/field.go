// Package reedsolomon implements Reed-Solomon coding over GF(2^8) as used by
// QR code error correction.
package reedsolomon

import "fmt"

// Field is a Galois field GF(2^8) defined by a primitive polynomial.
type Field struct {
	exp           [512]int
	log           [256]int
	primitive     int
	generatorBase int
	zero          *Poly
	one           *Poly
}

// QRField is GF(256) with primitive x^8 + x^4 + x^3 + x^2 + 1 and generator
// base 0, the field used by QR codes.
var QRField = NewField(0x011D, 0)

// NewField builds the exp/log tables for GF(256) under primitive.
func NewField(primitive, generatorBase int) *Field {
	f := &Field{primitive: primitive, generatorBase: generatorBase}
	x := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = x
		f.log[x] = i
		x <<= 1
		if x >= 256 {
			x ^= primitive
		}
	}
	// exp is doubled so Multiply can skip the modulo.
	for i := 255; i < 512; i++ {
		f.exp[i] = f.exp[i-255]
	}
	f.zero = &Poly{field: f, coefficients: []int{0}}
	f.one = &Poly{field: f, coefficients: []int{1}}
	return f
}

// Exp returns alpha^a.
func (f *Field) Exp(a int) int { return f.exp[a%255] }

// Log returns log_alpha(a). a must be non-zero.
func (f *Field) Log(a int) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return f.log[a]
}

// Inverse returns the multiplicative inverse of a. a must be non-zero.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return f.exp[255-f.log[a]]
}

// Multiply returns a*b in the field.
func (f *Field) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.log[a]+f.log[b]]
}

// GeneratorBase returns the first exponent of the generator polynomial roots.
func (f *Field) GeneratorBase() int { return f.generatorBase }

// Monomial returns coefficient * x^degree.
func (f *Field) Monomial(degree, coefficient int) *Poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return f.zero
	}
	c := make([]int, degree+1)
	c[0] = coefficient
	return newPoly(f, c)
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(0x%x,256)", f.primitive)
}

// addOrSubtract is field addition; it is its own inverse in GF(2^n).
func addOrSubtract(a, b int) int {
	return a ^ b
}
