package qrcode

import (
	"fmt"
	"strings"

	"github.com/ivan-nizamov/qrfolio"
)

// Mode is a data encoding mode. The zero value selects a mode from the
// payload.
type Mode int

const (
	ModeAuto Mode = iota
	ModeNumeric
	ModeAlphanumeric
	ModeByte
	ModeECI
)

// Bits returns the 4-bit mode indicator.
func (m Mode) Bits() uint32 {
	switch m {
	case ModeNumeric:
		return 0x1
	case ModeAlphanumeric:
		return 0x2
	case ModeByte:
		return 0x4
	case ModeECI:
		return 0x7
	}
	return 0
}

// CharacterCountBits returns the width of the character count field for a
// version.
func (m Mode) CharacterCountBits(version int) int {
	band := 0
	switch {
	case version > 26:
		band = 2
	case version > 9:
		band = 1
	}
	switch m {
	case ModeNumeric:
		return [3]int{10, 12, 14}[band]
	case ModeAlphanumeric:
		return [3]int{9, 11, 13}[band]
	case ModeByte:
		return [3]int{8, 16, 16}[band]
	}
	return 0
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeNumeric:
		return "numeric"
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeByte:
		return "byte"
	case ModeECI:
		return "eci"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as printed by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "numeric":
		return ModeNumeric, nil
	case "alphanumeric", "alnum":
		return ModeAlphanumeric, nil
	case "byte":
		return ModeByte, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", qrfolio.ErrInvalidOptions, s)
}

// alphanumericTable maps ASCII to alphanumeric mode values, -1 outside the set.
var alphanumericTable = [128]int{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	36, -1, -1, -1, 37, 38, -1, -1, -1, -1, 39, 40, -1, 41, 42, 43,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 44, -1, -1, -1, -1, -1,
	-1, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24,
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
}

func alphanumericCode(c byte) int {
	if c < 128 {
		return alphanumericTable[c]
	}
	return -1
}

func isNumeric(data []byte) bool {
	for _, c := range data {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(data []byte) bool {
	for _, c := range data {
		if alphanumericCode(c) < 0 {
			return false
		}
	}
	return true
}

// chooseMode picks the densest mode able to hold data.
func chooseMode(data []byte) Mode {
	switch {
	case isNumeric(data):
		return ModeNumeric
	case isAlphanumeric(data):
		return ModeAlphanumeric
	}
	return ModeByte
}

// supports reports whether mode m can encode data.
func (m Mode) supports(data []byte) bool {
	switch m {
	case ModeNumeric:
		return isNumeric(data)
	case ModeAlphanumeric:
		return isAlphanumeric(data)
	case ModeByte:
		return true
	}
	return false
}
