package qrcode

import (
	"fmt"
	"strings"

	"github.com/ivan-nizamov/qrfolio"
)

// Level is an error correction level.
type Level int

const (
	L Level = iota // ~7% recovery
	M              // ~15% recovery
	Q              // ~25% recovery
	H              // ~30% recovery
)

// Bits returns the 2-bit value written into the format information.
func (l Level) Bits() int {
	switch l {
	case L:
		return 0x01
	case M:
		return 0x00
	case Q:
		return 0x03
	case H:
		return 0x02
	}
	return 0
}

// RecoveryFraction returns the share of codewords the level can restore.
func (l Level) RecoveryFraction() float64 {
	switch l {
	case L:
		return 0.07
	case M:
		return 0.15
	case Q:
		return 0.25
	case H:
		return 0.30
	}
	return 0
}

func (l Level) String() string {
	switch l {
	case L:
		return "L"
	case M:
		return "M"
	case Q:
		return "Q"
	case H:
		return "H"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) valid() bool {
	return l >= L && l <= H
}

// ParseLevel parses a level letter or its long name, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return L, nil
	case "m", "medium":
		return M, nil
	case "q", "quartile":
		return Q, nil
	case "h", "high":
		return H, nil
	}
	return 0, fmt.Errorf("%w: unknown error correction level %q", qrfolio.ErrInvalidOptions, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
