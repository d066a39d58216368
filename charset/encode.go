package charset

import (
	"fmt"
	"unicode/utf8"
)

// Encode converts text into the named character set and returns the bytes
// together with the ECI that identifies them.
func Encode(text, name string) ([]byte, *ECI, error) {
	eci, err := Lookup(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", err, name)
	}
	switch eci {
	case UTF8:
		if !utf8.ValidString(text) {
			return nil, nil, fmt.Errorf("%w: invalid UTF-8", ErrUnmappable)
		}
		return []byte(text), eci, nil
	case ASCII:
		for i := 0; i < len(text); i++ {
			if text[i] >= utf8.RuneSelf {
				return nil, nil, fmt.Errorf("%w: non-ASCII byte at %d", ErrUnmappable, i)
			}
		}
		return []byte(text), eci, nil
	}
	out, err := eci.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrUnmappable, eci.Name, err)
	}
	return out, eci, nil
}

// IsASCII reports whether every byte of b is 7-bit.
func IsASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
