package qrfolio

import "fmt"

// WarningKind identifies a non-fatal condition raised while rendering.
type WarningKind int

const (
	// WarnUnsafeOverlay means the logo covers more of the symbol than the
	// error correction level is expected to recover.
	WarnUnsafeOverlay WarningKind = iota + 1
	// WarnLogoLoadFailed means the logo could not be loaded and the image was
	// produced without it.
	WarnLogoLoadFailed
)

// String returns the name of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnUnsafeOverlay:
		return "UNSAFE_OVERLAY"
	case WarnLogoLoadFailed:
		return "LOGO_LOAD_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Warning is a condition the caller should know about but which did not stop
// the operation.
type Warning struct {
	Kind    WarningKind
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Kind, w.Message, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// HasWarning reports whether ws contains a warning of the given kind.
func HasWarning(ws []Warning, kind WarningKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
