package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ivan-nizamov/qrfolio"
)

// Shape is the outline of a dark module.
type Shape int

const (
	Square Shape = iota
	Rounded
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Rounded:
		return "rounded"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape parses "square" or "rounded".
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square":
		return Square, nil
	case "rounded", "round":
		return Rounded, nil
	}
	return 0, fmt.Errorf("%w: unknown module shape %q", qrfolio.ErrInvalidOptions, s)
}

// Style controls how a matrix is painted.
type Style struct {
	// ModuleSize is the side of one module in pixels.
	ModuleSize int
	// Margin is the quiet zone width in modules.
	Margin int
	Dark   color.Color
	Light  color.Color
	Shape  Shape
	// CornerRadius is the corner radius of rounded modules as a fraction of
	// ModuleSize.
	CornerRadius float64

	// Logo is drawn centred over the symbol by RenderWithLogo. Nil means no
	// overlay.
	Logo LogoSource
	// LogoSize is the logo side as a fraction of the symbol side, not an
	// area. The logo covers LogoSize*LogoSize of the symbol, so 0.2 hides
	// 4% of it. CheckOverlay compares that area with the level's recovery
	// capacity.
	LogoSize float64
	// LogoPadding is the border of the light plate behind the logo, in
	// pixels.
	LogoPadding int

	// Width, when set, is the requested image side in pixels. ModuleSize is
	// derived from it and must come out as a whole number.
	Width int
}

// Defaults.
const (
	DefaultModuleSize   = 8
	DefaultMargin       = 4
	DefaultCornerRadius = 0.3
	DefaultLogoSize     = 0.2
	DefaultLogoPadding  = 5
)

// DefaultStyle returns black square modules on white with a four module
// quiet zone.
func DefaultStyle() Style {
	return Style{
		ModuleSize:   DefaultModuleSize,
		Margin:       DefaultMargin,
		Dark:         color.Black,
		Light:        color.White,
		Shape:        Square,
		CornerRadius: DefaultCornerRadius,
		LogoSize:     DefaultLogoSize,
		LogoPadding:  DefaultLogoPadding,
	}
}

func (s Style) dark() color.Color {
	if s.Dark == nil {
		return color.Black
	}
	return s.Dark
}

func (s Style) light() color.Color {
	if s.Light == nil {
		return color.White
	}
	return s.Light
}

// moduleSize resolves the module pixel size for a symbol of size modules.
func (s Style) moduleSize(size int) (int, error) {
	if s.Margin < 0 {
		return 0, fmt.Errorf("%w: negative margin %d", qrfolio.ErrInvalidOptions, s.Margin)
	}
	total := size + 2*s.Margin
	if s.Width > 0 {
		if s.Width < total || s.Width%total != 0 {
			return 0, fmt.Errorf("%w: %dpx is not a whole multiple of %d modules",
				qrfolio.ErrRenderTargetTooSmall, s.Width, total)
		}
		return s.Width / total, nil
	}
	if s.ModuleSize < 1 {
		return 0, fmt.Errorf("%w: module size %dpx", qrfolio.ErrRenderTargetTooSmall, s.ModuleSize)
	}
	return s.ModuleSize, nil
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("%w: bad colour %q", qrfolio.ErrInvalidOptions, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad colour %q", qrfolio.ErrInvalidOptions, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor formats c as #rrggbb, dropping alpha.
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
