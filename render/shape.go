package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// corners holds per-corner radii: top-left, top-right, bottom-right,
// bottom-left.
type corners [4]float64

func (c corners) square() bool {
	return c == corners{}
}

// moduleCorners returns the corner radii of the dark module at (x, y). A
// corner is rounded only when both modules next to it are light, so
// neighbouring dark modules stay joined. Finder and alignment patterns stay
// square.
func moduleCorners(m *qrcode.Matrix, x, y int, style Style, moduleSize int) corners {
	var c corners
	if style.Shape != Rounded || m.InPattern(x, y) {
		return c
	}
	r := math.Min(style.CornerRadius, 0.5) * float64(moduleSize)
	if r <= 0 {
		return c
	}
	up, down := m.Dark(x, y-1), m.Dark(x, y+1)
	left, right := m.Dark(x-1, y), m.Dark(x+1, y)
	if !up && !left {
		c[0] = r
	}
	if !up && !right {
		c[1] = r
	}
	if !down && !right {
		c[2] = r
	}
	if !down && !left {
		c[3] = r
	}
	return c
}

// drawModule adds one module to the current path of dc.
func drawModule(dc *gg.Context, x, y, s float64, c corners) {
	if c.square() {
		dc.DrawRectangle(x, y, s, s)
		return
	}
	dc.NewSubPath()
	dc.MoveTo(x+c[0], y)
	dc.LineTo(x+s-c[1], y)
	if c[1] > 0 {
		dc.DrawArc(x+s-c[1], y+c[1], c[1], gg.Radians(270), gg.Radians(360))
	}
	dc.LineTo(x+s, y+s-c[2])
	if c[2] > 0 {
		dc.DrawArc(x+s-c[2], y+s-c[2], c[2], gg.Radians(0), gg.Radians(90))
	}
	dc.LineTo(x+c[3], y+s)
	if c[3] > 0 {
		dc.DrawArc(x+c[3], y+s-c[3], c[3], gg.Radians(90), gg.Radians(180))
	}
	dc.LineTo(x, y+c[0])
	if c[0] > 0 {
		dc.DrawArc(x+c[0], y+c[0], c[0], gg.Radians(180), gg.Radians(270))
	}
	dc.ClosePath()
}

// modulePath returns the SVG path data of one module.
func modulePath(x, y, s int, c corners) string {
	f := func(v float64) string { return fmt.Sprintf("%g", math.Round(v*100)/100) }
	fx, fy, fs := float64(x), float64(y), float64(s)

	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", f(fx+c[0]), f(fy))
	fmt.Fprintf(&b, "H%s", f(fx+fs-c[1]))
	if c[1] > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", f(c[1]), f(c[1]), f(fx+fs), f(fy+c[1]))
	}
	fmt.Fprintf(&b, "V%s", f(fy+fs-c[2]))
	if c[2] > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", f(c[2]), f(c[2]), f(fx+fs-c[2]), f(fy+fs))
	}
	fmt.Fprintf(&b, "H%s", f(fx+c[3]))
	if c[3] > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", f(c[3]), f(c[3]), f(fx), f(fy+fs-c[3]))
	}
	fmt.Fprintf(&b, "V%s", f(fy+c[0]))
	if c[0] > 0 {
		fmt.Fprintf(&b, "A%s %s 0 0 1 %s %s", f(c[0]), f(c[0]), f(fx+c[0]), f(fy))
	}
	b.WriteString("Z")
	return b.String()
}
