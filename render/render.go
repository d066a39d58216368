// Package render paints QR matrices as raster and vector images.
//
// Rendering is split in two phases. Render paints the symbol synchronously.
// A logo is loaded in the background with LoadLogo and layered over the
// finished symbol by Composite once it is available, so the overlay never
// interleaves with module painting.
package render

import (
	"errors"
	"image"

	"github.com/fogleman/gg"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// Raster is a painted symbol. Warnings collects non-fatal conditions met
// while rendering.
type Raster struct {
	img        *image.RGBA
	matrix     *qrcode.Matrix
	style      Style
	moduleSize int

	Warnings []qrfolio.Warning
}

// Image returns the pixels.
func (r *Raster) Image() *image.RGBA { return r.img }

// Matrix returns the symbol that was painted.
func (r *Raster) Matrix() *qrcode.Matrix { return r.matrix }

// ModuleSize returns the module side in pixels.
func (r *Raster) ModuleSize() int { return r.moduleSize }

// Side returns the image side in pixels.
func (r *Raster) Side() int { return r.img.Bounds().Dx() }

// symbolSide returns the side of the symbol without quiet zone, in pixels.
func (r *Raster) symbolSide() int { return r.matrix.Size() * r.moduleSize }

// Render paints m. The image side is (m.Size() + 2*Margin) * ModuleSize.
func Render(m *qrcode.Matrix, style Style) (*Raster, error) {
	if m == nil {
		return nil, errors.New("render: nil matrix")
	}
	ms, err := style.moduleSize(m.Size())
	if err != nil {
		return nil, err
	}
	side := (m.Size() + 2*style.Margin) * ms

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(style.light())
	dc.Clear()

	dc.SetColor(style.dark())
	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px := float64((x + style.Margin) * ms)
			py := float64((y + style.Margin) * ms)
			drawModule(dc, px, py, float64(ms), moduleCorners(m, x, y, style, ms))
		}
	}
	dc.Fill()

	return &Raster{img: img, matrix: m, style: style, moduleSize: ms}, nil
}
