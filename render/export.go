package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/google/uuid"
	"golang.org/x/image/bmp"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// Format is an export file format.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	SVG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case SVG:
		return "svg"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return f.String()
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	case SVG:
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat accepts a format name, an extension or a file name.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = ext
	}
	switch strings.TrimPrefix(name, ".") {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "svg":
		return SVG, nil
	}
	return 0, fmt.Errorf("%w: unknown image format %q", qrfolio.ErrInvalidOptions, s)
}

// JPEGQuality is the quality used by Export for JPEG output.
const JPEGQuality = 95

// EncodePNG writes r as PNG.
func EncodePNG(w io.Writer, r *Raster) error {
	return png.Encode(w, r.img)
}

// EncodeJPEG writes r as JPEG.
func EncodeJPEG(w io.Writer, r *Raster, quality int) error {
	return jpeg.Encode(w, r.img, &jpeg.Options{Quality: quality})
}

// EncodeBMP writes r as BMP.
func EncodeBMP(w io.Writer, r *Raster) error {
	return bmp.Encode(w, r.img)
}

// DataURI returns r as a base64 PNG data URI for inline display.
func DataURI(r *Raster) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, r); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// WriteSVG writes m as an SVG document. The logo is not embedded.
func WriteSVG(w io.Writer, m *qrcode.Matrix, style Style) error {
	ms, err := style.moduleSize(m.Size())
	if err != nil {
		return err
	}
	side := (m.Size() + 2*style.Margin) * ms
	fill := "fill:" + HexColor(style.dark()) + ";stroke:none"

	s := svg.New(w)
	s.Start(side, side)
	s.Rect(0, 0, side, side, "fill:"+HexColor(style.light())+";stroke:none")
	s.Group(`shape-rendering="crispEdges"`)
	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := (x+style.Margin)*ms, (y+style.Margin)*ms
			if c := moduleCorners(m, x, y, style, ms); !c.square() {
				s.Path(modulePath(px, py, ms, c), fill)
			} else {
				s.Rect(px, py, ms, ms, fill)
			}
		}
	}
	s.Gend()
	s.End()
	return nil
}

// Export writes r in the given format. SVG is drawn from the raster's matrix
// and style.
func Export(w io.Writer, r *Raster, f Format) error {
	switch f {
	case PNG:
		return EncodePNG(w, r)
	case JPEG:
		return EncodeJPEG(w, r, JPEGQuality)
	case BMP:
		return EncodeBMP(w, r)
	case SVG:
		return WriteSVG(w, r.matrix, r.style)
	}
	return fmt.Errorf("%w: unknown image format %d", qrfolio.ErrInvalidOptions, int(f))
}

var fileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ivan-nizamov/qrfolio"))

// FileName returns the download name for an export. A caller supplied name
// wins and gets the format extension if it has none. Otherwise the name is
// derived from payload and level, so the same code always gets the same
// name.
func FileName(payload []byte, level qrcode.Level, f Format, name string) string {
	if name != "" {
		if filepath.Ext(name) == "" {
			name += "." + f.Ext()
		}
		return name
	}
	id := uuid.NewSHA1(fileNamespace, append([]byte(level.String()+":"), payload...))
	return fmt.Sprintf("qr-code-%s.%s", id, f.Ext())
}
