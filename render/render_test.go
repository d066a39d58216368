package render_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/qrcode"
	"github.com/ivan-nizamov/qrfolio/render"
	"github.com/ivan-nizamov/qrfolio/scan"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	navy  = color.RGBA{R: 0x10, G: 0x20, B: 0x60, A: 0xff}
	cream = color.RGBA{R: 0xfa, G: 0xf5, B: 0xe6, A: 0xff}
)

func mustEncode(t *testing.T, payload string, level qrcode.Level) *qrcode.Matrix {
	t.Helper()
	m, err := qrcode.Encode([]byte(payload), level, nil)
	require.NoError(t, err)
	return m
}

func solid(c color.Color, side int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderHelloEndToEnd(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.M)
	style := render.DefaultStyle()
	style.ModuleSize = 10
	style.Margin = 4

	r, err := render.Render(m, style)
	require.NoError(t, err)
	assert.Equal(t, (21+8)*10, r.Side())
	assert.Empty(t, r.Warnings)

	res, err := scan.Image(r.Image(), nil)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res.Text)
}

func TestRenderColours(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.Q)
	style := render.DefaultStyle()
	style.Dark, style.Light = navy, cream
	style.ModuleSize = 4

	r, err := render.Render(m, style)
	require.NoError(t, err)
	img := r.Image()
	assert.Equal(t, cream, img.RGBAAt(0, 0), "quiet zone")
	assert.Equal(t, navy, img.RGBAAt(4*4+1, 4*4+1), "finder module")
	assert.Equal(t, cream, img.RGBAAt(5*4+1, 5*4+1), "finder ring")
}

func TestRenderWidth(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.M)
	style := render.DefaultStyle()

	style.Width = 29 * 6
	r, err := render.Render(m, style)
	require.NoError(t, err)
	assert.Equal(t, 6, r.ModuleSize())
	assert.Equal(t, 29*6, r.Side())

	for _, width := range []int{256, 28, 29*6 + 1} {
		style.Width = width
		_, err = render.Render(m, style)
		assert.ErrorIs(t, err, qrfolio.ErrRenderTargetTooSmall, "width %d", width)
	}

	style.Width = 0
	style.ModuleSize = 0
	_, err = render.Render(m, style)
	assert.ErrorIs(t, err, qrfolio.ErrRenderTargetTooSmall)

	style.ModuleSize = 4
	style.Margin = -1
	_, err = render.Render(m, style)
	assert.ErrorIs(t, err, qrfolio.ErrInvalidOptions)
}

func TestRenderRounded(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.M)
	style := render.DefaultStyle()
	style.ModuleSize = 20
	square, err := render.Render(m, style)
	require.NoError(t, err)
	style.Shape = render.Rounded
	rounded, err := render.Render(m, style)
	require.NoError(t, err)

	black := color.RGBA{A: 0xff}
	corner := 4 * 20
	assert.Equal(t, black, rounded.Image().RGBAAt(corner, corner), "finder stays square")

	// A dark data module with light neighbours above and to the left loses
	// its top-left corner.
	found := false
	for y := 0; y < m.Size() && !found; y++ {
		for x := 0; x < m.Size() && !found; x++ {
			if !m.Dark(x, y) || m.InPattern(x, y) || m.Dark(x-1, y) || m.Dark(x, y-1) {
				continue
			}
			found = true
			px, py := (x+4)*20, (y+4)*20
			assert.Equal(t, black, square.Image().RGBAAt(px, py))
			assert.NotEqual(t, black, rounded.Image().RGBAAt(px, py))
			assert.Equal(t, black, rounded.Image().RGBAAt(px+10, py+10))
		}
	}
	require.True(t, found)
}

func TestRenderRoundedDecodes(t *testing.T) {
	for _, payload := range []string{"HELLO", "https://ivan-nizamov.github.io/projects"} {
		m := mustEncode(t, payload, qrcode.M)
		for _, ms := range []int{8, 10, 20} {
			for _, radius := range []float64{0.1, render.DefaultCornerRadius, 0.5} {
				style := render.DefaultStyle()
				style.Shape = render.Rounded
				style.ModuleSize = ms
				style.CornerRadius = radius

				r, err := render.Render(m, style)
				require.NoError(t, err)
				res, err := scan.Image(r.Image(), &scan.Options{TryHarder: true})
				require.NoError(t, err, "module %d radius %.1f", ms, radius)
				assert.Equal(t, payload, res.Text)
			}
		}
	}
}

func TestCheckOverlay(t *testing.T) {
	w, unsafe := render.CheckOverlay(qrcode.L, 0.4)
	assert.True(t, unsafe)
	assert.Equal(t, qrfolio.WarnUnsafeOverlay, w.Kind)

	_, unsafe = render.CheckOverlay(qrcode.H, 0.4)
	assert.False(t, unsafe)
	_, unsafe = render.CheckOverlay(qrcode.M, 0.2)
	assert.False(t, unsafe)
	_, unsafe = render.CheckOverlay(qrcode.Q, 0.55)
	assert.True(t, unsafe)

	// LogoSize is a side fraction: 0.26 covers 6.76% and fits within L's 7%.
	_, unsafe = render.CheckOverlay(qrcode.L, 0.26)
	assert.False(t, unsafe)
	w, unsafe = render.CheckOverlay(qrcode.L, 0.3)
	assert.True(t, unsafe)
	assert.Contains(t, w.Message, "covers 9%")
}

func TestRenderWithLogoOverlaySafety(t *testing.T) {
	for _, tt := range []struct {
		level qrcode.Level
		warn  bool
	}{
		{qrcode.L, true},
		{qrcode.H, false},
	} {
		m := mustEncode(t, "https://ivan-nizamov.github.io/", tt.level)
		style := render.DefaultStyle()
		style.Logo = render.ImageLogo(solid(red, 32))
		style.LogoSize = 0.4

		r, err := render.RenderWithLogo(context.Background(), m, style)
		require.NoError(t, err)
		assert.Equal(t, tt.warn, qrfolio.HasWarning(r.Warnings, qrfolio.WarnUnsafeOverlay), tt.level.String())
	}
}

func TestRenderWithLogoComposites(t *testing.T) {
	m := mustEncode(t, "https://ivan-nizamov.github.io/resume", qrcode.H)
	style := render.DefaultStyle()
	style.Logo = render.ImageLogo(solid(red, 40))

	r, err := render.RenderWithLogo(context.Background(), m, style)
	require.NoError(t, err)
	assert.Empty(t, r.Warnings)

	center := r.Side() / 2
	c := r.Image().RGBAAt(center, center)
	assert.Greater(t, c.R, uint8(240))
	assert.Less(t, c.G, uint8(15))

	logoSide := int(0.2*float64(m.Size()*style.ModuleSize) + 0.5)
	plate := (r.Side()-logoSide)/2 - 2
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, r.Image().RGBAAt(plate, center), "padding plate")

	res, err := scan.Image(r.Image(), &scan.Options{TryHarder: true})
	require.NoError(t, err)
	assert.Equal(t, "https://ivan-nizamov.github.io/resume", res.Text)
}

func TestRenderWithLogoLoadFailure(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.H)
	style := render.DefaultStyle()

	base, err := render.Render(m, style)
	require.NoError(t, err)

	style.Logo = render.FileLogo(filepath.Join(t.TempDir(), "missing.png"))
	r, err := render.RenderWithLogo(context.Background(), m, style)
	require.NoError(t, err)
	require.True(t, qrfolio.HasWarning(r.Warnings, qrfolio.WarnLogoLoadFailed))
	assert.ErrorIs(t, r.Warnings[0].Err, qrfolio.ErrLogoLoadFailed)
	assert.Equal(t, base.Image().Pix, r.Image().Pix, "base render untouched")
}

func TestURLLogo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/logo.png" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, solid(red, 16))
	}))
	defer srv.Close()

	m := mustEncode(t, "HELLO", qrcode.H)
	style := render.DefaultStyle()

	style.Logo = render.URLLogo(srv.URL+"/logo.png", srv.Client())
	r, err := render.RenderWithLogo(context.Background(), m, style)
	require.NoError(t, err)
	assert.Empty(t, r.Warnings)
	assert.Greater(t, r.Image().RGBAAt(r.Side()/2, r.Side()/2).R, uint8(240))

	style.Logo = render.URLLogo(srv.URL+"/nope.png", srv.Client())
	r, err = render.RenderWithLogo(context.Background(), m, style)
	require.NoError(t, err)
	assert.True(t, qrfolio.HasWarning(r.Warnings, qrfolio.WarnLogoLoadFailed))
}

func TestCompositeAfterBaseRender(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.H)
	style := render.DefaultStyle()

	gate := make(chan struct{})
	future := render.LoadLogo(context.Background(), gatedLogo{gate: gate})
	r, err := render.Render(m, style)
	require.NoError(t, err)

	pending, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = future.Await(pending)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "logo still loading after the base render")

	close(gate)
	require.NoError(t, r.Composite(context.Background(), future, style))
	logo, err := future.Await(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, logo)
	assert.Greater(t, r.Image().RGBAAt(r.Side()/2, r.Side()/2).R, uint8(240))
}

func TestCompositeContextCancelled(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.H)
	style := render.DefaultStyle()
	r, err := render.Render(m, style)
	require.NoError(t, err)

	gate := make(chan struct{})
	defer close(gate)
	future := render.LoadLogo(context.Background(), gatedLogo{gate: gate})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Composite(ctx, future, style), context.Canceled)
}

type gatedLogo struct{ gate chan struct{} }

func (g gatedLogo) Load(ctx context.Context) (image.Image, error) {
	select {
	case <-g.gate:
		return solid(red, 8), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g gatedLogo) String() string { return "gated" }

func TestExport(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.M)
	r, err := render.Render(m, render.DefaultStyle())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.Export(&buf, r, render.PNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, r.Side(), img.Bounds().Dx())

	buf.Reset()
	require.NoError(t, render.Export(&buf, r, render.JPEG))
	img, err = jpeg.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, r.Side(), img.Bounds().Dy())

	buf.Reset()
	require.NoError(t, render.Export(&buf, r, render.BMP))
	img, err = bmp.Decode(&buf)
	require.NoError(t, err)
	res, err := scan.Image(img, nil)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", res.Text)

	uri, err := render.DataURI(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestWriteSVG(t *testing.T) {
	m := mustEncode(t, "HELLO", qrcode.M)
	style := render.DefaultStyle()
	style.Dark = navy

	var buf bytes.Buffer
	require.NoError(t, render.WriteSVG(&buf, m, style))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "fill:#102060")

	dark := m.Bits().CountSet()
	assert.Equal(t, dark+1, strings.Count(out, "<rect"))
	assert.NotContains(t, out, "rx=")

	style.Shape = render.Rounded
	buf.Reset()
	require.NoError(t, render.WriteSVG(&buf, m, style))
	out = buf.String()
	paths := strings.Count(out, "<path")
	assert.Positive(t, paths)
	assert.Equal(t, dark+1, strings.Count(out, "<rect")+paths)
	assert.Contains(t, out, " 0 0 1 ")
}

func TestFileName(t *testing.T) {
	a := render.FileName([]byte("HELLO"), qrcode.M, render.PNG, "")
	b := render.FileName([]byte("HELLO"), qrcode.M, render.PNG, "")
	assert.Equal(t, a, b)
	assert.Regexp(t, `^qr-code-[0-9a-f-]{36}\.png$`, a)
	assert.NotEqual(t, a, render.FileName([]byte("HELLO"), qrcode.H, render.PNG, ""))
	assert.True(t, strings.HasSuffix(render.FileName([]byte("HELLO"), qrcode.M, render.JPEG, ""), ".jpg"))

	assert.Equal(t, "resume.svg", render.FileName([]byte("x"), qrcode.M, render.SVG, "resume"))
	assert.Equal(t, "card.png", render.FileName([]byte("x"), qrcode.M, render.SVG, "card.png"))
}

func TestParsers(t *testing.T) {
	f, err := render.ParseFormat("out/code.JPG")
	require.NoError(t, err)
	assert.Equal(t, render.JPEG, f)
	f, err = render.ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, render.SVG, f)
	_, err = render.ParseFormat("tiff")
	assert.ErrorIs(t, err, qrfolio.ErrInvalidOptions)

	c, err := render.ParseColor("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, "#1a2b3c", render.HexColor(c))
	c, err = render.ParseColor("fff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", render.HexColor(c))
	_, err = render.ParseColor("#12345")
	assert.ErrorIs(t, err, qrfolio.ErrInvalidOptions)

	s, err := render.ParseShape("Rounded")
	require.NoError(t, err)
	assert.Equal(t, render.Rounded, s)
	_, err = render.ParseShape("hexagon")
	assert.Error(t, err)
}
