package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"net/http"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// LogoSource loads the overlay image.
type LogoSource interface {
	Load(ctx context.Context) (image.Image, error)
	String() string
}

type fileLogo string

// FileLogo loads the logo from a PNG, JPEG or GIF file.
func FileLogo(path string) LogoSource { return fileLogo(path) }

func (f fileLogo) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return gg.LoadImage(string(f))
}

func (f fileLogo) String() string { return string(f) }

type urlLogo struct {
	url    string
	client *http.Client
}

// URLLogo fetches the logo over HTTP. A nil client means
// http.DefaultClient.
func URLLogo(url string, client *http.Client) LogoSource {
	if client == nil {
		client = http.DefaultClient
	}
	return urlLogo{url: url, client: client}
}

func (u urlLogo) Load(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u.url, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}

func (u urlLogo) String() string { return u.url }

type imageLogo struct{ img image.Image }

// ImageLogo uses an image already in memory.
func ImageLogo(img image.Image) LogoSource { return imageLogo{img} }

func (i imageLogo) Load(context.Context) (image.Image, error) {
	if i.img == nil {
		return nil, fmt.Errorf("nil image")
	}
	return i.img, nil
}

func (i imageLogo) String() string { return "in-memory image" }

// LogoFuture is a logo load in progress.
type LogoFuture struct {
	src  LogoSource
	img  image.Image
	err  error
	done chan struct{}
}

// LoadLogo starts loading src in the background.
func LoadLogo(ctx context.Context, src LogoSource) *LogoFuture {
	f := &LogoFuture{src: src, done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.img, f.err = src.Load(ctx)
	}()

	return f
}

// Await waits for the load to finish or ctx to end.
func (f *LogoFuture) Await(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CheckOverlay reports whether a logo of logoSize (a fraction of the symbol
// width) hides more of the symbol than level can recover. The covered share
// is logoSize squared.
func CheckOverlay(level qrcode.Level, logoSize float64) (qrfolio.Warning, bool) {
	covered := logoSize * logoSize
	limit := level.RecoveryFraction()
	if covered <= limit {
		return qrfolio.Warning{}, false
	}
	return qrfolio.Warning{
		Kind: qrfolio.WarnUnsafeOverlay,
		Message: fmt.Sprintf("logo covers %.0f%% of the symbol, level %s recovers about %.0f%%",
			covered*100, level, limit*100),
	}, true
}

// Composite waits for the logo and draws it, on a light plate, in the
// centre of the finished raster. A failed load leaves the raster untouched
// and adds a LOGO_LOAD_FAILED warning. Only the end of ctx is returned as an
// error.
func (r *Raster) Composite(ctx context.Context, f *LogoFuture, style Style) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	logo, err := f.Await(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil && logo == nil {
		err = fmt.Errorf("empty image")
	}
	if err != nil {
		r.Warnings = append(r.Warnings, qrfolio.Warning{
			Kind:    qrfolio.WarnLogoLoadFailed,
			Message: f.src.String(),
			Err:     fmt.Errorf("%w: %v", qrfolio.ErrLogoLoadFailed, err),
		})
		return nil
	}

	logoSide := int(math.Round(style.LogoSize * float64(r.symbolSide())))
	if logoSide < 1 {
		return nil
	}
	side := r.Side()
	x := (side - logoSide) / 2
	y := (side - logoSide) / 2
	pad := max(style.LogoPadding, 0)

	dc := gg.NewContextForRGBA(r.img)
	dc.SetColor(style.light())
	dc.DrawRectangle(float64(x-pad), float64(y-pad), float64(logoSide+2*pad), float64(logoSide+2*pad))
	dc.Fill()

	scaled := resize.Resize(uint(logoSide), uint(logoSide), logo, resize.Lanczos3)
	dc.DrawImage(scaled, x, y)
	return nil
}

// RenderWithLogo renders m and, when style.Logo is set, overlays it. The
// logo is fetched while the base symbol is painted.
func RenderWithLogo(ctx context.Context, m *qrcode.Matrix, style Style) (*Raster, error) {
	var future *LogoFuture
	if style.Logo != nil {
		future = LoadLogo(ctx, style.Logo)
	}

	r, err := Render(m, style)
	if err != nil {
		return nil, err
	}
	if future == nil {
		return r, nil
	}

	if w, unsafe := CheckOverlay(m.Level(), style.LogoSize); unsafe {
		r.Warnings = append(r.Warnings, w)
	}
	if err := r.Composite(ctx, future, style); err != nil {
		return nil, err
	}
	return r, nil
}
