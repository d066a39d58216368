// Package site generates QR codes for a directory of portfolio sites.
//
// Every site directory gets a qr_code.png pointing at its public URL. The
// "main" directory is served at the root URL; any other directory that
// holds a resume.tex or an index.html is served under its own name.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivan-nizamov/qrfolio/generator"
	"github.com/ivan-nizamov/qrfolio/qrcode"
	"github.com/ivan-nizamov/qrfolio/render"
	"github.com/ivan-nizamov/qrfolio/storage"
)

// MainSite is the directory served at the root URL.
const MainSite = "main"

// OutputName is the file written into every site directory.
const OutputName = "qr_code.png"

var ignored = map[string]bool{
	".git":        true,
	"fonts":       true,
	"__pycache__": true,
	".vscode":     true,
}

var markers = []string{"resume.tex", "index.html"}

// Site is a discovered site directory.
type Site struct {
	// Name is the directory name.
	Name string
	// Path is the URL path relative to the base URL: "" for the main site,
	// "/<name>" otherwise.
	Path string
}

// Discover lists the sites under root, main first and the rest by name.
func Discover(root string) ([]Site, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var sites []Site
	hasMain := false
	for _, e := range entries {
		if !e.IsDir() || ignored[e.Name()] {
			continue
		}
		if e.Name() == MainSite {
			hasMain = true
			continue
		}
		if isSite(filepath.Join(root, e.Name())) {
			sites = append(sites, Site{Name: e.Name(), Path: "/" + e.Name()})
		}
	}
	slices.SortFunc(sites, func(a, b Site) int { return strings.Compare(a.Name, b.Name) })
	if hasMain {
		sites = append([]Site{{Name: MainSite}}, sites...)
	}
	return sites, nil
}

func isSite(dir string) bool {
	for _, m := range markers {
		if info, err := os.Stat(filepath.Join(dir, m)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Report summarises a Build.
type Report struct {
	Processed int
	Failed    int
	// Locations maps site names to where their code was stored.
	Locations map[string]string
}

// Builder writes the QR code of each site.
type Builder struct {
	BaseURL    string
	Level      qrcode.Level
	ModuleSize int
	Margin     int
	// Size is the output side in pixels. Zero keeps the rendered size.
	Size    int
	Workers int

	Storage   storage.Storage
	Generator *generator.Generator
	Logger    *zap.Logger
}

// Defaults used by NewBuilder.
const (
	DefaultBaseURL    = "https://ivan-nizamov.github.io"
	DefaultModuleSize = 10
	DefaultMargin     = 1
	DefaultSize       = 150
	DefaultWorkers    = 4
)

// NewBuilder returns a Builder that stores codes in store, using level H, a
// one module margin and 150px output.
func NewBuilder(store storage.Storage, gen *generator.Generator) *Builder {
	return &Builder{
		BaseURL:    DefaultBaseURL,
		Level:      qrcode.H,
		ModuleSize: DefaultModuleSize,
		Margin:     DefaultMargin,
		Size:       DefaultSize,
		Workers:    DefaultWorkers,
		Storage:    store,
		Generator:  gen,
	}
}

// URL returns the public URL of s.
func (b *Builder) URL(s Site) string {
	return b.BaseURL + s.Path
}

// Build writes a code for every site. A failing site is logged and counted
// and does not stop the others. The returned error is only set when ctx
// ends.
func (b *Builder) Build(ctx context.Context, sites []Site) (*Report, error) {
	if b.Storage == nil {
		return nil, errors.New("site: no storage configured")
	}
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gen := b.Generator
	if gen == nil {
		gen = generator.New(generator.WithLogger(log))
	}

	locations := make([]string, len(sites))
	var failed atomic.Int32

	eg, ctx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		eg.SetLimit(b.Workers)
	}
	for i, s := range sites {
		eg.Go(func() error {
			loc, err := b.build(ctx, gen, s)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
				log.Error("site failed", zap.String("site", s.Name), zap.Error(err))
				return nil
			}
			locations[i] = loc
			log.Info("generated QR code", zap.String("site", s.Name), zap.String("url", b.URL(s)), zap.String("location", loc))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Failed: int(failed.Load()), Locations: make(map[string]string, len(sites))}
	for i, s := range sites {
		if locations[i] != "" {
			rep.Processed++
			rep.Locations[s.Name] = locations[i]
		}
	}
	return rep, nil
}

func (b *Builder) build(ctx context.Context, gen *generator.Generator, s Site) (string, error) {
	style := render.DefaultStyle()
	style.ModuleSize = b.ModuleSize
	style.Margin = b.Margin

	res, err := gen.Generate(ctx, generator.Request{
		Payload: []byte(b.URL(s)),
		Level:   b.Level,
		Style:   style,
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if b.Size > 0 && b.Size != res.Raster.Side() {
		img := resize.Resize(uint(b.Size), uint(b.Size), res.Raster.Image(), resize.NearestNeighbor)
		err = png.Encode(&buf, img)
	} else {
		err = render.EncodePNG(&buf, res.Raster)
	}
	if err != nil {
		return "", fmt.Errorf("encoding png: %w", err)
	}
	return b.Storage.Put(ctx, s.Name+"/"+OutputName, render.PNG.ContentType(), buf.Bytes())
}
