// Package generator ties encoding, rendering, caching and storage together.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivan-nizamov/qrfolio"
	"github.com/ivan-nizamov/qrfolio/cache"
	"github.com/ivan-nizamov/qrfolio/qrcode"
	"github.com/ivan-nizamov/qrfolio/render"
	"github.com/ivan-nizamov/qrfolio/storage"
)

// ErrNoStorage is returned by Publish when no storage is configured.
var ErrNoStorage = errors.New("generator: no storage configured")

// Request describes one symbol to produce.
type Request struct {
	Payload []byte
	Level   qrcode.Level
	Options *qrcode.Options
	Style   render.Style
}

// Result is a generated symbol.
type Result struct {
	Matrix   *qrcode.Matrix
	Raster   *render.Raster
	Warnings []qrfolio.Warning
	// Cached reports whether Matrix came from the cache.
	Cached bool
}

// Generator produces rendered symbols. It is safe for concurrent use.
type Generator struct {
	cache   cache.Store
	storage storage.Storage
	log     *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache reuses matrices across requests.
func WithCache(store cache.Store) Option {
	return func(g *Generator) { g.cache = store }
}

// WithStorage enables Publish.
func WithStorage(s storage.Storage) Option {
	return func(g *Generator) { g.storage = s }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// New returns a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g
}

// Generate encodes and renders req. Options are checked before the cache is
// consulted. Cache failures are logged and do not fail the request.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := qrcode.Validate(req.Level, req.Options); err != nil {
		return nil, err
	}

	m, cached, err := g.matrix(ctx, req)
	if err != nil {
		return nil, err
	}

	r, err := render.RenderWithLogo(ctx, m, req.Style)
	if err != nil {
		return nil, err
	}
	for _, w := range r.Warnings {
		g.log.Warn("render warning",
			zap.Stringer("kind", w.Kind),
			zap.String("message", w.Message),
			zap.Error(w.Err),
		)
	}
	g.log.Debug("generated",
		zap.String("summary", m.Summary()),
		zap.Bool("cached", cached),
		zap.Int("side", r.Side()),
	)
	return &Result{Matrix: m, Raster: r, Warnings: r.Warnings, Cached: cached}, nil
}

func (g *Generator) matrix(ctx context.Context, req Request) (*qrcode.Matrix, bool, error) {
	var key string
	if g.cache != nil {
		key = cache.Key(req.Payload, req.Level, req.Options)
		m, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return m, true, nil
		}
	}

	m, err := encode(req)
	if err != nil {
		return nil, false, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, m); err != nil {
			g.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return m, false, nil
}

func encode(req Request) (*qrcode.Matrix, error) {
	if req.Options != nil && req.Options.CharacterSet != "" {
		return qrcode.EncodeText(string(req.Payload), req.Level, req.Options)
	}
	return qrcode.Encode(req.Payload, req.Level, req.Options)
}

// GenerateAll runs reqs with at most limit in flight. Results keep the
// order of reqs. The first failure cancels the rest.
func (g *Generator) GenerateAll(ctx context.Context, reqs []Request, limit int) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, req := range reqs {
		eg.Go(func() error {
			res, err := g.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Publish exports res in format f and stores it under key.
func (g *Generator) Publish(ctx context.Context, res *Result, f render.Format, key string) (string, error) {
	if g.storage == nil {
		return "", ErrNoStorage
	}
	var buf bytes.Buffer
	if err := render.Export(&buf, res.Raster, f); err != nil {
		return "", err
	}
	loc, err := g.storage.Put(ctx, key, f.ContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}
	g.log.Info("exported", zap.String("location", loc), zap.Stringer("format", f), zap.Int("bytes", buf.Len()))
	return loc, nil
}
