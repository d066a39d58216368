package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivan-nizamov/qrfolio/site"
)

func (e *env) sites(ctx context.Context, args []string) error {
	cfg := e.cfg.Site
	fs := flag.NewFlagSet("sites", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	root := fs.String("root", cfg.Root, "directory holding the site directories")
	baseURL := fs.String("base-url", cfg.BaseURL, "public URL of the main site")
	size := fs.Int("size", cfg.Size, "output side in pixels (0 keeps the rendered size)")
	workers := fs.Int("workers", cfg.Workers, "sites generated in parallel")
	upload := fs.Bool("upload", false, "store the codes in the configured bucket instead of the site directories")
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: qrfolio sites [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	found, err := site.Discover(*root)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		e.log.Warn("no sites found", zap.String("root", *root))
		return nil
	}

	if !*upload {
		e.cfg.S3.Bucket = ""
	}
	store, err := e.storage(ctx, *root, "")
	if err != nil {
		return err
	}
	gen, closeGen, err := e.generator(ctx, nil)
	if err != nil {
		return err
	}
	defer closeGen()

	b := site.NewBuilder(store, gen)
	b.BaseURL = *baseURL
	b.Size = *size
	b.Workers = *workers
	b.Logger = e.log

	rep, err := b.Build(ctx, found)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "processed %d of %d sites\n", rep.Processed, len(found))
	if rep.Failed > 0 {
		return fmt.Errorf("%d sites failed", rep.Failed)
	}
	return nil
}
