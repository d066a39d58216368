package main

import (
	"errors"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivan-nizamov/qrfolio/scan"
)

var errNotFound = errors.New("some images had no readable QR code")

func (e *env) scan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	tryHarder := fs.Bool("try-harder", false, "spend more time looking for a symbol")
	pure := fs.Bool("pure", false, "hint that the image is a clean render with minimal border")
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: qrfolio scan [flags] <image-file> [image-file...]\n\n")
		fmt.Fprintf(e.stderr, "Decode QR codes in image files (PNG, JPEG, GIF, BMP).\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	opts := &scan.Options{TryHarder: *tryHarder, Pure: *pure}
	failed := false
	for _, path := range fs.Args() {
		res, err := scan.File(path, opts)
		if err != nil {
			e.log.Warn("scan failed", zap.String("file", path), zap.Error(err))
			failed = true
			continue
		}
		if fs.NArg() > 1 {
			fmt.Fprintf(e.stdout, "%s: ", path)
		}
		fmt.Fprintf(e.stdout, "[%s] %s\n", res.Level, res.Text)
	}
	if failed {
		return errNotFound
	}
	return nil
}
