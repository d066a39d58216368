// Command qrfolio encodes, renders and scans QR codes, and generates the
// QR codes of a portfolio site tree.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ivan-nizamov/qrfolio/cache"
	"github.com/ivan-nizamov/qrfolio/generator"
	"github.com/ivan-nizamov/qrfolio/internal/config"
	"github.com/ivan-nizamov/qrfolio/internal/logger"
	"github.com/ivan-nizamov/qrfolio/storage"
)

const usage = `Usage: qrfolio <command> [flags] [args]

Commands:
  encode   encode text or a structured payload into an image
  scan     decode QR codes in image files
  sites    generate qr_code.png for every site under a directory

Run "qrfolio <command> -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// env is what every command needs.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Debug: cfg.Log.Debug, JSON: cfg.Log.JSON, Output: stderr})
	defer func() { _ = log.Sync() }()

	e := &env{cfg: cfg, log: log, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "encode":
		err = e.encode(ctx, args[1:])
	case "scan":
		err = e.scan(args[1:])
	case "sites":
		err = e.sites(ctx, args[1:])
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 1
	}
	if err != nil {
		if err != errUsage {
			log.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		}
		return 1
	}
	return 0
}

// generator builds a Generator backed by Redis when configured, otherwise
// by an in-process cache.
func (e *env) generator(ctx context.Context, store storage.Storage) (*generator.Generator, func(), error) {
	opts := []generator.Option{generator.WithLogger(e.log)}
	if store != nil {
		opts = append(opts, generator.WithStorage(store))
	}
	closeFn := func() {}

	if e.cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, e.cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { _ = client.Close() }
		opts = append(opts, generator.WithCache(cache.NewRedis(client,
			cache.WithTTL(e.cfg.Redis.TTL),
			cache.WithLogger(e.log.Named("cache")),
		)))
		e.log.Debug("using redis matrix cache")
	} else {
		opts = append(opts, generator.WithCache(cache.NewMemory(cache.DefaultMemoryEntries)))
	}
	return generator.New(opts...), closeFn, nil
}

// storage returns S3 when a bucket is configured and a local directory
// otherwise.
func (e *env) storage(ctx context.Context, dir, baseURL string) (storage.Storage, error) {
	s3cfg := e.cfg.S3
	if s3cfg.Bucket != "" {
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:         s3cfg.Bucket,
			Region:         s3cfg.Region,
			AccessKeyID:    s3cfg.AccessKeyID,
			SecretKey:      s3cfg.SecretKey,
			Endpoint:       s3cfg.Endpoint,
			BaseURL:        s3cfg.BaseURL,
			ForcePathStyle: s3cfg.ForcePathStyle,
		}, storage.WithUploadTimeout(s3cfg.UploadTimeout))
	}
	return storage.NewLocal(dir, baseURL)
}
