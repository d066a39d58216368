// Package config loads settings from the environment.
//
// A .env file in the working directory is read once, on first use, before
// variables are parsed into the target struct with caarlos0/env. Variables
// already set in the environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the qrfolio configuration. Command line flags override it.
type Config struct {
	Level      string  `env:"LEVEL" envDefault:"M"`
	ModuleSize int     `env:"MODULE_SIZE" envDefault:"8"`
	Margin     int     `env:"MARGIN" envDefault:"4"`
	Dark       string  `env:"DARK" envDefault:"#000000"`
	Light      string  `env:"LIGHT" envDefault:"#ffffff"`
	Shape      string  `env:"SHAPE" envDefault:"square"`
	Logo       string  `env:"LOGO"`
	LogoSize   float64 `env:"LOGO_SIZE" envDefault:"0.2"`
	Format     string  `env:"FORMAT" envDefault:"png"`
	OutputDir  string  `env:"OUTPUT_DIR" envDefault:"."`

	Site  SiteConfig  `envPrefix:"SITE_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
	S3    S3Config    `envPrefix:"S3_"`
	Log   LogConfig   `envPrefix:"LOG_"`
}

// SiteConfig configures the portfolio site generator.
type SiteConfig struct {
	Root    string `env:"ROOT" envDefault:"."`
	BaseURL string `env:"BASE_URL" envDefault:"https://ivan-nizamov.github.io"`
	Size    int    `env:"SIZE" envDefault:"150"`
	Workers int    `env:"WORKERS" envDefault:"4"`
}

// RedisConfig enables the shared matrix cache when URL is set.
type RedisConfig struct {
	URL string        `env:"URL"`
	TTL time.Duration `env:"TTL" envDefault:"24h"`
}

// S3Config enables uploads when Bucket is set.
type S3Config struct {
	Bucket         string        `env:"BUCKET"`
	Region         string        `env:"REGION" envDefault:"us-east-1"`
	Endpoint       string        `env:"ENDPOINT"`
	AccessKeyID    string        `env:"ACCESS_KEY_ID"`
	SecretKey      string        `env:"SECRET_ACCESS_KEY"`
	BaseURL        string        `env:"BASE_URL"`
	ForcePathStyle bool          `env:"FORCE_PATH_STYLE"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`
}

// LogConfig configures logging.
type LogConfig struct {
	Debug bool `env:"DEBUG"`
	JSON  bool `env:"JSON"`
}

// Prefix is prepended to every variable name.
const Prefix = "QRFOLIO_"

var (
	dotenvOnce sync.Once
	dotenvErr  error
)

// loadDotenv reads the given files (.env by default) into the process
// environment. Missing files are not an error.
func loadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load fills cfg from the environment. Fields are looked up with Prefix.
// A .env file in the working directory is read once, before the first
// lookup.
func Load(cfg any) error {
	dotenvOnce.Do(func() { dotenvErr = loadDotenv() })
	if dotenvErr != nil {
		return fmt.Errorf("config: load .env: %w", dotenvErr)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
