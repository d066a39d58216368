package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivan-nizamov/qrfolio/generator"
	"github.com/ivan-nizamov/qrfolio/payload"
	"github.com/ivan-nizamov/qrfolio/qrcode"
	"github.com/ivan-nizamov/qrfolio/render"
)

var errUsage = errors.New("usage")

const logoTimeout = 10 * time.Second

// payloadFlags hold the fields of the structured payload types.
type payloadFlags struct {
	kind string

	name, org, phone, email, website string
	ssid, password, security         string
	subject, body                    string
	lat, lng                         float64
	label                            string
}

func (p *payloadFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.kind, "type", "text", "payload type: text, url, vcard, wifi, sms, mailto, geo")
	fs.StringVar(&p.name, "name", "", "vcard: full name")
	fs.StringVar(&p.org, "org", "", "vcard: organization")
	fs.StringVar(&p.phone, "phone", "", "vcard, sms: phone number")
	fs.StringVar(&p.email, "email", "", "vcard, mailto: email address")
	fs.StringVar(&p.website, "website", "", "vcard: website")
	fs.StringVar(&p.ssid, "ssid", "", "wifi: network name")
	fs.StringVar(&p.password, "password", "", "wifi: password")
	fs.StringVar(&p.security, "security", payload.DefaultSecurity, "wifi: WPA, WEP or nopass")
	fs.StringVar(&p.subject, "subject", "", "mailto: subject")
	fs.StringVar(&p.body, "body", "", "sms, mailto: message body")
	fs.Float64Var(&p.lat, "lat", 0, "geo: latitude")
	fs.Float64Var(&p.lng, "lng", 0, "geo: longitude")
	fs.StringVar(&p.label, "label", "", "geo: place label")
}

// text builds the payload. Free text comes from args.
func (p *payloadFlags) text(args []string) (string, error) {
	switch strings.ToLower(p.kind) {
	case "text", "url":
		if len(args) == 0 {
			return "", fmt.Errorf("%s payload needs an argument", p.kind)
		}
		return strings.Join(args, " "), nil
	case "vcard":
		return payload.VCard{
			Name:         p.name,
			Organization: p.org,
			Phone:        p.phone,
			Email:        p.email,
			Website:      p.website,
		}.String(), nil
	case "wifi":
		return payload.WiFi(p.ssid, p.password, p.security), nil
	case "sms":
		return payload.SMS(p.phone, p.body), nil
	case "mailto":
		return payload.Mailto(p.email, p.subject, p.body), nil
	case "geo":
		return payload.Geo(p.lat, p.lng, p.label), nil
	}
	return "", fmt.Errorf("unknown payload type %q", p.kind)
}

func (e *env) encode(ctx context.Context, args []string) error {
	cfg := e.cfg
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var pf payloadFlags
	pf.register(fs)
	level := fs.String("level", cfg.Level, "error correction level: L, M, Q or H")
	version := fs.Int("version", 0, "force a symbol version 1-40 (0 picks the smallest)")
	mask := fs.Int("mask", -1, "force a mask pattern 0-7 (-1 picks the best)")
	mode := fs.String("mode", "auto", "data mode: auto, numeric, alphanumeric, byte")
	charset := fs.String("charset", "", "text encoding, e.g. ISO-8859-1 or Shift_JIS (default UTF-8)")
	moduleSize := fs.Int("module", cfg.ModuleSize, "module size in pixels")
	width := fs.Int("width", 0, "image width in pixels, overrides -module")
	margin := fs.Int("margin", cfg.Margin, "quiet zone in modules")
	dark := fs.String("dark", cfg.Dark, "dark module colour")
	light := fs.String("light", cfg.Light, "background colour")
	shape := fs.String("shape", cfg.Shape, "module shape: square or rounded")
	logo := fs.String("logo", cfg.Logo, "logo file or http(s) URL")
	logoSize := fs.Float64("logo-size", cfg.LogoSize, "logo side as a fraction of the symbol")
	format := fs.String("format", cfg.Format, "output format: png, jpeg, bmp, svg")
	out := fs.String("o", "", "output file (default: derived from the payload in the output dir)")
	printText := fs.Bool("print", false, "print the symbol as text instead of writing an image")
	upload := fs.Bool("upload", false, "store the image in the configured bucket")
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: qrfolio encode [flags] [text]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	text, err := pf.text(fs.Args())
	if err != nil {
		return err
	}

	lvl, err := qrcode.ParseLevel(*level)
	if err != nil {
		return err
	}
	m, err := qrcode.ParseMode(*mode)
	if err != nil {
		return err
	}
	opts := &qrcode.Options{Version: *version, Mode: m, CharacterSet: *charset}
	if *mask >= 0 {
		opts.Mask = qrcode.ForceMask(*mask)
	}

	if *printText {
		sym, err := qrcode.EncodeText(text, lvl, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, sym.Summary())
		fmt.Fprint(e.stdout, sym.String())
		return nil
	}

	style, err := styleFromFlags(*moduleSize, *width, *margin, *dark, *light, *shape, *logo, *logoSize)
	if err != nil {
		return err
	}
	f, err := render.ParseFormat(*format)
	if err != nil {
		return err
	}
	if *out != "" && !isSet(fs, "format") {
		// An explicit file name decides the format unless -format was given.
		if byExt, err := render.ParseFormat(*out); err == nil {
			f = byExt
		}
	}

	dir := cfg.OutputDir
	name := render.FileName([]byte(text), lvl, f, "")
	if *out != "" {
		dir, name = filepath.Split(*out)
		if dir == "" {
			dir = "."
		}
		name = render.FileName([]byte(text), lvl, f, name)
	}

	if !*upload {
		e.cfg.S3.Bucket = ""
	}
	store, err := e.storage(ctx, dir, "")
	if err != nil {
		return err
	}
	gen, closeGen, err := e.generator(ctx, store)
	if err != nil {
		return err
	}
	defer closeGen()

	res, err := gen.Generate(ctx, generator.Request{
		Payload: []byte(text),
		Level:   lvl,
		Options: opts,
		Style:   style,
	})
	if err != nil {
		return err
	}
	loc, err := gen.Publish(ctx, res, f, name)
	if err != nil {
		return err
	}
	e.log.Info("encoded",
		zap.String("summary", res.Matrix.Summary()),
		zap.Int("warnings", len(res.Warnings)),
	)
	fmt.Fprintln(e.stdout, loc)
	return nil
}

func styleFromFlags(moduleSize, width, margin int, dark, light, shape, logo string, logoSize float64) (render.Style, error) {
	style := render.DefaultStyle()
	style.ModuleSize = moduleSize
	style.Width = width
	style.Margin = margin
	style.LogoSize = logoSize

	var err error
	if style.Dark, err = render.ParseColor(dark); err != nil {
		return style, err
	}
	if style.Light, err = render.ParseColor(light); err != nil {
		return style, err
	}
	if style.Shape, err = render.ParseShape(shape); err != nil {
		return style, err
	}
	switch {
	case logo == "":
	case strings.HasPrefix(logo, "http://"), strings.HasPrefix(logo, "https://"):
		style.Logo = render.URLLogo(logo, &http.Client{Timeout: logoTimeout})
	default:
		style.Logo = render.FileLogo(logo)
	}
	return style, nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
