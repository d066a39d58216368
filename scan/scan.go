// Package scan reads QR codes back out of images.
package scan

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp" // register BMP decoding

	"github.com/ivan-nizamov/qrfolio/qrcode"
)

// Result is a decoded symbol.
type Result struct {
	// Text is the payload decoded to a string, honouring any ECI.
	Text string
	// Bytes holds the raw byte-mode segments, concatenated. It is empty for
	// purely numeric or alphanumeric symbols.
	Bytes []byte
	// Level is the error correction level letter.
	Level string
}

// Options are reader hints.
type Options struct {
	// TryHarder spends more time looking for a symbol.
	TryHarder bool
	// Pure hints that the image is a clean render with only a quiet zone
	// around the symbol.
	Pure bool
}

// Image decodes the first QR code found in img. The hybrid binarizer is
// tried first, then the global histogram one, which copes better with
// clean low resolution renders.
func Image(img image.Image, opts *Options) (*Result, error) {
	hints := map[gozxing.DecodeHintType]interface{}{}
	if opts != nil {
		if opts.TryHarder {
			hints[gozxing.DecodeHintType_TRY_HARDER] = true
		}
		if opts.Pure {
			hints[gozxing.DecodeHintType_PURE_BARCODE] = true
		}
	}

	src := gozxing.NewLuminanceSourceFromImage(img)
	binarizers := []gozxing.Binarizer{
		gozxing.NewHybridBinarizer(src),
		gozxing.NewGlobalHistgramBinarizer(src),
	}

	var (
		result  *gozxing.Result
		lastErr error
	)
	for _, b := range binarizers {
		bmp, err := gozxing.NewBinaryBitmap(b)
		if err != nil {
			lastErr = fmt.Errorf("creating bitmap: %w", err)
			continue
		}
		result, err = zxqrcode.NewQRCodeReader().Decode(bmp, hints)
		if err == nil {
			break
		}
		lastErr = err
	}
	if result == nil {
		return nil, fmt.Errorf("no QR code found in image: %w", lastErr)
	}

	out := &Result{Text: result.GetText()}
	meta := result.GetResultMetadata()
	if segments, ok := meta[gozxing.ResultMetadataType_BYTE_SEGMENTS].([][]byte); ok {
		for _, s := range segments {
			out.Bytes = append(out.Bytes, s...)
		}
	}
	if level, ok := meta[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL]; ok {
		out.Level = fmt.Sprint(level)
	}
	return out, nil
}

// File decodes a PNG, JPEG, GIF or BMP file.
func File(path string, opts *Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return Image(img, opts)
}

// Matrix rasterizes m in black and white and decodes it.
func Matrix(m *qrcode.Matrix, moduleSize, margin int) (*Result, error) {
	return Image(Rasterize(m, moduleSize, margin), &Options{Pure: true})
}

// Rasterize paints m as a grayscale image without styling.
func Rasterize(m *qrcode.Matrix, moduleSize, margin int) *image.Gray {
	side := (m.Size() + 2*margin) * moduleSize
	img := image.NewGray(image.Rect(0, 0, side, side))
	for py := 0; py < side; py++ {
		for px := 0; px < side; px++ {
			c := color.Gray{Y: 0xff}
			if m.Dark(px/moduleSize-margin, py/moduleSize-margin) {
				c = color.Gray{}
			}
			img.SetGray(px, py, c)
		}
	}
	return img
}
