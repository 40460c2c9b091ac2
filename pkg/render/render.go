// Package render turns a sand height field into a grayscale image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an output format with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Heights is a read-only view of a height grid.
type Heights interface {
	Width() int
	Height() int
	At(x, y int) float64
}

// Grayscale maps heights linearly onto 0-255, the tallest cell becoming
// white. A field with no positive height renders black.
func Grayscale(h Heights) *image.Gray {
	w, ht := h.Width(), h.Height()
	img := image.NewGray(image.Rect(0, 0, w, ht))

	peak := 0.0
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			peak = math.Max(peak, h.At(x, y))
		}
	}
	if peak <= 0 {
		return img
	}

	scale := 255.0 / peak
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			v := math.Round(h.At(x, y) * scale)
			img.SetGray(x, y, color.Gray{Y: uint8(math.Min(math.Max(v, 0), 255))})
		}
	}
	return img
}

type encoder func(io.Writer, image.Image) error

var encoders = map[string]encoder{
	"bmp":  bmp.Encode,
	"gif":  encodeGIF,
	"jpeg": encodeJPEG,
	"png":  png.Encode,
	"tiff": encodeTIFF,
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, nil)
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

var aliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// Normalize canonicalises a format name or file extension, e.g. ".JPG"
// becomes "jpeg".
func Normalize(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", path, ErrUnsupportedFormat)
	}
	f := Normalize(ext)
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	return f, nil
}

// SupportedFormats lists the encoder names in order.
func SupportedFormats() []string {
	out := make([]string, 0, len(encoders))
	for f := range encoders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ContentType returns the MIME type of a supported format.
func ContentType(format string) string {
	return "image/" + Normalize(format)
}

// Encode writes img in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	enc, ok := encoders[Normalize(format)]
	if !ok {
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return enc(w, img)
}

// WriteFile renders h into path, choosing the format from its extension.
func WriteFile(path string, h Heights) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image: %w", err)
	}
	if err := Encode(f, Grayscale(h), format); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
