package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/showthr/pkg/geo"
	"github.com/ChicagoDave/showthr/pkg/sand"
)

type grid [][]float64

func (g grid) Width() int          { return len(g[0]) }
func (g grid) Height() int         { return len(g) }
func (g grid) At(x, y int) float64 { return g[y][x] }

func TestGrayscaleScalesToMax(t *testing.T) {
	img := Grayscale(grid{
		{0, 1, 2},
		{4, 3, 0.5},
	})
	want := [][]uint8{
		{0, 64, 128},
		{255, 191, 32},
	}
	for y, row := range want {
		for x, v := range row {
			if got := img.GrayAt(x, y).Y; got != v {
				t.Errorf("pixel (%d,%d): expected %d, got %d", x, y, v, got)
			}
		}
	}
}

func TestGrayscaleEmptyField(t *testing.T) {
	img := Grayscale(grid{{0, 0}, {0, 0}})
	for _, p := range img.Pix {
		if p != 0 {
			t.Fatalf("expected black image, got pixel %d", p)
		}
	}
}

func TestGrayscaleOfSimulationField(t *testing.T) {
	f := sand.NewField(20, 10, 2)
	f.Push(geo.V(10, 5), 3)
	img := Grayscale(f)
	if img.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.GrayAt(0, 0).Y == 0 || img.GrayAt(0, 0).Y == 255 {
		t.Errorf("expected untouched sand mid-gray, got %d", img.GrayAt(0, 0).Y)
	}
	if img.GrayAt(10, 5).Y >= img.GrayAt(0, 0).Y {
		t.Error("expected the ball footprint darker than untouched sand")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]string{
		"out.png": "png",
		"OUT.JPG": "jpeg",
		"a.jpeg":  "jpeg",
		"b.gif":   "gif",
		"c.bmp":   "bmp",
		"d.tif":   "tiff",
		"e.tiff":  "tiff",
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("%s: expected %s, got %s (%v)", path, want, got, err)
		}
	}

	for _, bad := range []string{"out.webp", "noext"} {
		if _, err := FormatFromPath(bad); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", bad, err)
		}
	}
}

func TestEncodeAllFormats(t *testing.T) {
	img := Grayscale(grid{{0, 1}, {2, 3}})
	for _, f := range SupportedFormats() {
		var buf bytes.Buffer
		if err := Encode(&buf, img, f); err != nil {
			t.Errorf("%s: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty output", f)
		}
	}
	if err := Encode(&bytes.Buffer{}, img, "webp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sand.png")
	if err := WriteFile(path, grid{{0, 2}, {1, 2}}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}
