package images

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

const testSVG = `<?xml version="1.0"?>
<svg viewBox="0 0 100 50" xmlns="http://www.w3.org/2000/svg">
  <rect x="10" y="10" width="80" height="30" fill="red"/>
</svg>`

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"svg with declaration", []byte(testSVG), true},
		{"bare svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), true},
		{"svg after comment", []byte("<!-- note -->\n<svg>"), true},
		{"png", pngData(t, 4, 4), false},
		{"html", []byte("<html><svg></svg></html>"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSVG(tt.data); got != tt.want {
				t.Errorf("IsSVG() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectMime(t *testing.T) {
	if mt := DetectMime(pngData(t, 4, 4)); mt != "image/png" {
		t.Errorf("DetectMime(png) = %q, want image/png", mt)
	}
	if mt := DetectMime([]byte(testSVG)); mt != "image/svg+xml" {
		t.Errorf("DetectMime(svg) = %q, want image/svg+xml", mt)
	}
	if mt := DetectMime([]byte("not an image")); mt != "" {
		t.Errorf("DetectMime(text) = %q, want empty", mt)
	}
}

func TestPrepare(t *testing.T) {
	log := zap.NewNop()

	t.Run("raster fits into box", func(t *testing.T) {
		out, err := Prepare(pngData(t, 200, 100), 100, 100, log)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not PNG: %v", err)
		}
		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
			t.Errorf("output size = %dx%d, want 100x50", img.Bounds().Dx(), img.Bounds().Dy())
		}
	})

	t.Run("small raster kept as is", func(t *testing.T) {
		out, err := Prepare(pngData(t, 20, 10), 100, 100, log)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not PNG: %v", err)
		}
		if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
			t.Errorf("output size = %dx%d, want 20x10", img.Bounds().Dx(), img.Bounds().Dy())
		}
	})

	t.Run("svg rasterized at box size", func(t *testing.T) {
		out, err := Prepare([]byte(testSVG), 200, 200, log)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not PNG: %v", err)
		}
		// 100x50 viewBox fitted into 200x200
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
			t.Errorf("output size = %dx%d, want 200x100", img.Bounds().Dx(), img.Bounds().Dy())
		}
	})

	t.Run("bad data", func(t *testing.T) {
		if _, err := Prepare([]byte("garbage"), 100, 100, log); err == nil {
			t.Error("Prepare() expected error for bad data")
		}
	})

	t.Run("bad box", func(t *testing.T) {
		if _, err := Prepare(pngData(t, 4, 4), 0, 100, log); err == nil {
			t.Error("Prepare() expected error for empty box")
		}
	})
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{1, 2, 3})
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI() = %q, missing prefix", uri)
	}
}
