// Package images prepares smpte background images referenced by caption
// documents for embedding into frame snapshots.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// svgSniffPattern matches an opening <svg> tag near the beginning of the
// data, optionally preceded by an XML declaration, comments or whitespace.
// filetype only knows magic bytes so SVG needs its own detection.
var svgSniffPattern = regexp.MustCompile(`(?s)\A(?:\s|<\?xml[^>]*\?>|<!--.*?-->|<!DOCTYPE[^>]*>)*<svg[\s>]`)

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	limit := min(len(data), 1024)
	return svgSniffPattern.Match(data[:limit])
}

// DetectMime returns the MIME type of image data, or empty string when the
// data is not a recognized image format.
func DetectMime(data []byte) string {
	if IsSVG(data) {
		return "image/svg+xml"
	}
	t, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return ""
	}
	return t.MIME.Value
}

// Prepare decodes image data and scales it to fit the region box keeping
// aspect ratio. SVG sources are rasterized at box size. The result is
// always PNG encoded.
func Prepare(data []byte, boxW, boxH int, log *zap.Logger) ([]byte, error) {
	if boxW <= 0 || boxH <= 0 {
		return nil, fmt.Errorf("bad region box %dx%d", boxW, boxH)
	}

	var img image.Image
	if IsSVG(data) {
		var err error
		if img, err = rasterizeSVG(data, boxW, boxH); err != nil {
			return nil, fmt.Errorf("unable to rasterize SVG: %w", err)
		}
	} else {
		decoded, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unable to decode image: %w", err)
		}
		log.Debug("Decoded smpte image",
			zap.String("format", format),
			zap.Int("width", decoded.Bounds().Dx()),
			zap.Int("height", decoded.Bounds().Dy()))
		img = decoded
		if img.Bounds().Dx() > boxW || img.Bounds().Dy() > boxH {
			img = imaging.Fit(img, boxW, boxH, imaging.Lanczos)
		}
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("unable to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI encodes PNG data as a data: URI for inline use in snapshots.
func DataURI(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
