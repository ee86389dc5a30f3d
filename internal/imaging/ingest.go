// Package imaging compresses uploaded card photos into self-contained
// payloads: decode, downsample to a bounded width, re-encode as JPEG and
// wrap the result in a data URI that renders without a separate fetch.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxWidth is the largest width an ingested image keeps. Wider sources
	// are scaled down with their aspect ratio preserved; narrower ones are
	// never upscaled.
	MaxWidth = 800

	// JPEGQuality matches the original 0.7 canvas quality factor.
	JPEGQuality = 70
)

// Sentinel causes of an ingestion failure. Both are distinguishable from
// success so a broken upload never becomes a gallery entry.
var (
	ErrDecode = errors.New("imaging: cannot decode image")
	ErrEncode = errors.New("imaging: cannot encode image")
)

// Ingester is the image codec capability consumed by the gallery.
type Ingester struct {
	maxWidth int
	quality  int
}

// NewIngester returns an ingester with the standard bounds.
func NewIngester() *Ingester {
	return &Ingester{maxWidth: MaxWidth, quality: JPEGQuality}
}

// Ingest decodes the file, scales it down to at most MaxWidth preserving
// aspect ratio, re-encodes it as JPEG and returns a data URI string.
func (ing *Ingester) Ingest(r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > ing.maxWidth {
		scale := float64(ing.maxWidth) / float64(w)
		h = int(math.Round(float64(h) * scale))
		if h < 1 {
			h = 1
		}
		w = ing.maxWidth
	}

	// Render into an offscreen RGBA surface at the target size. JPEG has no
	// alpha, so plain Src copying is enough.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ing.quality}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
