package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"

	"storefront-backend/pkg/logger"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// MaxImageSide bounds both dimensions of a product image.
const MaxImageSide = 1600

const imageQuality = 85

// ProcessImage prepares an uploaded product photo for the catalog grid. The
// image is fitted inside MaxImageSide, flattened onto white so transparent
// PNGs render the same as on the storefront cards, then encoded as WebP with
// a JPEG fallback.
func ProcessImage(r io.Reader, filename string) ([]byte, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filename, err)
	}
	b := src.Bounds()
	logger.Debug().Str("file", filename).Str("format", format).
		Int("width", b.Dx()).Int("height", b.Dy()).Msg("Processing product image")

	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		src = imaging.Fit(src, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}
	fitted := src.Bounds()
	img := imaging.Overlay(imaging.New(fitted.Dx(), fitted.Dy(), color.White), src, image.Point{}, 1.0)

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{Quality: imageQuality})
	if err == nil {
		return buf.Bytes(), "image/webp", nil
	}
	logger.Warn().Err(err).Str("file", filename).Msg("WebP encoding failed, falling back to JPEG")

	buf.Reset()
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: imageQuality}); err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", filename, err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// IsImage reports whether an upload's declared content type is one the
// catalog accepts.
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
