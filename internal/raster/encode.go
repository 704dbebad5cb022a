package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat maps a file extension or format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(s), ".")) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

// Encode writes img to w in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("png encode: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return nil
}
