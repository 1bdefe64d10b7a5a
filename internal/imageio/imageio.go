// Package imageio handles the pixel payload: data-URL decoding and the
// PNG-to-JPEG conversion with alpha flattening.
package imageio

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
)

// PNGDataURLPrefix is the only payload prefix the capture bridge produces.
const PNGDataURLPrefix = "data:image/png;base64,"

// jpegQuality matches the quality the thumbnails and archives expect.
const jpegQuality = 95

// DecodePNGDataURL strips the data-URL prefix and decodes the base64 PNG
// payload.
func DecodePNGDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, PNGDataURLPrefix) {
		return nil, fmt.Errorf("data URL is not a base64 PNG payload")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, PNGDataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode base64 image payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("image payload is empty")
	}
	return raw, nil
}

// ConvertPNGToJPEG re-encodes a PNG file as JPEG, compositing any alpha
// channel over white first.
func ConvertPNGToJPEG(pngPath, jpgPath string) error {
	src, err := os.Open(pngPath)
	if err != nil {
		return fmt.Errorf("open png: %w", err)
	}
	defer src.Close()

	img, err := png.Decode(src)
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}

	flattened := image.NewRGBA(img.Bounds())
	draw.Draw(flattened, flattened.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flattened, flattened.Bounds(), img, img.Bounds().Min, draw.Over)

	dst, err := os.Create(jpgPath)
	if err != nil {
		return fmt.Errorf("create jpg: %w", err)
	}

	if err := jpeg.Encode(dst, flattened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		dst.Close()
		return fmt.Errorf("encode jpg: %w", err)
	}
	return dst.Close()
}
