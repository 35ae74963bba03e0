// Package texture loads images from disk in the background and hands them
// to the render thread for upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeFile reads and decodes an image into tightly packed RGBA. PNG, JPEG,
// BMP and WebP are detected by content; .tga files by extension. Images with
// a side above maxSize are scaled down to fit; maxSize <= 0 disables this.
func DecodeFile(path string, maxSize int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data, maxSize)
}

// Decode decodes data read from name. See DecodeFile.
func Decode(name string, data []byte, maxSize int) (*image.RGBA, error) {
	var img image.Image
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		rgba, err := decodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		img = rgba
	} else {
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		img = decoded
	}
	return toRGBA(img, maxSize), nil
}

// toRGBA returns img as an *image.RGBA anchored at the origin, scaled so
// neither side exceeds maxSize.
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
