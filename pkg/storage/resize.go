package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxImageDimension is the longest side kept for stored images.
const MaxImageDimension = 1600

const jpegQuality = 85

var ErrImageCorrupt = errors.New("image could not be decoded")

// Downscale shrinks img so its longest side is at most maxDimension,
// keeping the aspect ratio. GIFs are returned untouched to keep animation.
// WebP has no encoder here, so resized WebP images are stored as JPEG.
func Downscale(img *Image, maxDimension int) (*Image, error) {
	if img.Ext == ".gif" {
		return img, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}
	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}

	w, h := scaledSize(cfg.Width, cfg.Height, maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	out := &Image{Ext: img.Ext, ContentType: img.ContentType}
	switch img.Ext {
	case ".png":
		err = png.Encode(&buf, dst)
	default:
		out.Ext, out.ContentType = ".jpg", "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	out.Data = buf.Bytes()
	return out, nil
}

func scaledSize(width, height, limit int) (int, int) {
	if width >= height {
		return limit, maxInt(1, height*limit/width)
	}
	return maxInt(1, width*limit/height), limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
