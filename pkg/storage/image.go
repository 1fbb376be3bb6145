package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge   = errors.New("image exceeds the 5 MB limit")
	ErrImageType       = errors.New("only jpg, png, gif and webp images are allowed")
	ErrImageSpoofed    = errors.New("file content does not match its extension")
	ErrImageMissingExt = errors.New("file has no extension")
)

var imageMagic = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {[]byte("GIF87a"), []byte("GIF89a")},
	".webp": {[]byte("RIFF")},
}

var imageMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Image is a validated upload ready to be stored.
type Image struct {
	Ext         string
	ContentType string
	Data        []byte
}

// ValidateImage checks the extension whitelist, the size limit and the
// content's magic bytes.
func ValidateImage(filename string, data []byte) (*Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, ErrImageMissingExt
	}
	signatures, ok := imageMagic[ext]
	if !ok {
		return nil, ErrImageType
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	matched := false
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			matched = true
			break
		}
	}
	if ext == ".webp" && (len(data) < 12 || !bytes.Equal(data[8:12], []byte("WEBP"))) {
		matched = false
	}
	if !matched {
		return nil, ErrImageSpoofed
	}

	contentType := imageMIME[ext]
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return &Image{Ext: ext, ContentType: contentType, Data: data}, nil
}

// ReadImage reads and validates a multipart image upload.
func ReadImage(fh *multipart.FileHeader) (*Image, error) {
	if fh.Size > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return ValidateImage(fh.Filename, data)
}

// MenuItemImagePath is menu-items/<restaurantId>/<uuid><ext>.
func MenuItemImagePath(restaurantID, ext string) string {
	return "menu-items/" + restaurantID + "/" + uuid.NewString() + ext
}

// CoverImagePath is covers/<restaurantId>/<uuid><ext>.
func CoverImagePath(restaurantID, ext string) string {
	return "covers/" + restaurantID + "/" + uuid.NewString() + ext
}
