// Package poster turns fetched artwork bytes into resized JPEG files on disk.
package poster

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/marquee/internal/fileutil"
)

const (
	// DefaultMaxWidth is used when a non-positive width is requested.
	DefaultMaxWidth = 1000
	jpegQuality     = 85
)

// Kind names the artwork role in output file names.
type Kind string

const (
	KindPoster Kind = "poster"
	KindBanner Kind = "banner"
	KindCast   Kind = "cast"
)

// Decode parses image bytes, honouring EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Fit scales img down to maxWidth, keeping the aspect ratio. Narrower images
// are returned unchanged.
func Fit(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if img.Bounds().Dx() > maxWidth {
		return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	return img
}

// Save decodes data, fits it to maxWidth and writes it as a JPEG to savePath.
func Save(data []byte, savePath string, maxWidth int) error {
	img, err := Decode(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}

	return imaging.Save(Fit(img, maxWidth), savePath, imaging.JPEGQuality(jpegQuality))
}

// Filename builds "<title> - <kind>.jpg" with unsafe characters removed.
func Filename(title string, kind Kind) string {
	return fileutil.SanitizeFilename(fmt.Sprintf("%s - %s", title, kind)) + ".jpg"
}
