// Package media deals with files books refer to: checks whether images are
// usable and copies media between book and spreadsheet folders.
package media

import (
	"bytes"
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sbc/sheet"
)

// PlaceholderImage is the file name book uses for image containers without
// picture.
const PlaceholderImage = "placeHolder.png"

// ErrMissingMediaFile is returned when referenced file does not exist.
var ErrMissingMediaFile = errors.New("media file not found")

// IsPlaceholder reports whether file name refers to image placeholder.
func IsPlaceholder(name string) bool {
	return strings.EqualFold(filepath.Base(name), PlaceholderImage)
}

// IsSVG decides by name and, if available, by content.
func IsSVG(name string, head []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		return true
	}
	head = bytes.TrimSpace(head)
	return bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg")))
}

// ImageStatus returns thumbnail status of the image file: empty string when
// image could be shown, otherwise one of sheet status values.
func ImageStatus(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sheet.StatusMissing
		}
		return sheet.StatusBadImage
	}
	if err := checkImage(path, data); err != nil {
		return sheet.StatusBadImage
	}
	if IsSVG(path, data) {
		return sheet.StatusCantDoSVG
	}
	return ""
}

// checkImage makes sure data is decodable picture.
func checkImage(name string, data []byte) error {
	if IsSVG(name, data) {
		if _, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode); err != nil {
			return fmt.Errorf("unable to parse svg: %w", err)
		}
		return nil
	}
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return fmt.Errorf("content is not an image (%s)", kind.MIME.Value)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to decode image: %w", err)
	}
	return nil
}
