package content

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeID turns arbitrary string (usually audio file name) into valid
// XHTML id: disallowed characters are dropped and ids which do not start
// with a letter get "i" prefix.
func SanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	id := b.String()
	switch {
	case id == "":
		return "defaultId"
	case !unicode.IsLetter([]rune(id)[0]) && id[0] != '_':
		return "i" + id
	}
	return id
}

// NewID makes fresh element id.
func NewID() string {
	return "i" + uuid.NewString()
}

// DecodeURL reverses URL encoding of src attributes, value which cannot be
// decoded is returned unchanged.
func DecodeURL(src string) string {
	if s, err := url.PathUnescape(src); err == nil {
		return s
	}
	return src
}

// EncodeFileURL encodes file name for src attribute, path separators
// included.
func EncodeFileURL(name string) string {
	return strings.ReplaceAll(url.PathEscape(name), "%2F", "%2f")
}

// EncodePathURL encodes every path segment for src attribute keeping
// separators.
func EncodePathURL(path string) string {
	segments := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
