package sheet

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ColumnKind is semantic type of a column.
type ColumnKind int

const (
	KindUnknown ColumnKind = iota
	KindRowType
	KindPageNumber
	KindPageType
	KindTextIndex
	KindImageThumbnail
	KindImageSource
	KindVideoSource
	KindWidgetSource
	KindAttributeData
	KindLanguage
	KindAudio
	KindAlignment
)

// WildcardLanguage is pseudo language of entries which do not depend on
// language (for example image file names in book metadata).
const WildcardLanguage = "*"

type kindInfo struct {
	label   string
	name    string
	comment string
}

// Fixed column tags, display names and header comments. Language dependent
// kinds use label as prefix.
var kinds = map[ColumnKind]kindInfo{
	KindRowType:        {"[row type]", "Row type", "Kind of content in the row: [page content], [image description] or book metadata key."},
	KindPageNumber:     {"[page number]", "Page number", "Number of the page the row came from. Rows are matched to pages by this number."},
	KindPageType:       {"[page type]", "Page type", "Name of the page template. Set it to ask for a new page of that type."},
	KindTextIndex:      {"[text index on page]", "Text index", "Position of the text block on its page, in reading order."},
	KindImageThumbnail: {"[image thumbnail]", "Thumbnail", ""},
	KindImageSource:    {"[image source]", "Image source", "Path of the image file relative to the spreadsheet folder."},
	KindVideoSource:    {"[video source]", "Video source", "Path of the video file relative to the spreadsheet folder."},
	KindWidgetSource:   {"[widget source]", "Widget source", "Path of the widget root file relative to the spreadsheet folder."},
	KindAttributeData:  {"[attribute data]", "Attribute data", "Extra attributes, for example which quiz answer is correct."},
	KindLanguage:       {"[", "", ""},
	KindAudio:          {"[audio ", "Audio", "Comma separated audio files, one per sentence, or one file for the whole block. Use 'missing' for a sentence without recording."},
	KindAlignment:      {"[audio alignments ", "Audio alignments", "Space separated end times (seconds) of sentences in the single audio file of the block."},
}

// Tag identifies column by meaning. Lang is set only for language
// dependent kinds.
type Tag struct {
	Kind ColumnKind
	Lang string
}

var (
	RowTypeTag        = Tag{Kind: KindRowType}
	PageNumberTag     = Tag{Kind: KindPageNumber}
	PageTypeTag       = Tag{Kind: KindPageType}
	TextIndexTag      = Tag{Kind: KindTextIndex}
	ImageThumbnailTag = Tag{Kind: KindImageThumbnail}
	ImageSourceTag    = Tag{Kind: KindImageSource}
	VideoSourceTag    = Tag{Kind: KindVideoSource}
	WidgetSourceTag   = Tag{Kind: KindWidgetSource}
	AttributeDataTag  = Tag{Kind: KindAttributeData}
	WildcardTag       = LangTag(WildcardLanguage)
)

// LangTag is tag of the text column for the language.
func LangTag(lang string) Tag { return Tag{Kind: KindLanguage, Lang: lang} }

// AudioTag is tag of the audio files column for the language.
func AudioTag(lang string) Tag { return Tag{Kind: KindAudio, Lang: lang} }

// AlignmentTag is tag of the audio alignments column for the language.
func AlignmentTag(lang string) Tag { return Tag{Kind: KindAlignment, Lang: lang} }

// IsWildcard reports whether tag is wildcard language text column.
func (t Tag) IsWildcard() bool {
	return t == WildcardTag
}

func (t Tag) String() string {
	info, ok := kinds[t.Kind]
	if !ok {
		return ""
	}
	switch t.Kind {
	case KindLanguage, KindAudio, KindAlignment:
		return info.label + t.Lang + "]"
	}
	return info.label
}

// DefaultName returns human readable column name for the header.
func (t Tag) DefaultName() string {
	switch t.Kind {
	case KindLanguage:
		return LanguageName(t.Lang)
	case KindAudio, KindAlignment:
		return kinds[t.Kind].name + " (" + LanguageName(t.Lang) + ")"
	}
	return kinds[t.Kind].name
}

// DefaultComment returns explanation put into header cell comment.
func (t Tag) DefaultComment() string {
	return kinds[t.Kind].comment
}

// LanguageName gives English name of the language code, falls back to the
// code itself.
func LanguageName(lang string) string {
	if lang == WildcardLanguage {
		return "Any language"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return lang
}

// ParseTag recognizes column tag from header cell.
func ParseTag(s string) (Tag, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return Tag{}, false
	}
	for kind := KindRowType; kind < KindLanguage; kind++ {
		if s == kinds[kind].label {
			return Tag{Kind: kind}, true
		}
	}
	// alignments first, its label starts with audio label
	for _, kind := range []ColumnKind{KindAlignment, KindAudio} {
		if lang, ok := strings.CutPrefix(s, kinds[kind].label); ok {
			return Tag{Kind: kind, Lang: strings.TrimSuffix(lang, "]")}, true
		}
	}
	lang := s[1 : len(s)-1]
	if strings.ContainsAny(lang, " []") {
		return Tag{}, false
	}
	return LangTag(lang), true
}
