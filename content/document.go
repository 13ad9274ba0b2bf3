// Package content is the book document model: Bloom HTML file read into
// element tree, its pages, data div and the content slots of every page.
package content

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrNotBook is returned when file does not look like Bloom book.
var ErrNotBook = errors.New("not a book document")

// Book HTML class and attribute names.
const (
	ClassPage           = "bloom-page"
	ClassFrontMatter    = "bloom-frontMatter"
	ClassBackMatter     = "bloom-backMatter"
	ClassNumberedPage   = "numberedPage"
	ClassPageLabel      = "pageLabel"
	ClassTranslation    = "bloom-translationGroup"
	ClassEditable       = "bloom-editable"
	ClassImageContainer = "bloom-imageContainer"
	ClassImageDesc      = "bloom-imageDescription"
	ClassVideoContainer = "bloom-videoContainer"
	ClassNoVideo        = "bloom-noVideoSelected"
	ClassWidget         = "bloom-widgetContainer"
	ClassQuizAnswer     = "checkbox-and-textbox-choice"
	ClassCorrectAnswer  = "correct-answer"
	ClassEmpty          = "empty"

	AttrPageNumber  = "data-page-number"
	AttrLineage     = "data-pagelineage"
	AttrXMatterPage = "data-xmatter-page"
	AttrDataBook    = "data-book"
	AttrTabIndex    = "tabindex"

	DataDivID = "bloomDataDiv"

	ClassAudioSentence    = "audio-sentence"
	ClassHighlightSegment = "bloom-highlightSegment"
	ClassPostAudioSplit   = "bloom-postAudioSplit"
	AttrRecordingMode     = "data-audiorecordingmode"
	AttrEndTimes          = "data-audiorecordingendtimes"
	AttrDuration          = "data-duration"
	AttrRecordingMD5      = "recordingmd5"

	// Recording modes.
	ModeTextBox  = "TextBox"
	ModeSentence = "Sentence"

	// TemplateLang is pseudo language of prototype editable every
	// translation group carries.
	TemplateLang = "z"
)

// elements which never have content and must be written as such
var voidElements = func() map[string]bool {
	m := make(map[string]bool, len(xml.HTMLAutoClose))
	for _, tag := range xml.HTMLAutoClose {
		m[tag] = true
	}
	m["source"], m["track"], m["wbr"], m["embed"] = true, true, true, true
	return m
}()

// Document is loaded book HTML.
type Document struct {
	Path string
	Doc  *etree.Document
}

func newTree() *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	// Books are edited by hand sometimes, be forgiving about HTML named
	// character references and unclosed void elements
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        xml.HTMLEntity,
		AutoClose:     xml.HTMLAutoClose,
		Permissive:    true,
	}
	return doc
}

// Parse reads book HTML.
func Parse(r io.Reader, name string) (*Document, error) {
	doc := newTree()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read book HTML: %w", err)
	}
	if root := doc.Root(); root == nil || !strings.EqualFold(root.Tag, "html") || root.SelectElement("body") == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotBook, name)
	}
	return &Document{Path: name, Doc: doc}, nil
}

// Load reads book HTML file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open book: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Dir returns book folder.
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// Save writes document back. Elements which are not void in HTML are never
// written self closed.
func (d *Document) Save(path string) error {
	closeEmptyElements(&d.Doc.Element)
	if err := d.Doc.WriteToFile(path); err != nil {
		return fmt.Errorf("unable to save book: %w", err)
	}
	return nil
}

// String serializes whole document.
func (d *Document) String() string {
	closeEmptyElements(&d.Doc.Element)
	s, _ := d.Doc.WriteToString()
	return s
}

func closeEmptyElements(e *etree.Element) {
	for _, c := range e.ChildElements() {
		closeEmptyElements(c)
	}
	if len(e.Child) == 0 && e.Tag != "" && !voidElements[strings.ToLower(e.Tag)] && e.Parent() != nil {
		e.AddChild(etree.NewText(""))
	}
}

// Head returns head element, creating it when absent.
func (d *Document) Head() *etree.Element {
	root := d.Doc.Root()
	if head := root.SelectElement("head"); head != nil {
		return head
	}
	head := etree.NewElement("head")
	root.InsertChildAt(0, head)
	return head
}

// Body returns body element.
func (d *Document) Body() *etree.Element {
	return d.Doc.Root().SelectElement("body")
}

// DataDiv returns book data div, nil when book has none.
func (d *Document) DataDiv() *etree.Element {
	return FindFirst(d.Body(), func(e *etree.Element) bool {
		return e.SelectAttrValue("id", "") == DataDivID
	})
}

// DataBookElements returns data div entries in document order.
func (d *Document) DataBookElements() []*etree.Element {
	div := d.DataDiv()
	if div == nil {
		return nil
	}
	return FindAll(div, func(e *etree.Element) bool {
		return e.SelectAttr(AttrDataBook) != nil
	})
}

// data div entries which hold image file names even without src attribute
var dataImageKeys = map[string]bool{
	"coverImage":   true,
	"licenseImage": true,
}

// IsDataImage reports whether data div entry refers to an image: it has src
// attribute, img child or well known image key.
func IsDataImage(el *etree.Element) bool {
	return strings.TrimSpace(el.SelectAttrValue("src", "")) != "" ||
		DataImageChildSource(el) != "" ||
		dataImageKeys[el.SelectAttrValue(AttrDataBook, "")]
}

// DataImageChildSource returns src of the first img child of data div
// entry.
func DataImageChildSource(el *etree.Element) string {
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, "img") && c.SelectAttr("src") != nil {
			return c.SelectAttrValue("src", "")
		}
	}
	return ""
}

// Pages returns all page elements in document order.
func (d *Document) Pages() []*etree.Element {
	return FindAll(d.Body(), func(e *etree.Element) bool {
		return HasClass(e, ClassPage)
	})
}

// ContentPages returns pages which are not front or back matter.
func (d *Document) ContentPages() []*etree.Element {
	return slices.DeleteFunc(d.Pages(), IsXMatter)
}

// IsXMatter reports whether page is front or back matter.
func IsXMatter(page *etree.Element) bool {
	return HasClass(page, ClassFrontMatter) || HasClass(page, ClassBackMatter) || page.SelectAttr(AttrXMatterPage) != nil
}

// PageNumber returns page number as displayed.
func PageNumber(page *etree.Element) string {
	return page.SelectAttrValue(AttrPageNumber, "")
}

// PageLabel returns template label of the page.
func PageLabel(page *etree.Element) string {
	label := FindFirst(page, func(e *etree.Element) bool {
		return HasClass(e, ClassPageLabel)
	})
	if label == nil {
		return ""
	}
	return strings.TrimSpace(TextContent(label))
}

// PageLineage returns template ids the page descends from.
func PageLineage(page *etree.Element) []string {
	return strings.FieldsFunc(page.SelectAttrValue(AttrLineage, ""), func(r rune) bool {
		return r == ';' || r == ',' || r == ' '
	})
}

// HasLineage reports whether page descends from the template.
func HasLineage(page *etree.Element, templateID string) bool {
	return slices.ContainsFunc(PageLineage(page), func(id string) bool {
		return strings.EqualFold(id, templateID)
	})
}

// Renumber assigns sequential numbers to numbered content pages.
func (d *Document) Renumber() {
	n := 0
	for _, page := range d.Pages() {
		if IsXMatter(page) || !HasClass(page, ClassNumberedPage) {
			continue
		}
		n++
		SetAttr(page, AttrPageNumber, strconv.Itoa(n))
	}
}

// InsertPageAfter puts page right after the existing one.
func InsertPageAfter(existing, page *etree.Element) {
	parent := existing.Parent()
	parent.InsertChildAt(existing.Index()+1, page)
}

// InsertPageBefore puts page right before the existing one.
func InsertPageBefore(existing, page *etree.Element) {
	existing.Parent().InsertChildAt(existing.Index(), page)
}

// AppendPage adds page after the last content page or before back matter
// when book has no content pages.
func (d *Document) AppendPage(page *etree.Element) {
	if pages := d.ContentPages(); len(pages) > 0 {
		InsertPageAfter(pages[len(pages)-1], page)
		return
	}
	for _, p := range d.Pages() {
		if HasClass(p, ClassBackMatter) {
			InsertPageBefore(p, page)
			return
		}
	}
	d.Body().AddChild(page)
}
