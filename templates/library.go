// Package templates keeps page templates new book pages are made from.
// Built-in templates are embedded, more can be loaded from a folder of
// template books.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
)

//go:embed pages/*.html css/*.css
var builtin embed.FS

// Well known template ids.
const (
	BasicTextAndImageID = "adcd48df-e9ab-4a07-afd4-6a24d0398382"
	PictureInMiddleID   = "adcd48df-e9ab-4a07-afd4-6a24d0398383"
	JustPictureID       = "adcd48df-e9ab-4a07-afd4-6a24d0398385"
	JustTextID          = "a31c38d8-c1cb-4eb9-951b-d2840f6a8bdb"
	JustVideoID         = "8bedcdf8-3ad6-4967-b027-6c186436572f"
	VideoOverTextID     = "299644f5-addb-476f-a4a5-e3978139b188"
	PictureAndVideoID   = "24c90e90-2711-465d-8f20-980d9ffae299"
	WidgetID            = "3a705ac1-c1f2-45cd-8a7d-011c009cf406"
)

// Template is a page new pages are copied from together with style sheets
// and styles it needs.
type Template struct {
	ID    string
	Label string
	// Stylesheets are file names of linked style sheets.
	Stylesheets []string
	// Styles are user defined style rules.
	Styles []string

	page     *etree.Element
	assets   fs.FS
	capacity map[common.SlotKind]int
}

// Capacity returns number of slots of the kind on template page.
func (t *Template) Capacity(kind common.SlotKind) int {
	return t.capacity[kind]
}

// Holds reports whether template page has room for every kind in the set.
func (t *Template) Holds(kinds []common.SlotKind) bool {
	for _, k := range kinds {
		if t.capacity[k] == 0 {
			return false
		}
	}
	return true
}

// HoldsAny reports whether template has slot for at least one of the kinds.
func (t *Template) HoldsAny(kinds []common.SlotKind) bool {
	return slices.ContainsFunc(kinds, func(k common.SlotKind) bool { return t.capacity[k] > 0 })
}

// Library is a set of templates addressable by id or label.
type Library struct {
	byID    map[string]*Template
	byLabel map[string]*Template
	log     *zap.Logger
}

// NewLibrary loads built-in templates and, when dir is not empty, template
// books from it. Templates from the folder replace built-in ones with the
// same id.
func NewLibrary(dir string, log *zap.Logger) (*Library, error) {
	l := &Library{
		byID:    make(map[string]*Template),
		byLabel: make(map[string]*Template),
		log:     log.Named("templates"),
	}
	pages, err := fs.Sub(builtin, "pages")
	if err != nil {
		return nil, err
	}
	css, err := fs.Sub(builtin, "css")
	if err != nil {
		return nil, err
	}
	if err := l.load(pages, css); err != nil {
		return nil, fmt.Errorf("unable to load built-in templates: %w", err)
	}
	if dir != "" {
		folder := os.DirFS(dir)
		if err := l.load(folder, folder); err != nil {
			return nil, fmt.Errorf("unable to load templates from '%s': %w", dir, err)
		}
	}
	return l, nil
}

func (l *Library) load(pages, assets fs.FS) error {
	names, err := fs.Glob(pages, "*.htm*")
	if err != nil {
		return err
	}
	for _, name := range names {
		f, err := pages.Open(name)
		if err != nil {
			return err
		}
		book, err := content.Parse(f, name)
		f.Close()
		if err != nil {
			return err
		}
		l.add(book, assets)
	}
	return nil
}

func (l *Library) add(book *content.Document, assets fs.FS) {
	var (
		sheets []string
		styles []string
	)
	for _, e := range book.Head().ChildElements() {
		switch strings.ToLower(e.Tag) {
		case "link":
			if strings.EqualFold(e.SelectAttrValue("rel", ""), "stylesheet") {
				sheets = append(sheets, e.SelectAttrValue("href", ""))
			}
		case "style":
			if s := strings.TrimSpace(e.Text()); s != "" {
				styles = append(styles, s)
			}
		}
	}
	for _, el := range book.Pages() {
		id := el.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		p := content.Classify(el)
		t := &Template{
			ID:          id,
			Label:       p.Label,
			Stylesheets: sheets,
			Styles:      styles,
			page:        el,
			assets:      assets,
			capacity: map[common.SlotKind]int{
				common.SlotKindText:   len(p.Texts),
				common.SlotKindImage:  len(p.Images),
				common.SlotKindVideo:  len(p.Videos),
				common.SlotKindWidget: len(p.Widgets),
			},
		}
		l.byID[strings.ToLower(id)] = t
		if t.Label != "" {
			l.byLabel[strings.ToLower(t.Label)] = t
		}
		l.log.Debug("Page template", zap.String("id", id), zap.String("label", t.Label))
	}
}

// Find looks template up by label or id, case is ignored.
func (l *Library) Find(name string) (*Template, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := l.byLabel[key]; ok {
		return t, true
	}
	t, ok := l.byID[key]
	return t, ok
}

// Infer picks template for content of the kinds. Widgets always go to the
// separate widget page and are not considered here.
func (l *Library) Infer(kinds []common.SlotKind) (*Template, bool) {
	has := func(k common.SlotKind) bool { return slices.Contains(kinds, k) }
	var id string
	switch {
	case has(common.SlotKindImage) && has(common.SlotKindVideo):
		id = PictureAndVideoID
	case has(common.SlotKindText) && has(common.SlotKindImage):
		id = BasicTextAndImageID
	case has(common.SlotKindText) && has(common.SlotKindVideo):
		id = VideoOverTextID
	case has(common.SlotKindImage):
		id = JustPictureID
	case has(common.SlotKindVideo):
		id = JustVideoID
	case has(common.SlotKindText):
		id = JustTextID
	case has(common.SlotKindWidget):
		id = WidgetID
	default:
		return nil, false
	}
	t, ok := l.byID[id]
	return t, ok
}

// NewPage makes fresh page from template: new id, template recorded as page
// lineage and ids of inner elements removed. Page size class is taken from
// the sample page when given.
func (t *Template) NewPage(sample *etree.Element) *etree.Element {
	page := t.page.Copy()
	content.SetAttr(page, "id", uuid.NewString())
	content.SetAttr(page, content.AttrLineage, t.ID)
	for _, e := range content.FindAll(page, func(e *etree.Element) bool { return e.SelectAttr("id") != nil }) {
		e.RemoveAttr("id")
	}
	if sample != nil {
		if size := pageSize(sample); size != "" {
			if old := pageSize(page); old != "" {
				content.RemoveClass(page, old)
			}
			content.AddClass(page, size)
		}
	}
	return page
}

func pageSize(page *etree.Element) string {
	for _, c := range content.Classes(page) {
		if strings.HasSuffix(c, "Portrait") || strings.HasSuffix(c, "Landscape") {
			return c
		}
	}
	return ""
}

// Install makes sure book has style sheets and styles template pages need:
// style sheet files are copied into book folder and linked, styles are
// added to user defined styles. Nothing is added twice.
func (t *Template) Install(book *content.Document, bookDir string) error {
	head := book.Head()
	for _, sheet := range t.Stylesheets {
		if sheet == "" {
			continue
		}
		linked := content.FindFirst(head, func(e *etree.Element) bool {
			return strings.EqualFold(e.Tag, "link") && e.SelectAttrValue("href", "") == sheet
		}) != nil
		if !linked {
			link := head.CreateElement("link")
			link.CreateAttr("rel", "stylesheet")
			link.CreateAttr("href", sheet)
			link.CreateAttr("type", "text/css")
		}
		data, err := fs.ReadFile(t.assets, path.Clean(sheet))
		if err != nil {
			return fmt.Errorf("unable to read style sheet '%s' of template '%s': %w", sheet, t.Label, err)
		}
		if err := os.WriteFile(filepath.Join(bookDir, path.Base(sheet)), data, 0644); err != nil {
			return fmt.Errorf("unable to copy style sheet '%s': %w", sheet, err)
		}
	}
	if len(t.Styles) == 0 {
		return nil
	}
	style := content.FindFirst(head, func(e *etree.Element) bool {
		return strings.EqualFold(e.Tag, "style") && e.SelectAttrValue("title", "") == "userModifiedStyles"
	})
	if style == nil {
		style = head.CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.CreateAttr("title", "userModifiedStyles")
	}
	text := style.Text()
	for _, s := range t.Styles {
		if !strings.Contains(text, s) {
			text = strings.TrimSpace(text + "\n" + s)
		}
	}
	style.SetText(text)
	return nil
}
