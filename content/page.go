package content

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"sbc/common"
	"sbc/css"
)

// SlotType is closed set of content holders found on a page.
type SlotType int

const (
	SlotTextBlock SlotType = iota
	SlotImage
	SlotVideo
	SlotWidget
	SlotQuizAnswer
)

func (t SlotType) String() string {
	switch t {
	case SlotTextBlock:
		return "text block"
	case SlotImage:
		return "image"
	case SlotVideo:
		return "video"
	case SlotWidget:
		return "widget"
	case SlotQuizAnswer:
		return "quiz answer"
	}
	return "unknown"
}

// Kind maps slot to kind of spreadsheet content it accepts. Quiz answers
// hold text.
func (t SlotType) Kind() common.SlotKind {
	switch t {
	case SlotImage:
		return common.SlotKindImage
	case SlotVideo:
		return common.SlotKindVideo
	case SlotWidget:
		return common.SlotKindWidget
	}
	return common.SlotKindText
}

// Slot is single content holder: translation group, image, video or widget
// container.
type Slot struct {
	Type SlotType
	El   *etree.Element
	// Descriptions are image description translation groups of image slot.
	Descriptions []*etree.Element
}

// Page is classified book page.
type Page struct {
	El *etree.Element
	// Number is page number at the time of classification.
	Number  string
	Label   string
	XMatter bool
	// Texts are translation groups and quiz answers in tab order.
	Texts   []*Slot
	Images  []*Slot
	Videos  []*Slot
	Widgets []*Slot
}

// Classify finds content slots of the page.
func Classify(el *etree.Element) *Page {
	p := &Page{
		El:      el,
		Number:  PageNumber(el),
		Label:   PageLabel(el),
		XMatter: IsXMatter(el),
	}
	for _, g := range TranslationGroups(el) {
		t := SlotTextBlock
		if parent := g.Parent(); parent != nil && HasClass(parent, ClassQuizAnswer) {
			t = SlotQuizAnswer
		}
		p.Texts = append(p.Texts, &Slot{Type: t, El: g})
	}
	for _, c := range FindAll(el, func(e *etree.Element) bool { return HasClass(e, ClassImageContainer) }) {
		// nested image containers belong to the outer one
		if Ancestor(c, func(e *etree.Element) bool { return HasClass(e, ClassImageContainer) }) != nil {
			continue
		}
		p.Images = append(p.Images, &Slot{Type: SlotImage, El: c, Descriptions: ImageDescriptions(c)})
	}
	for _, c := range FindAll(el, func(e *etree.Element) bool { return HasClass(e, ClassVideoContainer) }) {
		p.Videos = append(p.Videos, &Slot{Type: SlotVideo, El: c})
	}
	for _, c := range FindAll(el, func(e *etree.Element) bool { return HasClass(e, ClassWidget) }) {
		p.Widgets = append(p.Widgets, &Slot{Type: SlotWidget, El: c})
	}
	return p
}

// Slots returns slots of the kind.
func (p *Page) Slots(kind common.SlotKind) []*Slot {
	switch kind {
	case common.SlotKindImage:
		return p.Images
	case common.SlotKindVideo:
		return p.Videos
	case common.SlotKindWidget:
		return p.Widgets
	}
	return p.Texts
}

// Empty reports whether page has nothing to import into.
func (p *Page) Empty() bool {
	return len(p.Texts)+len(p.Images)+len(p.Videos)+len(p.Widgets) == 0
}

// TranslationGroups returns translation groups of the element which are
// not image descriptions, ordered by tab index. Groups without tab index
// follow in document order.
func TranslationGroups(el *etree.Element) []*etree.Element {
	groups := FindAll(el, func(e *etree.Element) bool {
		return HasClass(e, ClassTranslation) && !HasClass(e, ClassImageDesc) &&
			Ancestor(e, func(a *etree.Element) bool { return HasClass(a, ClassImageDesc) }) == nil
	})
	slices.SortStableFunc(groups, func(a, b *etree.Element) int {
		ta, oka := tabIndex(a)
		tb, okb := tabIndex(b)
		switch {
		case oka && okb:
			return ta - tb
		case oka:
			return -1
		case okb:
			return 1
		}
		return 0
	})
	return groups
}

func tabIndex(e *etree.Element) (int, bool) {
	v := strings.TrimSpace(e.SelectAttrValue(AttrTabIndex, ""))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// ImageDescriptions returns description groups of image container.
func ImageDescriptions(container *etree.Element) []*etree.Element {
	return FindAll(container, func(e *etree.Element) bool {
		return HasClass(e, ClassTranslation) && HasClass(e, ClassImageDesc)
	})
}

// Editables returns editable children of translation group.
func Editables(group *etree.Element) []*etree.Element {
	return FindAll(group, func(e *etree.Element) bool {
		return HasClass(e, ClassEditable)
	})
}

// EditableInLang returns editable of the group in the language or nil.
func EditableInLang(group *etree.Element, lang string) *etree.Element {
	for _, ed := range Editables(group) {
		if Lang(ed) == lang {
			return ed
		}
	}
	return nil
}

// Image returns img element of image container.
func Image(container *etree.Element) *etree.Element {
	return FindFirst(container, func(e *etree.Element) bool {
		return strings.EqualFold(e.Tag, "img") &&
			Ancestor(e, func(a *etree.Element) bool { return HasClass(a, ClassImageDesc) }) == nil
	})
}

// ImageSource returns decoded image file name of image container.
func ImageSource(container *etree.Element) string {
	img := Image(container)
	if img == nil {
		return DecodeURL(css.BackgroundImage(container.SelectAttrValue("style", "")))
	}
	return DecodeURL(img.SelectAttrValue("src", ""))
}

// VideoSource returns decoded source of video container.
func VideoSource(container *etree.Element) string {
	src := FindFirst(container, func(e *etree.Element) bool { return strings.EqualFold(e.Tag, "source") })
	if src == nil {
		return ""
	}
	return DecodeURL(src.SelectAttrValue("src", ""))
}

// WidgetSource returns decoded root file of widget container.
func WidgetSource(container *etree.Element) string {
	frame := FindFirst(container, func(e *etree.Element) bool { return strings.EqualFold(e.Tag, "iframe") })
	if frame == nil {
		return ""
	}
	return DecodeURL(frame.SelectAttrValue("src", ""))
}
