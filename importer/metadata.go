package importer

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
	"sbc/markup"
	"sbc/media"
	"sbc/sheet"
)

const (
	coverImageKey   = "coverImage"
	licenseImageKey = "licenseImage"
)

// importMetadata updates data div entries of the key: image entry from
// image source column, one entry per language otherwise. Empty language
// cell removes entry of that language.
func (im *Importer) importMetadata(row *sheet.Row, r int, key string) error {
	if key == "" || strings.Contains(key, "branding") {
		return nil
	}
	div := im.dataDiv()

	if cell := strings.TrimSpace(row.Get(sheet.ImageSourceTag)); cell != "" {
		im.importDataImage(div, key, cell, r)
		return nil
	}

	langs := slices.Clone(im.langs)
	if _, ok := im.grid.ColumnFor(sheet.WildcardTag); ok {
		if row.Get(sheet.WildcardTag) != "" &&
			slices.ContainsFunc(im.langs, func(l string) bool { return row.Get(sheet.LangTag(l)) != "" }) {
			im.diags.Warn(common.DiagnosticKindMetadataConflict, "", r,
				fmt.Sprintf("%s information found in both * language column and other language column(s)", key))
		}
		langs = append(langs, sheet.WildcardLanguage)
	}

	for _, lang := range langs {
		cell := row.Get(sheet.LangTag(lang))
		els := dataElements(div, key, lang)
		if cell == "" {
			removeAll(els)
			continue
		}
		if len(els) > 1 {
			im.diags.Warn(common.DiagnosticKindMetadataConflict, "", r,
				fmt.Sprintf("Found more than one %s element for language %s in the book dom. Only the first will be updated.", key, lang))
		}
		var el *etree.Element
		if len(els) > 0 {
			el = els[0]
		} else {
			el = newDataElement(div, key, lang)
		}
		text := markup.Escape(cell)
		if markup.IsMarkup(cell) {
			text = cell
		} else if sheet.FormattedKey(row.Key()) {
			text = markup.Serialize(markup.Plain(cell))
		}
		if !content.SetInnerXML(el, text) || markup.Malformed(cell) {
			im.diags.Warn(common.DiagnosticKindMalformedText, "", r,
				fmt.Sprintf("Value of %s for language %s could not be read as formatted text and was imported as plain text.", key, lang))
		}
		if err := im.importAudio(row, el, lang, "for "+key, "", r); err != nil {
			return err
		}
	}
	return nil
}

// importDataImage sets image of data div entry. Editor reads image name
// from entry text, src attribute is kept in sync except for license image
// which editor derives from license.
func (im *Importer) importDataImage(div *etree.Element, key, cell string, r int) {
	if key == coverImageKey {
		im.coverSeen = true
	}
	name := media.PlaceholderImage
	if cell != sheet.BlankMarker {
		name = path.Base(filepath.ToSlash(cell))
		im.copyImage(cell, name, "", r)
	}

	var el *etree.Element
	if els := dataElements(div, key, ""); len(els) > 0 {
		el = els[0]
	} else {
		el = newDataElement(div, key, sheet.WildcardLanguage)
	}
	content.SetAttr(el, "lang", sheet.WildcardLanguage)
	if img := content.FindFirst(el, func(e *etree.Element) bool { return strings.EqualFold(e.Tag, "img") }); img != nil {
		content.SetAttr(img, "src", content.EncodeFileURL(name))
	} else {
		el.SetText(name)
	}
	if key != licenseImageKey {
		content.SetAttr(el, "src", content.EncodeFileURL(name))
	}
	im.log.Debug("Data image set", zap.String("key", key), zap.String("image", name))
}

// dataDiv returns data div, it is created when book has none.
func (im *Importer) dataDiv() *etree.Element {
	if div := im.doc.DataDiv(); div != nil {
		return div
	}
	div := etree.NewElement("div")
	div.CreateAttr("id", content.DataDivID)
	im.doc.Body().InsertChildAt(0, div)
	return div
}

// dataElements returns entries of the key in the language, wildcard
// language matches entries without language too. Empty lang matches all
// languages but the template one.
func dataElements(div *etree.Element, key, lang string) []*etree.Element {
	return content.FindAll(div, func(e *etree.Element) bool {
		if e.SelectAttrValue(content.AttrDataBook, "") != key {
			return false
		}
		l := content.Lang(e)
		switch lang {
		case "":
			return l != content.TemplateLang
		case sheet.WildcardLanguage:
			return l == lang || l == ""
		}
		return l == lang
	})
}

// newDataElement adds entry of the key, copied from template language entry
// when there is one.
func newDataElement(div *etree.Element, key, lang string) *etree.Element {
	var el *etree.Element
	if tmpl := content.FindFirst(div, func(e *etree.Element) bool {
		return e.SelectAttrValue(content.AttrDataBook, "") == key && content.Lang(e) == content.TemplateLang
	}); tmpl != nil {
		el = tmpl.Copy()
		for _, a := range audioAttrs {
			el.RemoveAttr(a)
		}
		content.RemoveClass(el, content.ClassAudioSentence)
	} else {
		el = etree.NewElement("div")
		el.CreateAttr(content.AttrDataBook, key)
	}
	content.SetAttr(el, "lang", lang)
	div.AddChild(el)
	return el
}
