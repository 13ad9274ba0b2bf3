package exporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sbc/common"
	"sbc/content"
	"sbc/media"
	"sbc/sheet"
)

// Metadata keys shown in the spreadsheet, all others are hidden rows.
var visibleKeys = []string{"bookTitle", "coverImage"}

// metadataEntry is data div key with all its elements.
type metadataEntry struct {
	key   string
	elems []*etree.Element
}

func (en metadataEntry) hidden() bool {
	return !slices.Contains(visibleKeys, en.key)
}

// metadataEntries groups data div elements by key, keys sorted. Template
// language, branding and license image are never exported, license image
// is derived from license by the editor.
func (e *Exporter) metadataEntries(doc *content.Document) []metadataEntry {
	var entries []metadataEntry
	for _, el := range doc.DataBookElements() {
		if content.Lang(el) == content.TemplateLang {
			continue
		}
		key := strings.TrimSpace(el.SelectAttrValue(content.AttrDataBook, ""))
		if key == "" || strings.Contains(key, "branding") || key == "licenseImage" {
			continue
		}
		if !e.cfg.ExportsAllMetadata() && !slices.Contains(e.cfg.MetadataKeys, key) {
			e.log.Debug("Metadata key skipped", zap.String("key", key))
			continue
		}
		i := slices.IndexFunc(entries, func(en metadataEntry) bool { return en.key == key })
		if i < 0 {
			entries = append(entries, metadataEntry{key: key})
			i = len(entries) - 1
		}
		entries[i].elems = append(entries[i].elems, el)
	}
	slices.SortStableFunc(entries, func(a, b metadataEntry) int {
		return strings.Compare(a.key, b.key)
	})
	return entries
}

func (e *Exporter) addMetadata(en metadataEntry) {
	row := e.grid.AddRow(sheet.MetadataKey(en.key))
	row.Hidden = en.hidden()

	imageDone := false
	for _, el := range en.elems {
		if content.IsDataImage(el) {
			if imageDone {
				e.diags.Warn(common.DiagnosticKindExportWarning, "", 0,
					fmt.Sprintf("Export warning: Found multiple elements for image element %s. Only the first will be exported.", en.key))
				continue
			}
			e.exportDataImage(el, en.key, row)
			imageDone = true
			continue
		}
		lang := content.Lang(el)
		if lang == "" {
			lang = sheet.WildcardLanguage
		}
		row.Set(sheet.LangTag(lang), strings.TrimSpace(content.InnerXML(el)))
		e.exportAudio(el, row)
	}
}

// exportDataImage records image of data div entry. Editor sets images from
// entry text, src attribute is redundant copy of it.
func (e *Exporter) exportDataImage(el *etree.Element, key string, row *sheet.Row) {
	src := content.DecodeURL(strings.TrimSpace(el.SelectAttrValue("src", "")))
	text := strings.TrimSpace(content.TextContent(el))
	if src != "" && text != "" && src != text {
		e.diags.Warn(common.DiagnosticKindExportWarning, "", 0,
			fmt.Sprintf("Export warning: Found differing 'src' attribute and element text for data-div element %s. The 'src' attribute will be ignored.", key))
	}

	name := text
	if child := content.DataImageChildSource(el); child != "" {
		imgs := 0
		for _, c := range el.ChildElements() {
			if strings.EqualFold(c.Tag, "img") {
				imgs++
			}
		}
		if imgs > 1 {
			e.diags.Warn(common.DiagnosticKindExportWarning, "", 0,
				fmt.Sprintf("Export warning: Found multiple images in data-book element %s. Only the first will be exported.", key))
		}
		name = content.DecodeURL(child)
	}
	if name == "" {
		name = src
	}
	switch {
	case name == "":
		return
	case media.IsPlaceholder(name):
		row.Set(sheet.ImageSourceTag, sheet.BlankMarker)
		return
	}
	e.exportImage(name, row, "")
}
