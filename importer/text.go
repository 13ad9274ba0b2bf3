package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"sbc/common"
	"sbc/content"
	"sbc/markup"
	"sbc/sheet"
)

// audio attributes which must not be copied to new editables
var audioAttrs = []string{
	"id",
	content.AttrRecordingMode,
	content.AttrEndTimes,
	content.AttrDuration,
	content.AttrRecordingMD5,
}

func plainText(cell string) string {
	return markup.Parse(cell).PlainText()
}

// importText writes row into text slot: translation group text, narration,
// quiz answer attributes.
func (im *Importer) importText(row *sheet.Row, slot *content.Slot, page string, r int) error {
	if slot.Type == content.SlotQuizAnswer {
		if parent := slot.El.Parent(); parent != nil {
			content.RemoveClass(parent, content.ClassCorrectAnswer)
			content.RemoveClass(parent, content.ClassEmpty)
		}
		applyAttributeData(slot.El, row.Get(sheet.AttributeDataTag))
	}
	return im.importGroup(row, slot.El, "on page "+page, page, r)
}

// importDescription puts image description row into next description group
// of the image imported last.
func (im *Importer) importDescription(row *sheet.Row, r int) error {
	page := im.cur.group
	if w := im.cur.work; w != nil {
		page = w.number()
	}
	switch {
	case im.lastImage == nil:
		im.diags.Warn(common.DiagnosticKindPageCapacityExceeded, page, r,
			fmt.Sprintf("Row %d has an image description but there is no image before it to describe.", r))
		return nil
	case im.descUsed >= len(im.lastImage.Descriptions):
		im.diags.Warn(common.DiagnosticKindPageCapacityExceeded, page, r,
			fmt.Sprintf("Input has more image descriptions than there is room for on page %s, row %d was not imported.", page, r))
		return nil
	}
	group := im.lastImage.Descriptions[im.descUsed]
	im.descUsed++
	return im.importGroup(row, group, "on page "+page, page, r)
}

// importGroup writes every language cell of the row into editables of the
// group. Empty cell leaves editable alone, blank marker empties it.
func (im *Importer) importGroup(row *sheet.Row, group *etree.Element, where, page string, r int) error {
	for _, lang := range im.langs {
		cell := row.Get(sheet.LangTag(lang))
		ed := content.EditableInLang(group, lang)
		switch {
		case cell == "":
		case isBlank(cell):
			if ed != nil && strings.TrimSpace(content.TextContent(ed)) != "" {
				clearAudio(ed)
				content.SetInnerXML(ed, "<p></p>")
			}
			continue
		default:
			if ed == nil {
				if ed = newEditable(group, lang); ed == nil {
					im.diags.Error(common.DiagnosticKindPageNotUpdated, page, r,
						fmt.Sprintf("Could not import text group on page %s because it has no bloom-editable children to use as templates.", page))
					return nil
				}
			}
			if !setEditableText(ed, cell) {
				im.diags.Warn(common.DiagnosticKindMalformedText, page, r,
					fmt.Sprintf("Text for language %s %s could not be read as formatted text and was imported as plain text.", lang, where))
			}
		}
		if ed == nil {
			continue
		}
		if err := im.importAudio(row, ed, lang, where, page, r); err != nil {
			return err
		}
	}
	if im.cfg.RemoveOtherLanguages {
		removeAll(slices.DeleteFunc(content.Editables(group), func(ed *etree.Element) bool {
			lang := content.Lang(ed)
			return lang == "" || lang == content.TemplateLang || slices.Contains(im.langs, lang)
		}))
	}
	return nil
}

// cellMarkup returns markup cell stands for with phrase markers typed as
// '|'. Plain text, including text with stray '<', becomes single paragraph.
func cellMarkup(cell string) string {
	cell = strings.ReplaceAll(cell, markup.SplitMarkerSpan, "|")
	if !markup.IsMarkup(cell) {
		return markup.Serialize(markup.Plain(cell))
	}
	return cell
}

// setEditableText replaces editable content, false is returned when cell
// had malformed markup which went in as plain text.
func setEditableText(ed *etree.Element, cell string) bool {
	ok := content.SetInnerXML(ed, strings.ReplaceAll(cellMarkup(cell), "|", markup.SplitMarkerSpan))
	return ok && !markup.Malformed(cell)
}

// newEditable adds editable of the language to the group, copied from the
// template language editable or the first one the group has. Returns nil
// when group has nothing to copy.
func newEditable(group *etree.Element, lang string) *etree.Element {
	tmpl := content.EditableInLang(group, content.TemplateLang)
	if tmpl == nil {
		eds := content.Editables(group)
		if len(eds) == 0 {
			return nil
		}
		tmpl = eds[0]
	}
	ed := tmpl.Copy()
	for _, a := range audioAttrs {
		ed.RemoveAttr(a)
	}
	content.RemoveClass(ed, content.ClassAudioSentence)
	content.RemoveClass(ed, content.ClassPostAudioSplit)
	content.SetAttr(ed, "lang", lang)
	content.SetInnerXML(ed, "<p></p>")
	tmpl.Parent().AddChild(ed)
	return ed
}

// applyAttributeData applies "key=value" items separated by ';' to the
// group, "../" prefix addresses group parent. Class values are added to
// element classes.
func applyAttributeData(group *etree.Element, data string) {
	for item := range strings.SplitSeq(data, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		target := group
		for strings.HasPrefix(key, "../") {
			key = key[3:]
			if target = target.Parent(); target == nil {
				break
			}
		}
		if target == nil || key == "" {
			continue
		}
		if key == "class" {
			for _, c := range strings.Fields(value) {
				content.AddClass(target, c)
			}
			continue
		}
		content.SetAttr(target, key, value)
	}
}
