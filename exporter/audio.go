package exporter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"sbc/content"
	"sbc/media"
	"sbc/sheet"
)

// exportAudio fills audio columns of the element language. Whole block
// recordings put single file and its end times (or overall duration) into
// the row, sentence recordings list files in sentence order. Blocks without
// any real recording produce nothing.
func (e *Exporter) exportAudio(el *etree.Element, row *sheet.Row) {
	lang := content.Lang(el)
	if content.HasClass(el, content.ClassAudioSentence) {
		file, ok := e.audioFile(el)
		if !ok {
			return
		}
		alignment := el.SelectAttrValue(content.AttrEndTimes, "")
		if alignment == "" {
			alignment = el.SelectAttrValue(content.AttrDuration, "")
		}
		row.Set(sheet.AudioTag(lang), file)
		row.Set(sheet.AlignmentTag(lang), alignment)
		return
	}

	var (
		files    []string
		recorded bool
	)
	for _, s := range content.FindAll(el, func(c *etree.Element) bool {
		return strings.EqualFold(c.Tag, "span") && content.HasClass(c, content.ClassAudioSentence)
	}) {
		file, ok := e.audioFile(s)
		if !ok {
			file = sheet.MissingAudio
		}
		recorded = recorded || ok
		files = append(files, file)
	}
	if recorded {
		row.Set(sheet.AudioTag(lang), strings.Join(files, ", "))
	}
}

// audioFile returns spreadsheet path of recording of the element and
// schedules its copy. Element without recording is normal, it was prepared
// for recording which has not been done yet.
func (e *Exporter) audioFile(el *etree.Element) (string, bool) {
	id := el.SelectAttrValue("id", "")
	if id == "" {
		return "", false
	}
	name := id + ".mp3"
	src := filepath.Join(e.bookDir, media.AudioDir, name)
	if !exists(src) {
		return "", false
	}
	if e.copier != nil {
		e.copier.File(src, filepath.Join(e.outDir, media.AudioDir, name))
	}
	return "./" + media.AudioDir + "/" + name, true
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
