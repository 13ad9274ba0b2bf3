package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sbc/audio"
	"sbc/common"
	"sbc/content"
	"sbc/markup"
	"sbc/media"
	"sbc/sheet"
)

// recording is resolved and probed audio file.
type recording struct {
	path string
	info audio.Info
}

// paragraph is editable paragraph with byte ranges of its audio fragments.
type paragraph struct {
	text  markup.MarkedUpText
	plain string
	spans [][2]int
}

// importAudio attaches narration of the audio cell of the language to the
// editable. Single file narrates the whole block, optionally split by
// alignment times, several files narrate one fragment each. Problems skip
// narration of the block only, error is returned on cancellation.
func (im *Importer) importAudio(row *sheet.Row, ed *etree.Element, lang, where, page string, r int) error {
	cell := strings.TrimSpace(row.Get(sheet.AudioTag(lang)))
	if cell == "" {
		return nil
	}
	files := splitList(cell)
	alignment := strings.TrimSpace(row.Get(sheet.AlignmentTag(lang)))
	if alignment != "" && len(files) > 1 {
		im.diags.Error(common.DiagnosticKindAlignmentCountMismatch, page, r,
			fmt.Sprintf("Did not import audio %s because there should be only one audio file when audio alignment is specified.", where))
		return nil
	}
	if len(files) == 1 && files[0] == sheet.MissingAudio {
		return nil
	}

	recs := make([]*recording, len(files))
	for i, f := range files {
		if f == sheet.MissingAudio {
			continue
		}
		rec, err := im.probe(f, where, page, r)
		if rec == nil {
			return err
		}
		recs[i] = rec
	}

	bare := ed.Copy()
	clearAudio(bare)
	paras := im.fragments(bare, lang)
	count := 0
	for _, p := range paras {
		count += len(p.spans)
	}
	if len(files) > 1 && len(files) != count {
		im.diags.Error(common.DiagnosticKindCountMismatch, page, r,
			fmt.Sprintf("Did not import audio %s because there are %d audio files for %d sentences; they should match up. Use 'missing' if necessary.", where, len(files), count))
		return nil
	}

	clearAudio(ed)
	if len(files) == 1 {
		im.wholeBlock(ed, recs[0], alignment, paras, count, where, page, r)
	} else {
		im.sentences(ed, recs, paras)
	}
	im.log.Debug("Audio imported", zap.String("where", where), zap.String("lang", lang), zap.Int("files", len(files)), zap.Int("fragments", count))
	return nil
}

func splitList(cell string) []string {
	var files []string
	for f := range strings.SplitSeq(cell, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// probe resolves audio file and reads its facts. Nil recording with nil
// error means problem was reported.
func (im *Importer) probe(f, where, page string, r int) (*recording, error) {
	full, shown, ok := im.resolveAudio(f)
	if !ok {
		im.diags.Error(common.DiagnosticKindMissingMediaFile, page, r,
			fmt.Sprintf("Did not import audio %s because '%s' was not found.", where, shown))
		return nil, nil
	}
	info, err := im.prober.Probe(im.ctx, full)
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case err != nil:
		im.log.Debug("Audio probe failed", zap.String("file", full), zap.Error(err))
		im.diags.Error(common.DiagnosticKindInvalidMediaFile, page, r,
			fmt.Sprintf("Did not import audio %s because the audio file '%s' is not a valid mp3 file.", where, shown))
		return nil, nil
	}
	return &recording{path: full, info: info}, nil
}

// resolveAudio looks audio file up relative to the spreadsheet folder, then
// in its audio folder, then as given. Shown name is what messages use.
func (im *Importer) resolveAudio(f string) (full, shown string, ok bool) {
	if filepath.IsAbs(f) {
		return f, filepath.ToSlash(f), exists(f)
	}
	joined := filepath.Join(im.ssDir, filepath.FromSlash(f))
	shown = f
	if strings.HasPrefix(f, ".") {
		shown = filepath.ToSlash(joined)
	}
	for _, c := range []string{
		joined,
		filepath.Join(im.ssDir, media.AudioDir, path.Base(filepath.ToSlash(f))),
		f,
	} {
		if exists(c) {
			return c, shown, true
		}
	}
	return "", shown, false
}

// fragments splits editable text into audio fragments paragraph by
// paragraph.
func (im *Importer) fragments(ed *etree.Element, lang string) []paragraph {
	m := markup.Parse(strings.ReplaceAll(content.InnerXML(ed), markup.SplitMarkerSpan, "|"))
	var paras []paragraph
	for _, pm := range m.Paragraphs() {
		p := paragraph{text: pm, plain: pm.PlainText()}
		pos := 0
		for _, f := range im.split.Split(p.plain, lang) {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			i := strings.Index(p.plain[pos:], f)
			if i < 0 {
				continue
			}
			p.spans = append(p.spans, [2]int{pos + i, pos + i + len(f)})
			pos += i + len(f)
		}
		paras = append(paras, p)
	}
	return paras
}

// segmentMarkup wraps every fragment into span opened by open, text between
// fragments stays outside.
func segmentMarkup(paras []paragraph, open func(n int) string) string {
	var (
		b strings.Builder
		n int
	)
	for _, p := range paras {
		b.WriteString("<p>")
		pos := 0
		for _, s := range p.spans {
			b.WriteString(markup.SerializeInline(p.text.Slice(pos, s[0]), true))
			b.WriteString(open(n))
			b.WriteString(markup.SerializeInline(p.text.Slice(s[0], s[1]), true))
			b.WriteString("</span>")
			pos = s[1]
			n++
		}
		b.WriteString(markup.SerializeInline(p.text.Slice(pos, len(p.plain)), true))
		b.WriteString("</p>")
	}
	return b.String()
}

// clearAudio removes narration of any mode from the editable.
func clearAudio(ed *etree.Element) {
	for _, a := range []string{content.AttrRecordingMode, content.AttrEndTimes, content.AttrDuration, content.AttrRecordingMD5} {
		ed.RemoveAttr(a)
	}
	content.RemoveClass(ed, content.ClassAudioSentence)
	content.RemoveClass(ed, content.ClassPostAudioSplit)
	for _, s := range content.FindAll(ed, func(e *etree.Element) bool {
		return strings.EqualFold(e.Tag, "span") &&
			(content.HasClass(e, content.ClassAudioSentence) || content.HasClass(e, content.ClassHighlightSegment))
	}) {
		content.Unwrap(s)
	}
}

// wholeBlock records single file for the editable. Valid alignment splits
// it into highlight segments, last end time is always the probed duration.
func (im *Importer) wholeBlock(ed *etree.Element, rec *recording, alignment string, paras []paragraph, count int, where, page string, r int) {
	content.SetAttr(ed, "id", im.audioID(rec, ed))
	content.AddClass(ed, content.ClassAudioSentence)
	content.SetAttr(ed, content.AttrRecordingMode, content.ModeTextBox)
	content.SetAttr(ed, content.AttrRecordingMD5, rec.info.MD5)
	content.SetAttr(ed, content.AttrDuration, audio.FormatDuration(rec.info.Duration))
	if alignment == "" {
		return
	}

	ends, ok := im.endTimes(alignment, count, rec.info.Duration, where, page, r)
	if !ok {
		return
	}
	content.SetAttr(ed, content.AttrEndTimes, strings.Join(ends, " "))
	content.AddClass(ed, content.ClassPostAudioSplit)
	content.SetInnerXML(ed, segmentMarkup(paras, func(int) string {
		return `<span id="` + content.NewID() + `" class="` + content.ClassHighlightSegment + `">`
	}))
}

// endTimes validates alignment against fragments and real duration. Single
// value is just a duration and means no split.
func (im *Importer) endTimes(alignment string, count int, duration float64, where, page string, r int) ([]string, bool) {
	values := strings.FieldsFunc(alignment, func(c rune) bool { return c == ',' || unicode.IsSpace(c) })
	nums := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			im.diags.Warn(common.DiagnosticKindAlignmentValueInvalid, page, r,
				fmt.Sprintf("Removed audio alignments %s because some values in '%s' are not valid numbers.", where, alignment))
			return nil, false
		}
		nums[i] = f
	}
	switch {
	case len(nums) <= 1:
		return nil, false
	case len(nums) != count:
		im.diags.Error(common.DiagnosticKindAlignmentCountMismatch, page, r,
			fmt.Sprintf("Did not import audio alignments %s because there are %d audio alignments for %d sentences; they should match up.", where, len(nums), count))
		return nil, false
	}
	for _, f := range nums[:len(nums)-1] {
		if f > duration {
			im.diags.Warn(common.DiagnosticKindAlignmentValueInvalid, page, r,
				fmt.Sprintf("Removed audio alignments %s because some values in the list given ('%s') are larger than the duration of the audio file (%.3f).", where, alignment, duration))
			return nil, false
		}
	}
	values[len(values)-1] = audio.FormatDuration(duration)
	return values, true
}

// sentences records one file per fragment, missing recordings leave
// fragment span without audio facts.
func (im *Importer) sentences(ed *etree.Element, recs []*recording, paras []paragraph) {
	content.SetAttr(ed, content.AttrRecordingMode, content.ModeSentence)
	content.SetInnerXML(ed, segmentMarkup(paras, func(n int) string {
		rec := recs[n]
		if rec == nil {
			return `<span id="` + content.NewID() + `" class="` + content.ClassAudioSentence + `">`
		}
		return fmt.Sprintf(`<span id="%s" class="%s" %s="%s" %s="%s">`,
			im.audioID(rec, ed), content.ClassAudioSentence,
			content.AttrRecordingMD5, rec.info.MD5,
			content.AttrDuration, audio.FormatDuration(rec.info.Duration))
	}))
}

// audioID picks element id for the recording, book keeps recordings as
// audio/<id>.mp3. Id comes from file name, numeric suffix is added when book
// already has different recording under that name or another element
// already has that id, so recording used twice gets its own copy. New
// recordings are copied into the book. Element ed is going to get the id.
func (im *Importer) audioID(rec *recording, ed *etree.Element) string {
	base := content.SanitizeID(strings.TrimSuffix(filepath.Base(rec.path), filepath.Ext(rec.path)))
	for n := 0; ; n++ {
		id := base
		if n > 0 {
			id += strconv.Itoa(n)
		}
		if im.idTaken(id, ed) {
			continue
		}
		if claimed, ok := im.audioIDs[id]; ok {
			if claimed != rec.path {
				continue
			}
		} else {
			dst := filepath.Join(im.bookDir, media.AudioDir, id+".mp3")
			switch {
			case !exists(dst):
				im.copier.File(rec.path, dst)
			case media.SameFile(rec.path, dst) || im.sameAudio(dst, rec.info.MD5):
			default:
				continue
			}
			im.audioIDs[id] = rec.path
		}
		im.narrated[id] = true
		return id
	}
}

// idTaken reports whether id belongs to an element other than ed.
func (im *Importer) idTaken(id string, ed *etree.Element) bool {
	if im.narrated[id] {
		return true
	}
	return content.FindFirst(im.doc.Body(), func(e *etree.Element) bool {
		return e != ed && e.SelectAttrValue("id", "") == id
	}) != nil
}

func (im *Importer) sameAudio(name, sum string) bool {
	info, err := im.prober.Probe(im.ctx, name)
	return err == nil && info.MD5 == sum
}
