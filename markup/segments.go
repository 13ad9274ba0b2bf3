package markup

import (
	"strings"

	"sbc/content/text"
)

// SplitMarkerClass marks span editor keeps in place of typed phrase marker.
const SplitMarkerClass = "bloom-audio-split-marker"

// SplitMarkerSpan is how phrase marker is stored in the book.
const SplitMarkerSpan = `<span class="` + SplitMarkerClass + `">` + "\u200B" + `</span>`

// Paragraphs splits text at paragraph breaks. Line breaks (new line followed
// by line break mark) stay inside paragraph. Text without breaks is returned
// as the only paragraph, empty text has no paragraphs.
func (m MarkedUpText) Paragraphs() []MarkedUpText {
	if len(m.runs) == 0 {
		return nil
	}
	var (
		result  []MarkedUpText
		current []Run
	)
	for _, r := range m.runs {
		t := strings.ReplaceAll(r.Text, "\r\n", "\n")
		for {
			i := paragraphBreak(t)
			if i < 0 {
				break
			}
			piece := r
			piece.Text = t[:i]
			current = append(current, piece)
			result = append(result, New(current...))
			current = nil
			t = t[i+1:]
		}
		piece := r
		piece.Text = t
		current = append(current, piece)
	}
	return append(result, New(current...))
}

func paragraphBreak(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		if !strings.HasPrefix(s[i+1:], string(LineBreakMark)) {
			return i
		}
	}
	return -1
}

// Slice returns part of the text between byte offsets of its plain text,
// formatting is preserved.
func (m MarkedUpText) Slice(from, to int) MarkedUpText {
	var (
		out []Run
		pos int
	)
	for _, r := range m.runs {
		start, end := pos, pos+len(r.Text)
		pos = end
		if end <= from || start >= to {
			continue
		}
		piece := r
		piece.Text = r.Text[max(from, start)-start : min(to, end)-start]
		out = append(out, piece)
	}
	return New(out...)
}

// SerializeInline produces markup of text inside single paragraph: runs are
// wrapped into formatting elements, new lines become line break spans. When
// markers is set phrase markers are replaced with editor marker spans.
func SerializeInline(m MarkedUpText, markers bool) string {
	var b strings.Builder
	for _, r := range m.runs {
		t := strings.ReplaceAll(r.Text, "\r\n", "\n")
		for i, line := range strings.Split(t, "\n") {
			if i > 0 {
				b.WriteString(`<span class="` + LineBreakClass + `"></span>`)
			}
			if !markers {
				writeRun(&b, r, line)
				continue
			}
			for j, piece := range strings.Split(line, string(text.PhraseMarker)) {
				if j > 0 {
					b.WriteString(SplitMarkerSpan)
				}
				writeRun(&b, r, piece)
			}
		}
	}
	return b.String()
}
