package markup

import (
	"strings"

	"sbc/css"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape escapes characters which cannot appear in element text literally.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

// Serialize produces paragraph markup for the text: every line becomes
// paragraph, line starting with line break mark is attached to the previous
// one with line break span. Each run is wrapped into minimal set of
// formatting elements. Empty text produces empty string.
func Serialize(m MarkedUpText) string {
	if len(m.runs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<p>")
	for _, r := range m.runs {
		text := strings.ReplaceAll(r.Text, "\r\n", "\n")
		for i, piece := range strings.Split(text, "\n") {
			if i > 0 {
				if strings.HasPrefix(piece, string(LineBreakMark)) {
					b.WriteString(`<span class="` + LineBreakClass + `"></span>`)
				} else {
					b.WriteString("</p><p>")
				}
			}
			writeRun(&b, r, piece)
		}
	}
	b.WriteString("</p>")
	return b.String()
}

func writeRun(b *strings.Builder, r Run, text string) {
	if text == "" {
		return
	}

	var closing []string
	open := func(tag, attrs string) {
		b.WriteString("<" + tag + attrs + ">")
		closing = append(closing, "</"+tag+">")
	}
	if r.Color != "" {
		open("span", ` style="`+css.ColorStyle(r.Color)+`"`)
	}
	if r.Bold {
		open("strong", "")
	}
	if r.Italic {
		open("em", "")
	}
	if r.Underlined {
		open("u", "")
	}
	if r.Superscript {
		open("sup", "")
	}
	b.WriteString(Escape(text))
	for i := len(closing) - 1; i >= 0; i-- {
		b.WriteString(closing[i])
	}
}
