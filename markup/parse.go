package markup

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"sbc/css"
)

const (
	// LineBreakClass marks empty span standing for forced line break inside
	// paragraph.
	LineBreakClass = "bloom-linebreak"
	// LineBreakMark is zero width no-break space editor puts after forced
	// line break, it distinguishes line break from paragraph break in plain
	// text.
	LineBreakMark = '\uFEFF'
)

// Parse flattens markup fragment into runs. Paragraphs are joined with new
// lines. Text without markup and malformed fragments become single
// unformatted run holding the original string.
func Parse(fragment string) MarkedUpText {
	tree, ok := parseXML(fragment)
	if !ok {
		return Plain(fragment)
	}

	// HTML parser does not know self-closed elements, "<span/>" would
	// swallow text following it
	closeEmpty(tree.Root())
	ws := etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true}
	var b strings.Builder
	for _, c := range tree.Root().Child {
		c.WriteTo(&b, &ws)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		return Plain(fragment)
	}

	var p parser
	p.walk(doc.Find("body"), Run{})
	return New(p.runs...)
}

// IsMarkup reports whether text is well formed markup fragment rather than
// plain text which happens to contain '<'.
func IsMarkup(text string) bool {
	_, ok := parseXML(text)
	return ok
}

var tagRe = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)

// Malformed reports text which has tags in it but is not well formed
// markup, for example unclosed element typed into spreadsheet cell.
func Malformed(text string) bool {
	return tagRe.MatchString(text) && !IsMarkup(text)
}

func parseXML(fragment string) (*etree.Document, bool) {
	if !strings.ContainsRune(fragment, '<') {
		return nil, false
	}
	doc := etree.NewDocument()
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromString("<fragment>" + fragment + "</fragment>"); err != nil {
		return nil, false
	}
	return doc, true
}

func closeEmpty(e *etree.Element) {
	for _, c := range e.ChildElements() {
		closeEmpty(c)
		if len(c.Child) == 0 && !isVoid(c.Tag) {
			c.AddChild(etree.NewText(""))
		}
	}
}

func isVoid(tag string) bool {
	switch atom.Lookup([]byte(strings.ToLower(tag))) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

type parser struct {
	runs []Run
	// set when block was closed and next piece of text starts new line
	pendingBreak bool
}

func (p *parser) emit(state Run, text string) {
	if p.pendingBreak {
		p.runs = append(p.runs, Run{Text: "\n"})
		p.pendingBreak = false
	}
	state.Text = text
	p.runs = append(p.runs, state)
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div)
}

func (p *parser) walk(sel *goquery.Selection, state Run) {
	contents := sel.Contents()
	hasBlocks := contents.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isBlock(s.Nodes[0])
	}).Length() > 0

	contents.Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		switch n.Type {
		case html.TextNode:
			if hasBlocks && strings.TrimSpace(n.Data) == "" {
				return
			}
			p.emit(state, n.Data)
		case html.ElementNode:
			p.element(s, n, state)
		}
	})
}

func (p *parser) element(s *goquery.Selection, n *html.Node, state Run) {
	switch n.DataAtom {
	case atom.P, atom.Div:
		if p.pendingBreak {
			p.emit(Run{}, "")
		}
		p.walk(s, state)
		p.pendingBreak = true
		return
	case atom.Br:
		p.emit(Run{}, "\n"+string(LineBreakMark))
		return
	case atom.Strong, atom.B:
		state.Bold = true
	case atom.Em, atom.I:
		state.Italic = true
	case atom.U:
		state.Underlined = true
	case atom.Sup:
		state.Superscript = true
	case atom.Span:
		if s.HasClass(LineBreakClass) {
			p.emit(Run{}, "\n")
			p.walk(s, state)
			return
		}
		if c := css.Color(s.AttrOr("style", "")); c != "" {
			state.Color = c
		}
	}
	p.walk(s, state)
}
