package markup

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []Run
	}{
		{
			name:     "plain text",
			fragment: "Just text & more",
			want:     []Run{{Text: "Just text & more"}},
		},
		{
			name:     "single paragraph",
			fragment: "<p>I have a red house.</p>",
			want:     []Run{{Text: "I have a red house."}},
		},
		{
			name:     "nested formatting accumulates",
			fragment: "<p>a <strong>b <em>c</em></strong> d</p>",
			want: []Run{
				{Text: "a "},
				{Text: "b ", Bold: true},
				{Text: "c", Bold: true, Italic: true},
				{Text: " d"},
			},
		},
		{
			name:     "all formats",
			fragment: "<p><u>u</u><sup>2</sup><b>b</b><i>i</i></p>",
			want: []Run{
				{Text: "u", Underlined: true},
				{Text: "2", Superscript: true},
				{Text: "b", Bold: true},
				{Text: "i", Italic: true},
			},
		},
		{
			name:     "color span",
			fragment: `<p>I have a <span style="color:#FF1616;">red</span> house</p>`,
			want: []Run{
				{Text: "I have a "},
				{Text: "red", Color: "#ff1616"},
				{Text: " house"},
			},
		},
		{
			name:     "paragraphs joined with new lines",
			fragment: "\n  <p></p>\n  <p>An empty paragraph comes before this one.</p>\n  <p></p>\n",
			want:     []Run{{Text: "\nAn empty paragraph comes before this one.\n"}},
		},
		{
			name:     "paragraph breaks formatting",
			fragment: "<p><em>one</em></p><p><em>two</em></p>",
			want: []Run{
				{Text: "one", Italic: true},
				{Text: "\n"},
				{Text: "two", Italic: true},
			},
		},
		{
			name:     "line break inside paragraph",
			fragment: "<p>first<span class=\"bloom-linebreak\"></span>\uFEFFsecond</p>",
			want:     []Run{{Text: "first\n\uFEFFsecond"}},
		},
		{
			name:     "self-closed line break",
			fragment: "<p>first<span class=\"bloom-linebreak\"/>\uFEFFsecond</p>",
			want:     []Run{{Text: "first\n\uFEFFsecond"}},
		},
		{
			name:     "self-closed formatting element",
			fragment: "<p>a<strong/>b</p>",
			want:     []Run{{Text: "ab"}},
		},
		{
			name:     "br element",
			fragment: "<p>a<br/>b</p>",
			want:     []Run{{Text: "a\n\uFEFFb"}},
		},
		{
			name:     "unknown elements are transparent",
			fragment: `<p>go <a href="x">here</a> <span class="foo">now</span></p>`,
			want:     []Run{{Text: "go here now"}},
		},
		{
			name:     "entities",
			fragment: "<p>a&amp;b&nbsp;c</p>",
			want:     []Run{{Text: "a&b\u00a0c"}},
		},
		{
			name:     "malformed fragment",
			fragment: "<p>unclosed <strong>bold</p>",
			want:     []Run{{Text: "<p>unclosed <strong>bold</p>"}},
		},
		{
			name:     "segment marker survives",
			fragment: "<p>I have put a segment marker <strong>|</strong>in the middle</p>",
			want: []Run{
				{Text: "I have put a segment marker "},
				{Text: "|", Bold: true},
				{Text: "in the middle"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.fragment).Runs()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) =\n%#v\nwant\n%#v", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParse_PlainTextPreserved(t *testing.T) {
	fragments := []string{
		"<p>one <em>two</em> three</p>",
		"<p><strong><em>x</em></strong>y</p><p>z</p>",
		"no markup at all",
	}
	want := []string{"one two three", "xy\nz", "no markup at all"}
	for i, f := range fragments {
		if got := Parse(f).PlainText(); got != want[i] {
			t.Errorf("PlainText(%q) = %q, want %q", f, got, want[i])
		}
	}
}

func TestIsMarkup(t *testing.T) {
	tests := []struct {
		text      string
		want      bool
		malformed bool
	}{
		{"<p>a <em>b</em></p>", true, false},
		{"a <strong>b</strong>", true, false},
		{"1 < 2", false, false},
		{"<3 you", false, false},
		{"<p>unclosed", false, true},
		{"<p>Hello <b>world</p>", false, true},
		{"no markup", false, false},
	}
	for _, tt := range tests {
		if got := IsMarkup(tt.text); got != tt.want {
			t.Errorf("IsMarkup(%q) = %v, want %v", tt.text, got, tt.want)
		}
		if got := Malformed(tt.text); got != tt.malformed {
			t.Errorf("Malformed(%q) = %v, want %v", tt.text, got, tt.malformed)
		}
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		text MarkedUpText
		want string
	}{
		{"empty", New(), ""},
		{"plain", Plain("a < b & c"), "<p>a &lt; b &amp; c</p>"},
		{"lines", Plain("one\r\ntwo\n"), "<p>one</p><p>two</p><p></p>"},
		{"line break", Plain("one\n\uFEFFtwo"), "<p>one<span class=\"bloom-linebreak\"></span>\uFEFFtwo</p>"},
		{
			"formatting order",
			New(Run{Text: "x", Bold: true, Italic: true, Underlined: true, Superscript: true, Color: "#00ff00"}),
			`<p><span style="color:#00ff00;"><strong><em><u><sup>x</sup></u></em></strong></span></p>`,
		},
		{
			"formatting split by paragraph",
			New(Run{Text: "a\nb", Bold: true}),
			"<p><strong>a</strong></p><p><strong>b</strong></p>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.text); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeParseIdempotent(t *testing.T) {
	fragments := []string{
		"<p>simple</p>",
		"<p>a <strong>b</strong> c</p>",
		"<p><strong><em>both</em></strong></p>",
		"<p><em>x</em><u>y</u><sup>z</sup></p>",
		`<p>I have a <span style="color:#ff1616;">red</span> house</p>`,
		`<p><span style="color:#0000ff;"><strong>blue bold</strong></span></p>`,
		"<p>first</p><p></p><p>third &amp; last</p>",
		"<p>line<span class=\"bloom-linebreak\"></span>\uFEFFbreak</p>",
	}
	for _, f := range fragments {
		if got := Serialize(Parse(f)); got != f {
			t.Errorf("Serialize(Parse(%q)) = %q", f, got)
		}
	}
}

func TestNewMergesRuns(t *testing.T) {
	m := New(Run{Text: "a"}, Run{Text: ""}, Run{Text: "b"}, Run{Text: "c", Bold: true}, Run{Text: "d", Bold: true})
	if m.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", m.Count())
	}
	if m.Run(0).Text != "ab" || m.Run(1).Text != "cd" {
		t.Errorf("unexpected runs %#v", m.Runs())
	}
	if !m.HasFormatting() {
		t.Error("HasFormatting() = false, want true")
	}
	if Plain("x").HasFormatting() {
		t.Error("plain text reports formatting")
	}
}

func TestParagraphs(t *testing.T) {
	m := New(Run{Text: "one "}, Run{Text: "bold\ntwo", Bold: true}, Run{Text: "\n\uFEFFstill two\nthree"})
	paras := m.Paragraphs()
	want := []string{"one bold", "two\n\uFEFFstill two", "three"}
	if len(paras) != len(want) {
		t.Fatalf("Paragraphs() = %d, want %d", len(paras), len(want))
	}
	for i, p := range paras {
		if got := p.PlainText(); got != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got, want[i])
		}
	}
	if !paras[1].Run(0).Bold {
		t.Error("formatting lost at paragraph boundary")
	}
	if New().Paragraphs() != nil {
		t.Error("empty text should have no paragraphs")
	}
}

func TestSlice(t *testing.T) {
	m := New(Run{Text: "ab"}, Run{Text: "cd", Italic: true}, Run{Text: "ef"})
	got := m.Slice(1, 5).Runs()
	want := []Run{{Text: "b"}, {Text: "cd", Italic: true}, {Text: "e"}}
	if !slices.Equal(got, want) {
		t.Errorf("Slice(1, 5) = %#v", got)
	}
	if m.Slice(6, 6).Count() != 0 {
		t.Error("empty slice should have no runs")
	}
}

func TestSerializeInline(t *testing.T) {
	m := New(Run{Text: "a|b"}, Run{Text: "c", Bold: true}, Run{Text: "\n\uFEFFd"})
	if got, want := SerializeInline(m, false), "a|b<strong>c</strong><span class=\"bloom-linebreak\"></span>\uFEFFd"; got != want {
		t.Errorf("SerializeInline(false) = %q, want %q", got, want)
	}
	if got, want := SerializeInline(m, true), "a"+SplitMarkerSpan+"b<strong>c</strong><span class=\"bloom-linebreak\"></span>\uFEFFd"; got != want {
		t.Errorf("SerializeInline(true) = %q, want %q", got, want)
	}
}
