package content

import (
	"strconv"
	"strings"

	"sbc/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// Dump returns a readable tree of book pages and their slots. It exists
// solely for manual inspection during debugging.
func (d *Document) Dump() string {
	if d == nil {
		return "<nil Document>"
	}
	tw := treeWriter{debug.NewTreeWriter()}

	entries := d.DataBookElements()
	tw.Line(0, "Data div: %d entries", len(entries))
	for _, e := range entries {
		tw.Attrs(1, "Entry", map[string]string{
			"key":  e.SelectAttrValue(AttrDataBook, ""),
			"lang": Lang(e),
		})
	}

	pages := d.Pages()
	tw.Line(0, "Pages: %d", len(pages))
	for i, el := range pages {
		p := Classify(el)
		tw.Attrs(1, "Page", map[string]string{
			"index":   strconv.Itoa(i),
			"number":  p.Number,
			"label":   p.Label,
			"lineage": strings.Join(PageLineage(el), ";"),
		})
		if p.XMatter {
			tw.Line(2, "xmatter")
			continue
		}
		for _, s := range p.Texts {
			tw.slot(2, s)
		}
		for _, s := range p.Images {
			tw.slot(2, s)
		}
		for _, s := range p.Videos {
			tw.slot(2, s)
		}
		for _, s := range p.Widgets {
			tw.slot(2, s)
		}
	}
	return tw.String()
}

func (tw treeWriter) slot(depth int, s *Slot) {
	switch s.Type {
	case SlotTextBlock, SlotQuizAnswer:
		tw.Line(depth, "%s", s.Type)
		for _, ed := range Editables(s.El) {
			tw.TextBlock(depth+1, "["+Lang(ed)+"]", TextContent(ed))
		}
	case SlotImage:
		tw.TextBlock(depth, "image", ImageSource(s.El))
		for _, desc := range s.Descriptions {
			for _, ed := range Editables(desc) {
				tw.TextBlock(depth+1, "description ["+Lang(ed)+"]", TextContent(ed))
			}
		}
	case SlotVideo:
		tw.TextBlock(depth, "video", VideoSource(s.El))
	case SlotWidget:
		tw.TextBlock(depth, "widget", WidgetSource(s.El))
	}
}
