package sheet

import (
	"strconv"

	"sbc/utils/debug"
)

// Dump returns readable representation of the grid for debug report.
func (g *Grid) Dump() string {
	tw := debug.NewTreeWriter()

	tw.Line(0, "Columns: %d", len(g.columns))
	for i, c := range g.columns {
		attrs := map[string]string{"name": c.Name}
		if c.Hidden {
			attrs["hidden"] = "true"
		}
		tw.Attrs(1, "["+strconv.Itoa(i)+"] "+c.Tag.String(), attrs)
	}

	tw.Line(0, "Rows: %d", len(g.rows))
	for i, r := range g.rows {
		tw.Line(1, "Row %d %s hidden=%t shaded=%t", i+headerRowsNumber+1, r.Key(), r.Hidden, r.Shaded)
		for j := 1; j < len(r.cells); j++ {
			if r.cells[j] == "" {
				continue
			}
			label := strconv.Itoa(j)
			if j < len(g.columns) {
				label = g.columns[j].Tag.String()
			}
			tw.TextBlock(2, label, r.cells[j])
		}
	}
	return tw.String()
}
