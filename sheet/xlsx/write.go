// Package xlsx stores spreadsheet grid as Office Open XML workbook with
// single worksheet and reads it back.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbc/archive"
	"sbc/css"
	"sbc/markup"
	"sbc/sheet"
)

const (
	commentAuthor = "sbc"
	shadeColor    = "EEEEEE"
	statusColor   = "C00000"

	textWidth  = 40
	otherWidth = 15
)

// Options control how grid is written.
type Options struct {
	// SheetName is the worksheet name, at most 31 characters.
	SheetName string
	// RetainMarkup writes raw markup of formatted cells instead of
	// formatted text runs.
	RetainMarkup bool
}

// cell styles
type styles struct {
	header, text, textShaded, status, statusShaded int
}

type writer struct {
	f      *excelize.File
	name   string
	opts   Options
	styles styles
}

// Write stores grid at path as xlsx workbook.
func Write(path string, g *sheet.Grid, opts Options, log *zap.Logger) (err error) {
	log = log.Named("xlsx")
	if opts.SheetName == "" {
		opts.SheetName = "Sheet1"
	}

	f := excelize.NewFile()
	defer func() {
		if e := f.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close workbook: %w", e))
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), opts.SheetName); err != nil {
		return fmt.Errorf("unable to name worksheet: %w", err)
	}

	w := &writer{f: f, name: opts.SheetName, opts: opts}
	if err := w.prepareStyles(); err != nil {
		return err
	}
	if err := w.columns(g); err != nil {
		return err
	}
	for ri, row := range g.AllRows() {
		if err := w.row(g, ri, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(w.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("unable to freeze header rows: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("unable to serialize spreadsheet: %w", err)
	}
	if err := archive.Write(path, buf.Bytes()); err != nil {
		return fmt.Errorf("unable to write spreadsheet: %w", err)
	}
	log.Debug("Spreadsheet written",
		zap.String("path", path),
		zap.Int("rows", len(g.Rows())),
		zap.Int("columns", g.ColumnCount()))
	return nil
}

func (w *writer) prepareStyles() error {
	top := &excelize.Alignment{Vertical: "top", WrapText: true}
	shade := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{shadeColor}}
	for _, s := range []struct {
		id    *int
		style *excelize.Style
	}{
		{&w.styles.header, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&w.styles.text, &excelize.Style{Alignment: top}},
		{&w.styles.textShaded, &excelize.Style{Alignment: top, Fill: shade}},
		{&w.styles.status, &excelize.Style{Font: &excelize.Font{Color: statusColor}}},
		{&w.styles.statusShaded, &excelize.Style{Font: &excelize.Font{Color: statusColor}, Fill: shade}},
	} {
		id, err := w.f.NewStyle(s.style)
		if err != nil {
			return fmt.Errorf("unable to create cell style: %w", err)
		}
		*s.id = id
	}
	return nil
}

func (w *writer) columns(g *sheet.Grid) error {
	for i := range g.ColumnCount() {
		c := g.Column(i)
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(otherWidth)
		if c.Tag.Kind == sheet.KindLanguage {
			width = textWidth
		}
		if err := w.f.SetColWidth(w.name, name, name, width); err != nil {
			return fmt.Errorf("unable to set column %s width: %w", name, err)
		}
		if c.Hidden {
			if err := w.f.SetColVisible(w.name, name, false); err != nil {
				return fmt.Errorf("unable to hide column %s: %w", name, err)
			}
		}
		if c.Comment != "" {
			if err := w.f.AddComment(w.name, excelize.Comment{
				Author: commentAuthor,
				Cell:   name + "1",
				Text:   c.Comment,
			}); err != nil {
				return fmt.Errorf("unable to add column %s comment: %w", name, err)
			}
		}
	}
	return nil
}

func (w *writer) row(g *sheet.Grid, ri int, row *sheet.Row) error {
	if row.Hidden {
		if err := w.f.SetRowVisible(w.name, ri+1, false); err != nil {
			return fmt.Errorf("unable to hide row %d: %w", ri+1, err)
		}
	}
	formatted := !row.IsHeader() && sheet.FormattedKey(row.Key())
	for ci := range row.Len() {
		v := row.Cell(ci)
		if v == "" {
			continue
		}
		ref, err := excelize.CoordinatesToCellName(ci+1, ri+1)
		if err != nil {
			return err
		}

		if formatted && g.Column(ci).Tag.Kind == sheet.KindLanguage && !w.opts.RetainMarkup {
			err = w.richText(ref, markup.Parse(v))
		} else {
			err = w.f.SetCellStr(w.name, ref, escape(v))
		}
		if err != nil {
			return fmt.Errorf("unable to set cell %s: %w", ref, err)
		}
		if err := w.f.SetCellStyle(w.name, ref, ref, w.style(g, ri, ci, row)); err != nil {
			return fmt.Errorf("unable to style cell %s: %w", ref, err)
		}
	}
	return nil
}

func (w *writer) style(g *sheet.Grid, ri, ci int, row *sheet.Row) int {
	switch {
	case row.IsHeader():
		return w.styles.header
	case g.Hint(ri, ci) != "" && row.Shaded:
		return w.styles.statusShaded
	case g.Hint(ri, ci) != "":
		return w.styles.status
	case row.Shaded:
		return w.styles.textShaded
	}
	return w.styles.text
}

func (w *writer) richText(ref string, m markup.MarkedUpText) error {
	if !m.HasFormatting() {
		return w.f.SetCellStr(w.name, ref, escape(m.PlainText()))
	}
	runs := make([]excelize.RichTextRun, 0, m.Count())
	for _, run := range m.Runs() {
		rt := excelize.RichTextRun{Text: escape(run.Text)}
		if run.Formatted() {
			font := &excelize.Font{Bold: run.Bold, Italic: run.Italic}
			if run.Underlined {
				font.Underline = "single"
			}
			if run.Superscript {
				font.VertAlign = "superscript"
			}
			if rgb, ok := css.SheetColor(run.Color); ok {
				font.Color = rgb
			}
			rt.Font = font
		}
		runs = append(runs, rt)
	}
	return w.f.SetCellRichText(w.name, ref, runs)
}
