package xlsx

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sbc/archive"
	"sbc/css"
	"sbc/markup"
	"sbc/sheet"
)

// ErrNotSpreadsheet is returned when workbook structure cannot be found.
var ErrNotSpreadsheet = errors.New("not an xlsx workbook")

// Read loads first worksheet of the workbook into grid.
func Read(from string, log *zap.Logger) (g *sheet.Grid, err error) {
	log = log.Named("xlsx")

	names, err := archive.Names(from, "")
	if err != nil {
		return nil, fmt.Errorf("unable to read spreadsheet %s: %w", from, err)
	}
	if !slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(path.Base(n), "workbook.xml") }) {
		return nil, fmt.Errorf("%w: %s has no workbook part", ErrNotSpreadsheet, from)
	}

	f, err := excelize.OpenFile(from)
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet %s: %w", from, err)
	}
	defer func() {
		if e := f.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close spreadsheet: %w", e))
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNotSpreadsheet)
	}
	name := sheets[0]
	log.Debug("Reading worksheet", zap.String("name", name))

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read worksheet %s: %w", name, err)
	}
	if g, err = sheet.FromRows(rows); err != nil {
		return nil, err
	}

	headers := len(g.HeaderRows())
	for i, row := range g.Rows() {
		ri := i + headers
		visible, err := f.GetRowVisible(name, ri+1)
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d: %w", ri+1, err)
		}
		row.Hidden = !visible
		formatted := sheet.FormattedKey(row.Key())
		for ci := range row.Len() {
			v := row.Cell(ci)
			if v == "" {
				continue
			}
			if !formatted || g.Column(ci).Tag.Kind != sheet.KindLanguage {
				row.SetCell(ci, unescape(v))
				continue
			}
			ref, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return nil, err
			}
			runs, err := f.GetCellRichText(name, ref)
			if err != nil {
				return nil, fmt.Errorf("unable to read cell %s: %w", ref, err)
			}
			row.SetCell(ci, cellMarkup(unescape(v), runs))
		}
	}
	readComments(f, name, g, log)

	log.Debug("Spreadsheet read",
		zap.String("path", from),
		zap.Int("rows", len(g.Rows())),
		zap.Int("columns", g.ColumnCount()))
	return g, nil
}

// cellMarkup converts language cell of formatted row to markup. Well formed
// markup typed into a cell is kept as is.
func cellMarkup(text string, runs []excelize.RichTextRun) string {
	var (
		mruns     []markup.Run
		formatted bool
	)
	for _, rt := range runs {
		run := markup.Run{Text: unescape(rt.Text)}
		if font := rt.Font; font != nil {
			run.Bold = font.Bold
			run.Italic = font.Italic
			run.Underlined = font.Underline != "" && font.Underline != "none"
			run.Superscript = font.VertAlign == "superscript"
			run.Color = css.FromSheetColor(font.Color)
		}
		formatted = formatted || run.Formatted()
		mruns = append(mruns, run)
	}
	switch {
	case formatted:
		return markup.Serialize(markup.New(mruns...))
	case markup.IsMarkup(text):
		return text
	}
	return markup.Serialize(markup.Plain(text))
}

// readComments restores column comments from the comments of the first
// row.
func readComments(f *excelize.File, name string, g *sheet.Grid, log *zap.Logger) {
	comments, err := f.GetComments(name)
	if err != nil {
		log.Debug("Unable to read comments", zap.Error(err))
		return
	}
	for _, c := range comments {
		col, row, err := excelize.CellNameToCoordinates(c.Cell)
		if err != nil || row != 1 || col > g.ColumnCount() {
			continue
		}
		text := c.Text
		if text == "" {
			var b strings.Builder
			for _, p := range c.Paragraph {
				b.WriteString(p.Text)
			}
			text = b.String()
		}
		g.SetColumnComment(col-1, strings.TrimLeft(strings.TrimPrefix(text, commentAuthor+":"), " \n"))
	}
}
