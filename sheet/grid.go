// Package sheet is the in-memory spreadsheet: ordered typed columns and rows
// of string cells. Cell at (row, column) is addressed by column index, rows
// are sparse and missing cells read as empty strings.
package sheet

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrMissingColumn is returned when required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Row keys in the row type column.
const (
	PageContentKey      = "[page content]"
	ImageDescriptionKey = "[image description]"
	// keys produced by earlier versions of the export
	legacyTextGroupKey = "[textgroup]"
	legacyImageKey     = "[image]"
)

// BlankMarker in a language cell requests emptying text of that language,
// while empty cell leaves destination alone.
const BlankMarker = "[blank]"

// MissingAudio stands for sentence without recording in audio cell.
const MissingAudio = "missing"

// Thumbnail cell status values.
const (
	StatusMissing    = "Missing"
	StatusBadImage   = "Bad image file"
	StatusCantDoSVG  = "Can't display SVG"
	headerRowsNumber = 2
)

// RowType classifies row by its key.
type RowType int

const (
	RowUnknown RowType = iota
	RowPageContent
	RowImageDescription
	RowMetadata
)

// formatted row keys: language cells of these rows keep character
// formatting in the spreadsheet
var formattedKeys = map[string]bool{
	PageContentKey:              true,
	ImageDescriptionKey:         true,
	legacyTextGroupKey:          true,
	"[bookTitle]":               true,
	"[licenseDescription]":      true,
	"[originalContributions]":   true,
	"[versionAcknowledgments]":  true,
	"[originalAcknowledgments]": true,
}

// FormattedKey reports whether language cells of rows with the key hold
// formatted text (markup) rather than plain values.
func FormattedKey(key string) bool {
	return formattedKeys[key]
}

// MetadataKey wraps book metadata field name into row key.
func MetadataKey(field string) string {
	return "[" + field + "]"
}

// ClassifyKey returns row type and, for metadata rows, the metadata field
// name.
func ClassifyKey(key string) (RowType, string) {
	switch key {
	case PageContentKey, legacyTextGroupKey, legacyImageKey:
		return RowPageContent, ""
	case ImageDescriptionKey:
		return RowImageDescription, ""
	}
	if len(key) > 2 && key[0] == '[' && key[len(key)-1] == ']' && !strings.ContainsAny(key[1:len(key)-1], " []") {
		return RowMetadata, key[1 : len(key)-1]
	}
	return RowUnknown, ""
}

// Column describes one column of the grid.
type Column struct {
	Tag     Tag
	Name    string
	Comment string
	Hidden  bool
}

// Row is single grid row.
type Row struct {
	grid   *Grid
	cells  []string
	header bool
	// Hidden rows are kept but not shown by spreadsheet program.
	Hidden bool
	// Shaded rows are painted with alternate background.
	Shaded bool
}

// Grid is ordered list of columns and content rows. Wildcard language column
// is always the last one.
type Grid struct {
	columns []Column
	index   map[Tag]int
	rows    []*Row
}

// New creates grid with standard leading columns and wildcard language
// column.
func New() *Grid {
	g := &Grid{index: make(map[Tag]int)}
	for _, tag := range []Tag{RowTypeTag, PageNumberTag, PageTypeTag, TextIndexTag, ImageThumbnailTag, ImageSourceTag, WildcardTag} {
		g.AddColumn(tag, "", "")
	}
	return g
}

// AddColumn returns index of existing column with the tag or appends new one.
// Empty name and comment are replaced with defaults for the tag. Wildcard
// column moves one position right so it stays last, cells of existing rows
// move with it.
func (g *Grid) AddColumn(tag Tag, name, comment string) int {
	if i, ok := g.index[tag]; ok {
		return i
	}
	if name == "" {
		name = tag.DefaultName()
	}
	if comment == "" {
		comment = tag.DefaultComment()
	}
	col := Column{Tag: tag, Name: name, Comment: comment}

	wild, hasWild := g.index[WildcardTag]
	if !hasWild || tag.IsWildcard() {
		g.columns = append(g.columns, col)
		g.index[tag] = len(g.columns) - 1
		return len(g.columns) - 1
	}

	g.columns = append(g.columns[:wild], append([]Column{col}, g.columns[wild:]...)...)
	for i := wild; i < len(g.columns); i++ {
		if g.columns[i].Tag.Kind != KindUnknown {
			g.index[g.columns[i].Tag] = i
		}
	}
	for _, r := range g.rows {
		if len(r.cells) > wild {
			r.cells = append(r.cells[:wild], append([]string{""}, r.cells[wild:]...)...)
		}
	}
	return wild
}

// SetColumnComment replaces header comment of the column.
func (g *Grid) SetColumnComment(i int, comment string) {
	g.columns[i].Comment = comment
}

// ColumnFor looks up column index by tag.
func (g *Grid) ColumnFor(tag Tag) (int, bool) {
	i, ok := g.index[tag]
	return i, ok
}

// RequiredColumnFor looks up column index by tag, absence is an error.
func (g *Grid) RequiredColumnFor(tag Tag) (int, error) {
	i, ok := g.index[tag]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, tag)
	}
	return i, nil
}

// Column returns column description by index.
func (g *Grid) Column(i int) Column {
	return g.columns[i]
}

// ColumnCount returns number of columns.
func (g *Grid) ColumnCount() int {
	return len(g.columns)
}

// HideColumn marks column hidden.
func (g *Grid) HideColumn(i int) {
	g.columns[i].Hidden = true
}

// Languages returns languages of text columns in column order, wildcard
// language included.
func (g *Grid) Languages() []string {
	var langs []string
	for _, c := range g.columns {
		if c.Tag.Kind == KindLanguage {
			langs = append(langs, c.Tag.Lang)
		}
	}
	return langs
}

// AddRow appends content row with the key.
func (g *Grid) AddRow(key string) *Row {
	r := &Row{grid: g}
	r.SetCell(g.index[RowTypeTag], key)
	g.rows = append(g.rows, r)
	return r
}

// Rows returns content rows in order.
func (g *Grid) Rows() []*Row {
	return g.rows
}

// HeaderRows produces header rows: column tags and column names.
func (g *Grid) HeaderRows() []*Row {
	tags := &Row{grid: g, header: true}
	names := &Row{grid: g, header: true}
	for i, c := range g.columns {
		tags.SetCell(i, c.Tag.String())
		names.SetCell(i, c.Name)
	}
	return []*Row{tags, names}
}

// AllRows iterates over header rows followed by content rows.
func (g *Grid) AllRows() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		i := 0
		for _, r := range g.HeaderRows() {
			if !yield(i, r) {
				return
			}
			i++
		}
		for _, r := range g.rows {
			if !yield(i, r) {
				return
			}
			i++
		}
	}
}

// Hint returns display annotation for the cell: thumbnail status for the
// thumbnail column of content rows, empty otherwise.
func (g *Grid) Hint(row, col int) string {
	if row < headerRowsNumber || row-headerRowsNumber >= len(g.rows) {
		return ""
	}
	if i, ok := g.index[ImageThumbnailTag]; !ok || i != col {
		return ""
	}
	return g.rows[row-headerRowsNumber].Cell(col)
}

// FromRows rebuilds grid from rows read from a file. First row must carry
// column tags, second one column names. Columns with unrecognized tags are
// kept as unknown so cell positions do not change.
func FromRows(rows [][]string) (*Grid, error) {
	if len(rows) < headerRowsNumber {
		return nil, fmt.Errorf("%w: spreadsheet has no header rows", ErrMissingColumn)
	}
	g := &Grid{index: make(map[Tag]int)}
	for i, label := range rows[0] {
		col := Column{Tag: Tag{Kind: KindUnknown, Lang: label}}
		if tag, ok := ParseTag(label); ok {
			if _, dup := g.index[tag]; !dup {
				col.Tag = tag
				g.index[tag] = i
			}
		}
		if i < len(rows[1]) {
			col.Name = rows[1][i]
		}
		g.columns = append(g.columns, col)
	}
	if _, err := g.RequiredColumnFor(RowTypeTag); err != nil {
		return nil, err
	}
	for _, cells := range rows[headerRowsNumber:] {
		r := &Row{grid: g}
		for i, v := range cells {
			r.SetCell(i, v)
		}
		g.rows = append(g.rows, r)
	}
	return g, nil
}

// Key returns row type cell.
func (r *Row) Key() string {
	return r.Get(RowTypeTag)
}

// Type classifies row by its key.
func (r *Row) Type() RowType {
	t, _ := ClassifyKey(r.Key())
	return t
}

// IsHeader reports whether row is one of header rows.
func (r *Row) IsHeader() bool {
	return r.header
}

// Len returns number of stored cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// Cell returns content of the cell, missing cells are empty.
func (r *Row) Cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// SetCell stores cell content extending row as necessary.
func (r *Row) SetCell(i int, v string) {
	for len(r.cells) <= i {
		r.cells = append(r.cells, "")
	}
	r.cells[i] = v
}

// Get returns content of the cell in the tagged column, empty when column
// does not exist.
func (r *Row) Get(tag Tag) string {
	i, ok := r.grid.index[tag]
	if !ok {
		return ""
	}
	return r.Cell(i)
}

// Set stores content in the tagged column creating column when necessary.
func (r *Row) Set(tag Tag, v string) {
	r.SetCell(r.grid.AddColumn(tag, "", ""), v)
}
