package xlsx

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"sbc/sheet"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"tab\tand\nnew line", "tab\tand\nnew line"},
		{"bell\a", "bell_x0007_"},
		{"literal _x0041_ text", "literal _x005F_x0041_ text"},
		{"snake_case_x", "snake_case_x"},
	}
	for _, tt := range tests {
		if got := escape(tt.in); got != tt.want {
			t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	for in, want := range map[string]string{
		"bell_x0007_":    "bell\a",
		"_x000b_":        "\v",
		"snake_case_x":   "snake_case_x",
		"no escapes _x_": "no escapes _x_",
	} {
		if got := unescape(in); got != want {
			t.Errorf("unescape(%q) = %q, want %q", in, got, want)
		}
	}
}

func testGrid() *sheet.Grid {
	g := sheet.New()
	g.AddColumn(sheet.LangTag("en"), "", "")
	g.AddColumn(sheet.LangTag("fr"), "", "")
	g.AddColumn(sheet.AudioTag("en"), "", "")
	g.HideColumn(g.ColumnCount() - 1)

	title := g.AddRow(sheet.MetadataKey("bookTitle"))
	title.Set(sheet.LangTag("en"), "<p>The <strong>Moon</strong></p>")

	isbn := g.AddRow(sheet.MetadataKey("ISBN"))
	isbn.Set(sheet.WildcardTag, "978-3-16")
	isbn.Hidden = true

	img := g.AddRow(sheet.PageContentKey)
	img.Set(sheet.PageNumberTag, "1")
	img.Set(sheet.ImageSourceTag, "images/cat.svg")
	img.Set(sheet.ImageThumbnailTag, sheet.StatusCantDoSVG)
	img.Shaded = true

	text := g.AddRow(sheet.PageContentKey)
	text.Set(sheet.PageNumberTag, "1")
	text.Set(sheet.TextIndexTag, "1")
	text.Set(sheet.LangTag("en"), `<p>Red <span style="color:#ff0000;"><em>sky</em></span></p><p>Second x<sup>2</sup></p>`)
	text.Set(sheet.LangTag("fr"), "<p>Ciel</p>")
	text.Set(sheet.AudioTag("en"), "./audio/a.mp3, missing")
	text.Shaded = true

	ctrl := g.AddRow(sheet.PageContentKey)
	ctrl.Set(sheet.PageNumberTag, "2")
	ctrl.Set(sheet.LangTag("en"), "<p>bell\a</p>")
	return g
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	in := testGrid()
	if err := Write(path, in, Options{SheetName: "BloomBook"}, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Read(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if out.ColumnCount() != in.ColumnCount() {
		t.Fatalf("column count = %d, want %d", out.ColumnCount(), in.ColumnCount())
	}
	for i := range in.ColumnCount() {
		if out.Column(i).Tag != in.Column(i).Tag || out.Column(i).Name != in.Column(i).Name {
			t.Errorf("column %d = %+v, want %+v", i, out.Column(i), in.Column(i))
		}
		if out.Column(i).Comment != in.Column(i).Comment {
			t.Errorf("column %d comment = %q, want %q", i, out.Column(i).Comment, in.Column(i).Comment)
		}
	}
	if len(out.Rows()) != len(in.Rows()) {
		t.Fatalf("row count = %d, want %d", len(out.Rows()), len(in.Rows()))
	}
	for i, want := range in.Rows() {
		got := out.Rows()[i]
		if got.Hidden != want.Hidden {
			t.Errorf("row %d hidden = %v", i, got.Hidden)
		}
		for c := range in.ColumnCount() {
			if got.Cell(c) != want.Cell(c) {
				t.Errorf("row %d cell %d = %q, want %q", i, c, got.Cell(c), want.Cell(c))
			}
		}
	}
	if h := out.Hint(4, 4); h != sheet.StatusCantDoSVG {
		t.Errorf("thumbnail hint = %q", h)
	}
}

func TestWrite_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	g := testGrid()
	if err := Write(path, g, Options{SheetName: "BloomBook"}, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if list := f.GetSheetList(); len(list) != 1 || list[0] != "BloomBook" {
		t.Fatalf("sheets = %v", list)
	}
	audio, _ := excelize.ColumnNumberToName(g.ColumnCount())
	if visible, err := f.GetColVisible("BloomBook", audio); err != nil || visible {
		t.Errorf("audio column visible = %v, %v", visible, err)
	}
	if visible, err := f.GetRowVisible("BloomBook", 4); err != nil || visible {
		t.Errorf("hidden metadata row visible = %v, %v", visible, err)
	}

	t.Run("rich text", func(t *testing.T) {
		enCol, _ := g.ColumnFor(sheet.LangTag("en"))
		ref, _ := excelize.CoordinatesToCellName(enCol+1, 6)
		runs, err := f.GetCellRichText("BloomBook", ref)
		if err != nil {
			t.Fatal(err)
		}
		var sky, sup bool
		for _, r := range runs {
			switch {
			case r.Text == "sky" && r.Font != nil:
				sky = r.Font.Italic && strings.HasSuffix(strings.ToUpper(r.Font.Color), "FF0000")
			case r.Text == "2" && r.Font != nil:
				sup = r.Font.VertAlign == "superscript"
			}
		}
		if !sky || !sup {
			t.Errorf("formatted runs not written: %+v", runs)
		}
	})

	t.Run("status cell", func(t *testing.T) {
		ref, _ := excelize.CoordinatesToCellName(5, 5)
		id, err := f.GetCellStyle("BloomBook", ref)
		if err != nil {
			t.Fatal(err)
		}
		style, err := f.GetStyle(id)
		if err != nil {
			t.Fatal(err)
		}
		if style.Font == nil || !strings.HasSuffix(strings.ToUpper(style.Font.Color), statusColor) {
			t.Errorf("status font = %+v", style.Font)
		}
		if len(style.Fill.Color) == 0 || !strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), shadeColor) {
			t.Errorf("shaded row fill = %+v", style.Fill)
		}
	})

	t.Run("header comments", func(t *testing.T) {
		comments, err := f.GetComments("BloomBook")
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, c := range comments {
			if c.Cell == "A1" && c.Author == commentAuthor {
				found = true
			}
		}
		if !found {
			t.Errorf("row type column comment missing: %+v", comments)
		}
	})
}

func TestWrite_RetainMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	g := sheet.New()
	g.AddColumn(sheet.LangTag("en"), "", "")
	g.AddRow(sheet.PageContentKey).Set(sheet.LangTag("en"), "<p><strong>raw</strong></p>")
	if err := Write(path, g, Options{RetainMarkup: true}, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	enCol, _ := g.ColumnFor(sheet.LangTag("en"))
	ref, _ := excelize.CoordinatesToCellName(enCol+1, 3)
	v, err := f.GetCellValue("Sheet1", ref)
	f.Close()
	if err != nil || v != "<p><strong>raw</strong></p>" {
		t.Errorf("raw markup cell = %q, %v", v, err)
	}

	out, err := Read(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Rows()[0].Get(sheet.LangTag("en")); got != "<p><strong>raw</strong></p>" {
		t.Errorf("markup cell = %q", got)
	}
}

// savedWorkbook imitates workbook edited by a spreadsheet program: cells
// stored as shared strings, rich runs typed by hand, markup typed as text,
// row gaps and rows hidden by the user.
func savedWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	const name = "Sheet1"
	set := func(ref, v string) {
		if err := f.SetCellStr(name, ref, v); err != nil {
			t.Fatal(err)
		}
	}
	set("A1", "[row type]")
	set("B1", "[en]")
	set("C1", "[page number]")
	set("A3", "[page content]")
	if err := f.SetCellRichText(name, "B3", []excelize.RichTextRun{
		{Text: "Hello "},
		{Text: "world", Font: &excelize.Font{Bold: true, Underline: "none"}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellInt(name, "C3", 7); err != nil {
		t.Fatal(err)
	}
	set("A5", "[page content]")
	set("B5", "plain text")
	if err := f.SetRowVisible(name, 5, false); err != nil {
		t.Fatal(err)
	}
	set("A6", "[page content]")
	set("B6", "<p>typed <em>markup</em></p>")
	set("A7", "[page content]")
	set("B7", "1 < 2")

	path := filepath.Join(t.TempDir(), "saved.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_EditedWorkbook(t *testing.T) {
	g, err := Read(savedWorkbook(t), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rows := g.Rows()
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	en := sheet.LangTag("en")
	if got := rows[0].Get(en); got != "<p>Hello <strong>world</strong></p>" {
		t.Errorf("rich cell = %q", got)
	}
	if got := rows[0].Get(sheet.PageNumberTag); got != "7" {
		t.Errorf("number cell = %q", got)
	}
	if rows[1].Len() != 0 {
		t.Errorf("gap row should be empty")
	}
	if got := rows[2].Get(en); got != "<p>plain text</p>" || !rows[2].Hidden {
		t.Errorf("plain cell = %q, hidden %v", got, rows[2].Hidden)
	}
	if got := rows[3].Get(en); got != "<p>typed <em>markup</em></p>" {
		t.Errorf("typed markup = %q", got)
	}
	if got := rows[4].Get(en); got != "<p>1 &lt; 2</p>" {
		t.Errorf("text with angle bracket = %q", got)
	}
}

func TestRead_NotSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	f, _ := os.Create(path)
	w := zip.NewWriter(f)
	fw, _ := w.Create("xl/styles.xml")
	fw.Write([]byte("<styleSheet/>"))
	w.Close()
	f.Close()
	if _, err := Read(path, zaptest.NewLogger(t)); !errors.Is(err, ErrNotSpreadsheet) {
		t.Errorf("Read() error = %v, want ErrNotSpreadsheet", err)
	}
}
