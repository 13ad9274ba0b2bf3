package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sbc/config"
	"sbc/content"
	"sbc/exporter"
	"sbc/sheet"
	"sbc/sheet/xlsx"
	"sbc/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

const sampleDataDiv = `<div id="bloomDataDiv">
  <div data-book="contentLanguage1" lang="*">fr</div>
  <div data-book="bookTitle" lang="z"><p></p></div>
  <div data-book="bookTitle" lang="en"><p>The Moon</p></div>
  <div data-book="bookTitle" lang="fr"><p>La  Lune</p></div>
</div>`

const samplePage = `<div class="bloom-page numberedPage A5Portrait" id="p1" data-page-number="1">
  <div class="bloom-translationGroup">
    <div class="bloom-editable" lang="z"><p></p></div>
    <div class="bloom-editable" lang="en"><p>Good night.</p></div>
  </div>
</div>`

// writeBook creates book folder dir/name with name.htm document.
func writeBook(t *testing.T, dir, name, dataDiv string) string {
	t.Helper()
	folder := filepath.Join(dir, name)
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatal(err)
	}
	doc := `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"/><title>` + name + `</title></head>
<body>
` + dataDiv + `
` + samplePage + `
</body>
</html>`
	if err := os.WriteFile(filepath.Join(folder, name+".htm"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return folder
}

func loadBook(t *testing.T, folder string) *content.Document {
	t.Helper()
	path, err := findBook(folder)
	if err != nil {
		t.Fatalf("findBook: %v", err)
	}
	doc, err := content.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func TestFindBook(t *testing.T) {
	dir := t.TempDir()
	named := writeBook(t, dir, "Moon", sampleDataDiv)

	other := filepath.Join(dir, "Other")
	if err := os.MkdirAll(other, 0755); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(other, "book.htm")
	if err := os.WriteFile(single, []byte("<html/>"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		src     string
		want    string
		wantErr bool
	}{
		{"named after folder", named, filepath.Join(named, "Moon.htm"), false},
		{"only document", other, single, false},
		{"document itself", single, single, false},
		{"empty folder", t.TempDir(), "", true},
		{"missing", filepath.Join(dir, "nope"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findBook(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("findBook() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("findBook() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindBook_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.htm", "b.htm"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := findBook(dir); !errors.Is(err, ErrNoBook) {
		t.Errorf("expected ErrNoBook, got %v", err)
	}
	if _, err := findBook(filepath.Join(dir, "a.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportBook(t *testing.T) {
	ctx, env := setupTestEnv(t)
	log := env.Log.Named("convert")
	src := writeBook(t, t.TempDir(), "Moon", sampleDataDiv)
	dst := t.TempDir()

	to, err := exportBook(ctx, src, dst, log)
	if err != nil {
		t.Fatalf("exportBook: %v", err)
	}
	if want := filepath.Join(dst, "Moon", "Moon.xlsx"); to != want {
		t.Errorf("spreadsheet = %q, want %q", to, want)
	}
	grid, err := xlsx.Read(to, log)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	found := false
	for _, r := range grid.Rows() {
		if r.Key() == sheet.PageContentKey && strings.Contains(r.Get(sheet.LangTag("en")), "Good night.") {
			found = true
		}
	}
	if !found {
		t.Error("page text not exported")
	}

	t.Run("existing destination", func(t *testing.T) {
		if _, err := exportBook(ctx, src, dst, log); !errors.Is(err, exporter.ErrDestinationExists) {
			t.Errorf("expected ErrDestinationExists, got %v", err)
		}
	})
	t.Run("overwrite", func(t *testing.T) {
		env.Overwrite = true
		defer func() { env.Overwrite = false }()
		if _, err := exportBook(ctx, src, dst, log); err != nil {
			t.Errorf("exportBook with overwrite: %v", err)
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := exportBook(cctx, src, t.TempDir(), log); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestImportBook(t *testing.T) {
	ctx, env := setupTestEnv(t)
	log := env.Log.Named("convert")
	env.Cfg.Import.KeepBackup = true

	src := writeBook(t, t.TempDir(), "Moon", sampleDataDiv)
	to, err := exportBook(ctx, src, t.TempDir(), log)
	if err != nil {
		t.Fatalf("exportBook: %v", err)
	}

	grid, err := xlsx.Read(to, log)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for _, r := range grid.Rows() {
		if r.Key() == sheet.PageContentKey {
			r.Set(sheet.LangTag("en"), "Sleep well.")
		}
	}
	if err := xlsx.Write(to, grid, xlsx.Options{SheetName: env.Cfg.Export.WorksheetName}, log); err != nil {
		t.Fatalf("Write: %v", err)
	}

	diags, err := importBook(ctx, to, src, log)
	if err != nil {
		t.Fatalf("importBook: %v", err)
	}
	for _, d := range diags {
		t.Logf("diagnostic: %s", d.Message)
	}

	doc := loadBook(t, src)
	if got := content.TextContent(content.EditableInLang(content.TranslationGroups(doc.ContentPages()[0])[0], "en")); got != "Sleep well." {
		t.Errorf("imported text = %q", got)
	}
	backup, err := os.ReadFile(filepath.Join(src, "Moon.htm.bak"))
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if !strings.Contains(string(backup), "Good night.") {
		t.Error("backup should keep previous text")
	}

	t.Run("missing spreadsheet", func(t *testing.T) {
		if _, err := importBook(ctx, filepath.Join(t.TempDir(), "none.xlsx"), src, log); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDiagnosticLines(t *testing.T) {
	_, env := setupTestEnv(t)
	im, err := newImporter(env, env.Log)
	if err != nil {
		t.Fatalf("newImporter: %v", err)
	}
	if im == nil {
		t.Fatal("importer is nil")
	}

	src := writeBook(t, t.TempDir(), "Moon", sampleDataDiv)
	g := sheet.New()
	g.AddColumn(sheet.LangTag("en"), "", "")
	r := g.AddRow(sheet.PageContentKey)
	r.Set(sheet.PageNumberTag, "7")
	r.Set(sheet.LangTag("en"), "Lost")

	diags, err := im.Import(context.Background(), g, loadBook(t, src), t.TempDir())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	lines := diagnosticLines(diags)
	if len(lines) != len(diags) || len(lines) == 0 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "warning [PageNotFound] page 7 row 3: ") {
		t.Errorf("unexpected line %q", lines[0])
	}
}
