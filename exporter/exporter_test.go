package exporter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"sbc/common"
	"sbc/config"
	"sbc/content"
	"sbc/markup"
	"sbc/sheet"
	"sbc/sheet/xlsx"
)

const bookHead = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"/><title>Moon</title></head>
<body>
<div id="bloomDataDiv">
  <div data-book="bookTitle" lang="en"><p>The Moon</p></div>
  <div data-book="bookTitle" lang="fr"><p>La Lune</p></div>
  <div data-book="bookTitle" lang="z"><p>template</p></div>
  <div data-book="topic" lang="en">Story Book</div>
  <div data-book="ISBN" lang="*">978-3-16</div>
  <div data-book="coverImage" lang="*" src="other.png">moon.png</div>
  <div data-book="branding" lang="*">logo</div>
  <div data-book="licenseImage" lang="*">license.png</div>
</div>
<div class="bloom-page cover bloom-frontMatter" id="fc" data-page-number="">
  <div class="bloom-translationGroup"><div class="bloom-editable" lang="en"><p>Front</p></div></div>
</div>
<div class="bloom-page numberedPage" id="p1" data-page-number="1">
  <div class="pageLabel" lang="en">Basic Text &amp; Picture</div>
  <div class="bloom-imageContainer"><img src="moon.png" alt=""/>
    <div class="bloom-translationGroup bloom-imageDescription">
      <div class="bloom-editable" lang="en"><p>Full moon</p></div>
    </div>
  </div>
  <div class="bloom-translationGroup">
    <div class="bloom-editable" lang="z"><p></p></div>
    <div class="bloom-editable" lang="en"><p>One`

const bookTail = `two</p></div>
    <div class="bloom-editable" lang="fr"><p>Un deux</p></div>
  </div>
</div>
<div class="bloom-page numberedPage" id="p2" data-page-number="2">
  <div class="pageLabel" lang="en">Just Text</div>
  <div class="bloom-translationGroup">
    <div class="bloom-editable audio-sentence" lang="en" id="a1" data-audiorecordingmode="TextBox" data-duration="3.5" data-audiorecordingendtimes="1.2 3.5"><p>Hello there. Bye.</p></div>
    <div class="bloom-editable" lang="fr"><p> </p></div>
  </div>
</div>
<div class="bloom-page numberedPage simple-comprehension-quiz" id="p3" data-page-number="3">
  <div class="bloom-translationGroup"><div class="bloom-editable" lang="en"><p>Is it round?</p></div></div>
  <div class="checkbox-and-textbox-choice">
    <div class="bloom-translationGroup"><div class="bloom-editable" lang="en"><p>No</p></div></div>
  </div>
  <div class="checkbox-and-textbox-choice correct-answer">
    <div class="bloom-translationGroup"><div class="bloom-editable" lang="en"><p>Yes</p></div></div>
  </div>
  <div class="bloom-translationGroup">
    <div class="bloom-editable" lang="en" data-audiorecordingmode="Sentence"><p><span id="s1" class="audio-sentence">One.</span> <span id="s2" class="audio-sentence">Two.</span></p></div>
  </div>
</div>
<div class="bloom-page numberedPage" id="p4" data-page-number="4">
  <div class="bloom-imageContainer"><img src="gone.png" alt=""/></div>
  <div class="bloom-imageContainer"><img src="placeHolder.png" alt=""/></div>
  <div class="bloom-videoContainer"><video><source src="video/clip%201.mp4"/></video></div>
  <div class="bloom-widgetContainer"><iframe src="activities/ball%20game/pages/index.html"></iframe></div>
</div>
<div class="bloom-page bloom-backMatter" id="bc" data-xmatter-page="backCover"></div>
</body>
</html>`

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func write(t *testing.T, name string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// makeBook writes book folder with media and returns loaded document.
func makeBook(t *testing.T) *content.Document {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Moon")
	write(t, filepath.Join(dir, "Moon.htm"), []byte(bookHead+markup.SplitMarkerSpan+bookTail))
	write(t, filepath.Join(dir, "moon.png"), pngData(t))
	write(t, filepath.Join(dir, "audio", "a1.mp3"), []byte("ID3"))
	write(t, filepath.Join(dir, "audio", "s1.mp3"), []byte("ID3"))
	write(t, filepath.Join(dir, "video", "clip 1.mp4"), []byte("mp4"))
	write(t, filepath.Join(dir, "activities", "ball game", "pages", "index.html"), []byte("<html/>"))
	write(t, filepath.Join(dir, "activities", "ball game", "ball.js"), []byte("var b;"))
	doc, err := content.Load(filepath.Join(dir, "Moon.htm"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func testConfig() *config.ExportConfig {
	return &config.ExportConfig{
		WorksheetName: "BloomBook",
		MetadataKeys:  []string{"bookTitle", "coverImage", "ISBN", "branding"},
		CopyWorkers:   2,
	}
}

func pageRows(g *sheet.Grid) []*sheet.Row {
	var rows []*sheet.Row
	for _, r := range g.Rows() {
		if r.Type() == sheet.RowPageContent {
			rows = append(rows, r)
		}
	}
	return rows
}

func TestExport_PageRows(t *testing.T) {
	doc := makeBook(t)
	g, _, err := New(testConfig(), zaptest.NewLogger(t)).Export(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	type want struct {
		page, index, pageType string
	}
	expected := []want{
		{"1", "1", "Basic Text & Picture"},
		{"1", "2", ""},
		{"2", "1", "Just Text"},
		{"3", "1", ""}, {"3", "2", ""}, {"3", "3", ""}, {"3", "4", ""},
		{"4", "1", ""}, {"4", "2", ""}, {"4", "3", ""}, {"4", "4", ""},
	}
	rows := pageRows(g)
	if len(rows) != len(expected) {
		t.Fatalf("got %d page rows, want %d:\n%s", len(rows), len(expected), g.Dump())
	}
	for i, w := range expected {
		r := rows[i]
		got := want{r.Get(sheet.PageNumberTag), r.Get(sheet.TextIndexTag), r.Get(sheet.PageTypeTag)}
		if got != w {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
	}

	t.Run("image and description", func(t *testing.T) {
		if got := rows[0].Get(sheet.ImageSourceTag); got != "images/moon.png" {
			t.Errorf("image source = %q", got)
		}
		if got := rows[0].Get(sheet.ImageThumbnailTag); got != "" {
			t.Errorf("good image has status %q", got)
		}
		i := slices.Index(g.Rows(), rows[0])
		desc := g.Rows()[i+1]
		if desc.Key() != sheet.ImageDescriptionKey || desc.Get(sheet.LangTag("en")) != "<p>Full moon</p>" {
			t.Errorf("description row = %q %q", desc.Key(), desc.Get(sheet.LangTag("en")))
		}
	})

	t.Run("text", func(t *testing.T) {
		if got := rows[1].Get(sheet.LangTag("en")); got != "<p>One|two</p>" {
			t.Errorf("en = %q", got)
		}
		if got := rows[1].Get(sheet.LangTag("fr")); got != "<p>Un deux</p>" {
			t.Errorf("fr = %q", got)
		}
		if _, ok := g.ColumnFor(sheet.LangTag(content.TemplateLang)); ok {
			t.Error("template language must not be exported")
		}
		if got := rows[2].Get(sheet.LangTag("fr")); got != sheet.BlankMarker {
			t.Errorf("whitespace only text = %q, want blank marker", got)
		}
	})

	t.Run("audio", func(t *testing.T) {
		if got := rows[2].Get(sheet.AudioTag("en")); got != "./audio/a1.mp3" {
			t.Errorf("text box audio = %q", got)
		}
		if got := rows[2].Get(sheet.AlignmentTag("en")); got != "1.2 3.5" {
			t.Errorf("alignment = %q", got)
		}
		if got := rows[6].Get(sheet.AudioTag("en")); got != "./audio/s1.mp3, missing" {
			t.Errorf("sentence audio = %q", got)
		}
		if got := rows[6].Get(sheet.AlignmentTag("en")); got != "" {
			t.Errorf("sentence audio must not have alignment, got %q", got)
		}
	})

	t.Run("quiz", func(t *testing.T) {
		for i, want := range []string{"", "", correctAnswerAttribute, ""} {
			if got := rows[3+i].Get(sheet.AttributeDataTag); got != want {
				t.Errorf("answer %d attribute = %q, want %q", i, got, want)
			}
		}
	})

	t.Run("media", func(t *testing.T) {
		if got := rows[7].Get(sheet.ImageThumbnailTag); got != sheet.StatusMissing {
			t.Errorf("missing image status = %q", got)
		}
		if got := rows[8].Get(sheet.ImageSourceTag); got != sheet.BlankMarker {
			t.Errorf("placeholder = %q", got)
		}
		if got := rows[9].Get(sheet.VideoSourceTag); got != "video/clip 1.mp4" {
			t.Errorf("video = %q", got)
		}
		if got := rows[10].Get(sheet.WidgetSourceTag); got != "activities/ball game/pages/index.html" {
			t.Errorf("widget = %q", got)
		}
	})

	t.Run("shading", func(t *testing.T) {
		for _, r := range rows {
			shaded := r.Get(sheet.PageNumberTag) == "2" || r.Get(sheet.PageNumberTag) == "4"
			if r.Shaded != shaded {
				t.Errorf("page %s row shaded = %v", r.Get(sheet.PageNumberTag), r.Shaded)
			}
		}
	})
}

func TestExport_Metadata(t *testing.T) {
	doc := makeBook(t)
	g, diags, err := New(testConfig(), zaptest.NewLogger(t)).Export(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var keys []string
	for _, r := range g.Rows() {
		if r.Type() == sheet.RowMetadata {
			keys = append(keys, r.Key())
		}
	}
	if want := []string{"[bookTitle]", "[coverImage]", "[ISBN]"}; !slices.Equal(keys, want) {
		t.Errorf("metadata rows = %v, want %v", keys, want)
	}
	rows := g.Rows()
	if rows[0].Hidden || rows[1].Hidden {
		t.Error("title and cover must be visible")
	}
	last := rows[len(rows)-1]
	if last.Key() != "[ISBN]" || !last.Hidden || last.Get(sheet.WildcardTag) != "978-3-16" {
		t.Errorf("last row = %q hidden %v %q", last.Key(), last.Hidden, last.Get(sheet.WildcardTag))
	}
	if got := rows[0].Get(sheet.LangTag("fr")); got != "<p>La Lune</p>" {
		t.Errorf("title fr = %q", got)
	}
	if got := rows[1].Get(sheet.ImageSourceTag); got != "images/moon.png" {
		t.Errorf("cover = %q", got)
	}

	var conflict, missing bool
	for _, d := range diags {
		conflict = conflict || strings.Contains(d.Message, "differing 'src' attribute") && d.Kind == common.DiagnosticKindExportWarning
		missing = missing || strings.Contains(d.Message, "gone.png") && d.Kind == common.DiagnosticKindMissingMediaFile && d.Page == "4"
	}
	if !conflict || !missing {
		t.Errorf("expected conflict and missing image warnings, got %v", diags)
	}
}

func TestExport_AllMetadata(t *testing.T) {
	cfg := testConfig()
	cfg.MetadataKeys = []string{"*"}
	g, _, err := New(cfg, zaptest.NewLogger(t)).Export(context.Background(), makeBook(t), "")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range g.Rows() {
		switch r.Key() {
		case "[topic]":
			found = true
		case "[branding]", "[licenseImage]":
			t.Errorf("%s must never be exported", r.Key())
		}
	}
	if !found {
		t.Error("wildcard allow-list must export topic")
	}
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := New(testConfig(), zaptest.NewLogger(t)).Export(ctx, makeBook(t), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestExportToFolder(t *testing.T) {
	doc := makeBook(t)
	out := filepath.Join(t.TempDir(), "Moon export")

	path, g, _, err := New(testConfig(), zaptest.NewLogger(t)).ExportToFolder(context.Background(), doc, out, false)
	if err != nil {
		t.Fatalf("ExportToFolder: %v", err)
	}
	if path != filepath.Join(out, "Moon export.xlsx") {
		t.Errorf("spreadsheet path = %s", path)
	}
	for _, name := range []string{
		"images/moon.png",
		"audio/a1.mp3",
		"audio/s1.mp3",
		"video/clip 1.mp4",
		"activities/ball game/pages/index.html",
		"activities/ball game/ball.js",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s not copied: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "images", "placeHolder.png")); err == nil {
		t.Error("placeholder must not be copied")
	}

	read, err := xlsx.Read(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(read.Rows()) != len(g.Rows()) {
		t.Errorf("spreadsheet has %d rows, grid %d", len(read.Rows()), len(g.Rows()))
	}

	t.Run("exists", func(t *testing.T) {
		_, _, _, err := New(testConfig(), zaptest.NewLogger(t)).ExportToFolder(context.Background(), doc, out, false)
		if !errors.Is(err, ErrDestinationExists) {
			t.Errorf("error = %v, want ErrDestinationExists", err)
		}
	})
	t.Run("overwrite", func(t *testing.T) {
		stale := filepath.Join(out, "stale.txt")
		write(t, stale, []byte("x"))
		if _, _, _, err := New(testConfig(), zaptest.NewLogger(t)).ExportToFolder(context.Background(), doc, out, true); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		if _, err := os.Stat(stale); err == nil {
			t.Error("previous export was not removed")
		}
	})
	t.Run("book folder", func(t *testing.T) {
		_, _, _, err := New(testConfig(), zaptest.NewLogger(t)).ExportToFolder(context.Background(), doc, doc.Dir(), true)
		if !errors.Is(err, ErrBookFolder) {
			t.Errorf("error = %v, want ErrBookFolder", err)
		}
	})
}

func TestExportToFolder_LineBreak(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Night")
	page := `<div class="bloom-page numberedPage" id="p1" data-page-number="1">
  <div class="bloom-translationGroup">
    <div class="bloom-editable" lang="en"><p>first<span class="bloom-linebreak"></span>` + "\uFEFF" + `second</p></div>
  </div>
</div>`
	write(t, filepath.Join(dir, "Night.htm"), []byte(`<!DOCTYPE html>
<html><head><title>Night</title></head><body>
<div id="bloomDataDiv"></div>
`+page+`
</body></html>`))
	doc, err := content.Load(filepath.Join(dir, "Night.htm"))
	if err != nil {
		t.Fatal(err)
	}

	path, _, _, err := New(testConfig(), zaptest.NewLogger(t)).ExportToFolder(context.Background(), doc, filepath.Join(t.TempDir(), "out"), false)
	if err != nil {
		t.Fatalf("ExportToFolder: %v", err)
	}
	g, err := xlsx.Read(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rows := pageRows(g)
	if len(rows) != 1 {
		t.Fatalf("got %d page rows", len(rows))
	}
	cell := rows[0].Get(sheet.LangTag("en"))
	if want := `<p>first<span class="bloom-linebreak"></span>` + "\uFEFF" + `second</p>`; cell != want {
		t.Errorf("cell = %q, want %q", cell, want)
	}
	if got := markup.Parse(cell).PlainText(); got != "first\n\uFEFFsecond" {
		t.Errorf("plain text = %q", got)
	}
}
