package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"sbc/sheet"
)

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func write(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageStatus(t *testing.T) {
	dir := t.TempDir()
	good := pngData(t)
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"good.png", good, ""},
		{"truncated.png", good[:len(good)/2], sheet.StatusBadImage},
		{"text.jpg", []byte("certainly not a picture"), sheet.StatusBadImage},
		{"drawing.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`), sheet.StatusCantDoSVG},
		{"broken.svg", []byte(`<svg><rect`), sheet.StatusBadImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, filepath.Join(dir, tt.name), tt.data)
			if got := ImageStatus(path); got != tt.want {
				t.Errorf("ImageStatus() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := ImageStatus(filepath.Join(dir, "absent.png")); got != sheet.StatusMissing {
		t.Errorf("missing file status = %q", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder("images/placeholder.PNG") || IsPlaceholder("cat.png") {
		t.Error("placeholder detection is wrong")
	}
}

func TestCopyFile_Missing(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "none.mp3"), filepath.Join(dir, "out", "none.mp3"))
	if !errors.Is(err, ErrMissingMediaFile) {
		t.Errorf("error = %v, want ErrMissingMediaFile", err)
	}
}

func TestCopier(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	write(t, filepath.Join(src, "a.png"), pngData(t))
	write(t, filepath.Join(src, "widget", "index.html"), []byte("<html></html>"))
	write(t, filepath.Join(src, "widget", "js", "app.js"), []byte("var x;"))

	c := NewCopier(context.Background(), 2, zaptest.NewLogger(t))
	c.File(filepath.Join(src, "a.png"), filepath.Join(dst, "images", "a.png"))
	c.File(filepath.Join(src, "a.png"), filepath.Join(dst, "images", "a.png"))
	c.Dir(filepath.Join(src, "widget"), filepath.Join(dst, "activities", "widget"))
	if err := c.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	for _, name := range []string{"images/a.png", "activities/widget/index.html", "activities/widget/js/app.js"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s was not copied: %v", name, err)
		}
	}

	c = NewCopier(context.Background(), 1, zaptest.NewLogger(t))
	c.File(filepath.Join(src, "nothing.png"), filepath.Join(dst, "nothing.png"))
	c.File(filepath.Join(src, "a.png"), filepath.Join(dst, "second", "a.png"))
	c.File(filepath.Join(src, "none.png"), filepath.Join(dst, "none.png"))
	err := c.Wait()
	if !errors.Is(err, ErrMissingMediaFile) {
		t.Errorf("Wait error = %v, want ErrMissingMediaFile", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d copy failures, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dst, "second", "a.png")); err != nil {
		t.Errorf("failure stopped other copies: %v", err)
	}
}

func TestWidgetFolder(t *testing.T) {
	tests := map[string]string{
		"activities/game/index.html":      "game",
		"activities/game/deep/index.html": "game",
		"activities/index.html":           "",
		"elsewhere/game/index.html":       "",
		"activities/../secret/index.html": "",
	}
	for src, want := range tests {
		if got := WidgetFolder(src); got != want {
			t.Errorf("WidgetFolder(%q) = %q, want %q", src, got, want)
		}
	}
}
