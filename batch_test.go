package pagemd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// layoutDump returns a one-page layout dump with a single body line and,
// when img is non-empty, an image below it
func layoutDump(text string, img []byte) string {
	blocks := fmt.Sprintf(`{"type": 0, "bbox": [72, 100, 540, 115], "lines": [
		{"spans": [{"text": %q, "size": 12, "flags": 0, "font": "Helvetica"}]}]}`, text)
	if len(img) > 0 {
		blocks += fmt.Sprintf(`, {"type": 1, "bbox": [72, 200, 300, 400], "ext": "png", "image": %q}`,
			base64.StdEncoding.EncodeToString(img))
	}
	return `{"pages": [{"width": 612, "height": 792, "blocks": [` + blocks + `]}]}`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

// ============================================================================
// Batch Conversion Tests
// ============================================================================

func TestConvertPath_Directory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "01-alpha.json"), layoutDump("Alpha body.", pngBytes(t)))
	writeFile(t, filepath.Join(in, "02-beta.layout.json"), layoutDump("Beta body.", nil))
	writeFile(t, filepath.Join(in, "03-broken.pdf"), "not a pdf")
	writeFile(t, filepath.Join(in, "notes.txt"), "ignored")

	batch, err := NewConverter().ConvertPath(context.Background(), in, out)
	if err != nil {
		t.Fatalf("ConvertPath() error: %v", err)
	}

	if batch.Converted() != 2 {
		t.Fatalf("converted %d documents, want 2", batch.Converted())
	}
	if batch.Files[0].Output != filepath.Join(out, "01-alpha.md") {
		t.Errorf("first output = %s", batch.Files[0].Output)
	}

	want := "Alpha body.\n\n![01-alpha_p1_0.png](images/01-alpha_p1_0.png)\n"
	if got := readFile(t, filepath.Join(out, "01-alpha.md")); got != want {
		t.Errorf("01-alpha.md = %q, want %q", got, want)
	}
	if got := readFile(t, filepath.Join(out, "02-beta.md")); got != "Beta body.\n" {
		t.Errorf("02-beta.md = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "images", "01-alpha_p1_0.png")); err != nil {
		t.Errorf("image not written: %v", err)
	}

	if Count(batch.Warnings, WarningDecode) != 1 {
		t.Fatalf("expected one decode warning, got:\n%s", FormatWarnings(batch.Warnings))
	}
	for _, w := range batch.Warnings {
		if w.Source == "" {
			t.Errorf("warning without source: %s", w)
		}
		if w.Kind == WarningDecode {
			var de *DecodeError
			if !errors.As(w.Err, &de) || filepath.Base(de.Path) != "03-broken.pdf" {
				t.Errorf("decode warning = %v, want DecodeError for 03-broken.pdf", w.Err)
			}
		}
	}
}

func TestConvertPath_DefaultOutputBesideInput(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "guide.json")
	writeFile(t, src, layoutDump("Guide body.", nil))

	batch, err := NewConverter().ConvertPath(context.Background(), src, "")
	if err != nil {
		t.Fatal(err)
	}
	if batch.Files[0].Output != filepath.Join(in, "guide.md") {
		t.Errorf("output = %s", batch.Files[0].Output)
	}
	if got := readFile(t, filepath.Join(in, "guide.md")); got != "Guide body.\n" {
		t.Errorf("guide.md = %q", got)
	}
}

func TestConvertPath_ExplicitOutputFile(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "custom.md")
	src := filepath.Join(in, "guide.json")
	writeFile(t, src, layoutDump("Guide body.", nil))

	if _, err := NewConverter().ConvertPath(context.Background(), src, out); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, out); got != "Guide body.\n" {
		t.Errorf("custom.md = %q", got)
	}
}

func TestConvertPath_NoSources(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dir string) string
	}{
		{"empty directory", func(dir string) string { return dir }},
		{"missing path", func(dir string) string { return filepath.Join(dir, "missing.pdf") }},
		{"only unreadable files", func(dir string) string {
			writeFile(t, filepath.Join(dir, "bad.pdf"), "garbage")
			return dir
		}},
		{"unsupported single file", func(dir string) string {
			p := filepath.Join(dir, "notes.txt")
			writeFile(t, p, "plain text")
			return p
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.setup(t.TempDir())
			_, err := NewConverter().ConvertPath(context.Background(), input, t.TempDir())
			if !errors.Is(err, ErrNoSources) {
				t.Errorf("err = %v, want ErrNoSources", err)
			}
		})
	}
}

func TestConvertPath_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.json"), layoutDump("A.", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := NewConverter().ConvertPath(ctx, in, t.TempDir())
	if !IsCancelled(err) {
		t.Errorf("err = %v, want cancellation", err)
	}
	if batch == nil || batch.Converted() != 0 {
		t.Errorf("batch = %+v, want empty", batch)
	}
}
