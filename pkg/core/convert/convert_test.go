package convert

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QueryType/bharattrader/pkg/config"
)

func testRegistry() *Registry {
	return NewRegistry(config.ConverterConfig{TesseractBinary: "tesseract"}, nil)
}

func TestRegistrySupported(t *testing.T) {
	r := testRegistry()

	for _, ext := range []string{"txt", "pdf", "docx", "pptx", "xlsx", "html", "htm", "png", "jpg", "jpeg"} {
		if !r.Supported(ext) {
			t.Errorf("extension %s should be supported", ext)
		}
	}
	for _, ext := range []string{"exe", "zip", "md", ""} {
		if r.Supported(ext) {
			t.Errorf("extension %s should not be supported", ext)
		}
	}
	// Case and dot prefix are normalized.
	if !r.Supported(".PDF") {
		t.Error("extension normalization failed")
	}
}

func TestRegistryConvertUnsupported(t *testing.T) {
	r := testRegistry()
	if _, err := r.Convert(context.Background(), "notes.xyz"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRegistryConvertWrapsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annual_report_2024.txt")
	if err := os.WriteFile(path, []byte("Revenue grew 12% year on year."), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := testRegistry().Convert(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# annual_report_2024\n") {
		t.Errorf("missing title heading:\n%s", out)
	}
	if !strings.Contains(out, "Source: "+path) {
		t.Error("missing source line")
	}
	if !strings.Contains(out, "Processed on: ") {
		t.Error("missing processed timestamp")
	}
	if !strings.Contains(out, "Revenue grew 12% year on year.") {
		t.Error("missing body")
	}
}

func TestTextConverterLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.txt")
	// 0xE9 is 'é' in Latin-1 and invalid as standalone UTF-8.
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := (&TextConverter{}).Convert(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "café" {
		t.Errorf("got %q", out)
	}
}

func writePptx(t *testing.T, path string, slides map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, text := range slides {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		xml := `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
			` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
			`<p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sld>`
		if _, err := w.Write([]byte(xml)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPptxConverter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "investor_deck.pptx")
	writePptx(t, path, map[string]string{
		"ppt/slides/slide2.xml":  "Margin outlook",
		"ppt/slides/slide1.xml":  "FY25 Highlights",
		"ppt/slides/slide10.xml": "Capex plan",
		"ppt/other/ignored.xml":  "not a slide",
	})

	out, err := (&PptxConverter{}).Convert(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	// Numeric slide order, not lexicographic.
	i1 := strings.Index(out, "# Slide 1\n")
	i2 := strings.Index(out, "# Slide 2\n")
	i10 := strings.Index(out, "# Slide 10\n")
	if i1 < 0 || i2 < 0 || i10 < 0 {
		t.Fatalf("missing slide sections:\n%s", out)
	}
	if !(i1 < i2 && i2 < i10) {
		t.Errorf("slides out of order:\n%s", out)
	}
	if !strings.Contains(out, "FY25 Highlights") || !strings.Contains(out, "Capex plan") {
		t.Error("slide text missing")
	}
	if strings.Contains(out, "not a slide") {
		t.Error("non-slide XML leaked into output")
	}
}

func TestPptxConverterNoSlides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pptx")
	writePptx(t, path, map[string]string{"docProps/app.xml": "meta"})

	if _, err := (&PptxConverter{}).Convert(context.Background(), path); err == nil {
		t.Error("expected error for a presentation without slides")
	}
}

func TestHTMLConverter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_article.html")
	html := `<html><head><title>Acme wins big order</title></head>` +
		`<body><h1>Order win</h1><p>Acme Ltd announced a <b>large</b> export order.</p></body></html>`
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := (&HTMLConverter{}).Convert(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "## Acme wins big order") {
		t.Errorf("title heading missing:\n%s", out)
	}
	if !strings.Contains(out, "export order") {
		t.Errorf("body text missing:\n%s", out)
	}
	if strings.Contains(out, "<p>") {
		t.Error("raw HTML leaked into markdown")
	}
}

func TestImageConverterWithoutVision(t *testing.T) {
	c := NewImageConverter("tesseract-definitely-missing", nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	if err := os.WriteFile(path, []byte("not really a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Convert(context.Background(), path); err == nil {
		t.Error("expected error when the OCR binary is missing")
	}
}
