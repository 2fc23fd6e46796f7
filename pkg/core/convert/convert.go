// Package convert turns company source files into markdown. Each supported
// extension maps to exactly one converter; all heavy lifting is delegated
// to format libraries, the tesseract binary, or the vision model.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/llm"
)

// Converter extracts markdown text from one family of file formats.
type Converter interface {
	// Extensions lists the lower-cased extensions (without dot) this
	// converter owns.
	Extensions() []string
	// Convert produces the markdown body for the file.
	Convert(ctx context.Context, path string) (string, error)
}

// Registry dispatches files to converters by extension.
type Registry struct {
	byExt map[string]Converter
}

// NewRegistry wires every converter. vision may be nil; the image converter
// then degrades to OCR-only output.
func NewRegistry(cfg config.ConverterConfig, vision llm.VisionProvider) *Registry {
	r := &Registry{byExt: make(map[string]Converter)}
	r.register(&TextConverter{})
	r.register(&PDFConverter{})
	r.register(&DocxConverter{})
	r.register(&PptxConverter{})
	r.register(&XlsxConverter{})
	r.register(&HTMLConverter{})
	r.register(NewImageConverter(cfg.TesseractBinary, vision))
	return r
}

func (r *Registry) register(c Converter) {
	for _, ext := range c.Extensions() {
		r.byExt[ext] = c
	}
}

// Supported reports whether files with this extension can be converted.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// SupportedExtensions returns the sorted extension list, for help output.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Convert dispatches path to its converter and wraps the extracted body
// with the standard document header.
func (r *Registry) Convert(ctx context.Context, path string) (string, error) {
	ext := normalizeExt(filepath.Ext(path))
	conv, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}

	body, err := conv.Convert(ctx, path)
	if err != nil {
		return "", fmt.Errorf("conversion failed for %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stem)
	fmt.Fprintf(&b, "Source: %s\n", path)
	fmt.Fprintf(&b, "Processed on: %s\n\n---\n\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(body)
	return b.String(), nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
