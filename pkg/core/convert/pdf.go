package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFConverter extracts text page by page. pdfcpu validates the file and
// supplies the page count; ledongthuc/pdf does the text extraction.
type PDFConverter struct{}

func (c *PDFConverter) Extensions() []string {
	return []string{"pdf"}
}

func (c *PDFConverter) Convert(_ context.Context, path string) (string, error) {
	// Validate the document first; ledongthuc/pdf chokes on damaged files
	// with opaque panics otherwise.
	pdfCtx, err := pdfapi.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open PDF: %w", err)
	}
	defer f.Close()

	if n := reader.NumPage(); n < pageCount {
		pageCount = n
	}

	var b strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			fmt.Fprintf(&b, "# Page %d\n\n(text extraction failed: %v)\n\n", i, err)
			continue
		}
		fmt.Fprintf(&b, "# Page %d\n\n%s\n\n", i, strings.TrimSpace(text))
	}

	return b.String(), nil
}
