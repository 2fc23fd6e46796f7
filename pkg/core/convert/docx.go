package convert

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DocxConverter reads Word documents through nguyenthenguyen/docx and
// flattens the WordprocessingML into paragraphs. Table cells are kept on
// the row with ` | ` separators.
type DocxConverter struct{}

func (c *DocxConverter) Extensions() []string {
	return []string{"docx"}
}

func (c *DocxConverter) Convert(_ context.Context, path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("could not open DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	text := stripWordXML(content)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("DOCX contained no extractable text")
	}
	return text, nil
}

// stripWordXML walks document.xml, keeping character data and turning
// paragraph/row boundaries into newlines and table cells into pipes.
func stripWordXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var b strings.Builder
	inRow := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				inRow = true
				b.WriteString("| ")
			}
		case xml.CharData:
			b.WriteString(string(t))
		case xml.EndElement:
			switch t.Name.Local {
			case "tc":
				if inRow {
					b.WriteString(" | ")
				}
			case "tr":
				inRow = false
				b.WriteString("\n")
			case "p", "br":
				if !inRow && b.Len() > 0 {
					b.WriteString("\n\n")
				}
			}
		}
	}
	return strings.TrimSpace(b.String())
}
