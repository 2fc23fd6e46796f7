package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxConverter renders every sheet of a workbook as a markdown table
// under a `## Sheet: <name>` heading.
type XlsxConverter struct{}

func (c *XlsxConverter) Extensions() []string {
	return []string{"xlsx", "xls"}
}

func (c *XlsxConverter) Convert(_ context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("sheet %s: %w", sheet, err)
		}
		sections = append(sections, fmt.Sprintf("## Sheet: %s\n\n%s", sheet, rowsToMarkdown(rows)))
	}
	if len(sections) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	return strings.Join(sections, "\n\n---\n\n"), nil
}

// rowsToMarkdown converts a rectangularized cell grid into a markdown
// table with the first row as header.
func rowsToMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return "(empty sheet)"
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return "(empty sheet)"
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = strings.ReplaceAll(row[i], "|", "\\|")
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}

	return strings.TrimRight(b.String(), "\n")
}
