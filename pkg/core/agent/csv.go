package agent

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/QueryType/bharattrader/pkg/models"
)

// LoadBusinesses reads the turnaround CSV. The file must have a header row
// with a Name column; BSE Code and NSE Code columns are optional and may be
// empty per row.
func LoadBusinesses(path string) ([]models.Business, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("the financial data file %s does not exist: %w", path, err)
	}
	defer f.Close()

	return ParseBusinesses(f)
}

// ParseBusinesses parses CSV content with header-based column mapping.
func ParseBusinesses(r io.Reader) ([]models.Business, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows may omit trailing columns
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("CSV has no Name column")
	}
	bseIdx, hasBSE := cols["bse code"]
	nseIdx, hasNSE := cols["nse code"]

	field := func(record []string, idx int, present bool) string {
		if !present || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var businesses []models.Business
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV row: %w", err)
		}
		name := field(record, nameIdx, true)
		if name == "" {
			continue
		}
		businesses = append(businesses, models.Business{
			Name:    name,
			BSECode: field(record, bseIdx, hasBSE),
			NSECode: field(record, nseIdx, hasNSE),
		})
	}

	if len(businesses) == 0 {
		return nil, fmt.Errorf("CSV contains no businesses")
	}
	return businesses, nil
}
