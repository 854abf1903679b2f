package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "finsight/internal/errors"
)

// Load reads a tabular source file into a Table. The first row is treated as
// the header. Supported formats: comma-separated (.csv and anything else),
// tab-separated (.tsv, .tab), and Excel workbooks (.xlsx).
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".tsv", ".tab":
		return loadDelimited(path, '\t')
	default:
		return loadDelimited(path, ',')
	}
}

func loadDelimited(path string, delimiter rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open source table %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse source table %s", path), err)
	}
	return fromStringRows(records), nil
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s from %s", sheets[0], path), err)
	}
	return fromStringRows(rows), nil
}

// fromStringRows builds a table from raw text rows and infers numeric
// columns: a column where every non-empty cell parses as a number is stored
// as float64 so that downstream numeric-column detection works.
func fromStringRows(records [][]string) *Table {
	if len(records) == 0 {
		return NewTable(nil)
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = strings.TrimSpace(h)
	}

	table := NewTable(columns)
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				cell := strings.TrimSpace(record[i])
				if cell == "" {
					row[col] = nil
				} else {
					row[col] = cell
				}
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}

	inferNumericColumns(table)
	return table
}

func inferNumericColumns(t *Table) {
	for _, col := range t.Columns {
		numeric := false
		ok := true
		for _, row := range t.Rows {
			s, isStr := row[col].(string)
			if !isStr {
				continue
			}
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				ok = false
				break
			}
			numeric = true
		}
		if !ok || !numeric {
			continue
		}
		for _, row := range t.Rows {
			if s, isStr := row[col].(string); isStr {
				f, _ := strconv.ParseFloat(s, 64)
				row[col] = f
			}
		}
	}
}
