package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoRows            = errors.New("no data rows found in file")
)

// ParseFile decodes the file at path into ordered row maps keyed by the
// header row, then drops every row without a date value. The header row is
// returned alongside for upload provenance.
//
// Only the first sheet of a workbook is read; extra sheets are ignored.
func ParseFile(path, ext string) ([]map[string]string, []string, error) {
	var (
		rows    []map[string]string
		headers []string
		err     error
	)

	switch ext {
	case "csv":
		rows, headers, err = parseCSV(path)
	case "xlsx", "xls":
		// TODO: legacy .xls is a BIFF binary and needs its own decoder;
		// excelize only reads OOXML, so a real .xls fails below.
		rows, headers, err = parseWorkbook(path)
	default:
		return nil, nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, nil, err
	}

	kept := rows[:0]
	for _, row := range rows {
		if hasDateValue(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, nil, ErrNoRows
	}
	return kept, headers, nil
}

func parseCSV(path string) ([]map[string]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := records[0]
	// Excel exports prefix the first header with a UTF-8 BOM
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	return mapRows(headers, records[1:]), headers, nil
}

func parseWorkbook(path string) ([]map[string]string, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("parse workbook: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	return mapRows(records[0], records[1:]), records[0], nil
}

func mapRows(headers []string, records [][]string) []map[string]string {
	var rows []map[string]string
	for _, record := range records {
		// Skip completely blank rows
		if len(record) == 0 || strings.Join(record, "") == "" {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func hasDateValue(row map[string]string) bool {
	for k, v := range row {
		lk := strings.ToLower(k)
		if (strings.Contains(lk, "fecha") || strings.Contains(lk, "date")) && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
