package importer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"resortadmin/normalization"
)

// ParseXLSXBytes разбирает XLSX-файл импорта.
// Используется первый лист; первая строка — заголовки.
func ParseXLSXBytes(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: header row is required")
	}

	headers := rows[0]
	result := &ParseResult{}

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isEmptyCSVRow(row) {
			continue
		}

		record := make(normalization.RawRecord, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			record[header] = normalization.StringValue(row[i])
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// ParseXLSXFile разбирает XLSX-файл с диска
func ParseXLSXFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseXLSXBytes(data)
}
