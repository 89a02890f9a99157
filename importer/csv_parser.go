package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"resortadmin/normalization"
)

// utf8BOM маркер порядка байт, который Excel дописывает в начало CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV разбирает CSV с обязательной строкой заголовков.
// Разделитель — запятая, экранирование кавычек — удвоением (RFC 4180).
// Файлы не в UTF-8 перекодируются из Windows-1251.
func ParseCSV(data []byte) (*ParseResult, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	// Выгрузки из старых систем приходят в Windows-1251
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("file is not valid UTF-8 and cp1251 decoding failed: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file: header row is required")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	result := &ParseResult{}

	// Строка 1 — заголовки, данные начинаются со строки 2
	rowNum := 1
	for {
		rowNum++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			reason := err.Error()
			if errors.As(err, &parseErr) {
				reason = parseErr.Err.Error()
			}
			result.Issues = append(result.Issues, ParseIssue{Row: rowNum, Reason: reason})
			continue
		}

		if isEmptyCSVRow(fields) {
			continue
		}

		record := make(normalization.RawRecord, len(headers))
		for i, header := range headers {
			if i >= len(fields) {
				break
			}
			record[header] = normalization.StringValue(fields[i])
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// isEmptyCSVRow проверяет, что все поля строки пустые
func isEmptyCSVRow(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
