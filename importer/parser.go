package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resortadmin/normalization"
)

// ParseIssue ошибка разбора одной строки файла.
// Не фатальна: корректные строки все равно загружаются.
type ParseIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseResult результат разбора файла импорта
type ParseResult struct {
	Records []normalization.RawRecord `json:"records"`
	Issues  []ParseIssue              `json:"issues"`
}

// Format формат входного файла
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// DetectFormat определяет формат файла по расширению
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(filename))
}

// Parse разбирает содержимое файла импорта по имени файла и данным
func Parse(filename string, data []byte) (*ParseResult, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return ParseCSV(data)
	case FormatJSON:
		return ParseJSON(data)
	case FormatXLSX:
		return ParseXLSXBytes(data)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// ParseFile разбирает файл импорта с диска
func ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(filepath.Base(path), data)
}
