package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"resortadmin/normalization"
)

// exportColumns порядок колонок при экспорте
var exportColumns = []string{
	"name", "country", "country_code", "region", "lat", "lng",
	"elevation_base_m", "elevation_top_m", "vertical_drop_m",
	"piste_km", "lifts_count",
	"beginner_pct", "intermediate_pct", "advanced_pct",
	"season_open", "season_close",
	"night_skiing", "snowpark",
	"website", "description", "image_url",
}

// Export сериализует записи в выбранный формат
func Export(records []normalization.ResortRecord, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return exportCSV(records)
	case FormatJSON:
		return exportJSON(records)
	case FormatXLSX:
		return exportXLSX(records)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportCSV(records []normalization.ResortRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(exportColumns))
		data := normalization.ToMap(rec)
		for i, col := range exportColumns {
			row[i] = cellString(data[col])
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func exportJSON(records []normalization.ResortRecord) ([]byte, error) {
	items := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		items = append(items, normalization.ToMap(rec))
	}

	data, err := json.MarshalIndent(map[string]interface{}{"resorts": items}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON export: %w", err)
	}
	return data, nil
}

func exportXLSX(records []normalization.ResortRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, rec := range records {
		data := normalization.ToMap(rec)
		for colIdx, col := range exportColumns {
			value, ok := data[col]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

// cellString приводит значение экспорта к строке для CSV
func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
