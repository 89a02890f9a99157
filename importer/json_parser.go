package importer

import (
	"encoding/json"
	"fmt"

	"resortadmin/normalization"
)

// ParseJSON разбирает JSON-файл импорта.
// Принимаются две формы: массив записей верхнего уровня либо объект
// со свойством-массивом "resorts" или "data".
func ParseJSON(data []byte) (*ParseResult, error) {
	var top interface{}
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	items, err := extractItems(top)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			result.Issues = append(result.Issues, ParseIssue{
				Row:    i + 1,
				Reason: fmt.Sprintf("expected object, got %T", item),
			})
			continue
		}

		record := make(normalization.RawRecord, len(obj))
		for key, value := range obj {
			record[key] = normalization.FromAny(value)
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// extractItems достает массив записей из поддерживаемых форм JSON
func extractItems(top interface{}) ([]interface{}, error) {
	switch v := top.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		for _, key := range []string{"resorts", "data"} {
			if arr, ok := v[key].([]interface{}); ok {
				return arr, nil
			}
		}
		return nil, fmt.Errorf("JSON object must contain a \"resorts\" or \"data\" array")
	}
	return nil, fmt.Errorf("unrecognized JSON shape: expected array or object")
}
