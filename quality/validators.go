package quality

import (
	"fmt"
	"math"
	"unicode/utf8"

	"resortadmin/normalization"
)

// RowIssue результат проверки одного поля записи
type RowIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// terrainTolerance допустимое отклонение суммы процентов трасс от 100
const terrainTolerance = 5.0

// ValidateResort проверяет нормализованную запись курорта.
// Возвращает ошибки (блокируют строку) и предупреждения (блокируют push).
// Чистая функция: повторный вызов на той же записи дает тот же результат.
func ValidateResort(rec normalization.ResortRecord) (errors, warnings []RowIssue) {
	if rec.Name == "" {
		errors = append(errors, RowIssue{Field: "name", Message: "Name is required"})
	}

	if rec.Country == "" {
		errors = append(errors, RowIssue{Field: "country", Message: "Country is required"})
	}

	if rec.CountryCode == "" {
		errors = append(errors, RowIssue{Field: "country_code", Message: "Country code is required"})
	} else if utf8.RuneCountInString(rec.CountryCode) != 2 {
		errors = append(errors, RowIssue{
			Field:   "country_code",
			Message: fmt.Sprintf("Country code must be exactly 2 characters, got %q", rec.CountryCode),
		})
	}

	if !isFinite(rec.Lat) || rec.Lat < -90 || rec.Lat > 90 {
		errors = append(errors, RowIssue{Field: "lat", Message: "Latitude must be between -90 and 90"})
	}

	if !isFinite(rec.Lng) || rec.Lng < -180 || rec.Lng > 180 {
		errors = append(errors, RowIssue{Field: "lng", Message: "Longitude must be between -180 and 180"})
	}

	if issue, ok := checkTerrainPercentages(rec); ok {
		warnings = append(warnings, issue)
	}

	return errors, warnings
}

// checkTerrainPercentages проверяет сумму процентов трасс по сложности.
// Предупреждение выдается, когда хотя бы один из трех процентов задан и
// ненулевой, а сумма отклоняется от 100 больше чем на terrainTolerance.
func checkTerrainPercentages(rec normalization.ResortRecord) (RowIssue, bool) {
	beginner := pctOrZero(rec.BeginnerPct)
	intermediate := pctOrZero(rec.IntermediatePct)
	advanced := pctOrZero(rec.AdvancedPct)

	sum := beginner + intermediate + advanced
	if sum == 0 {
		return RowIssue{}, false
	}

	if math.Abs(sum-100) > terrainTolerance {
		return RowIssue{
			Field:   "terrain_pct",
			Message: fmt.Sprintf("Terrain percentages sum to %.0f, expected ~100", sum),
		}, true
	}

	return RowIssue{}, false
}

func pctOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
