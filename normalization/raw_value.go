package normalization

import (
	"math"
	"strconv"
	"strings"
)

// RawKind тип исходного значения из импортируемого файла
type RawKind int

const (
	KindNull RawKind = iota
	KindString
	KindNumber
	KindBool
)

// RawValue значение поля из исходного файла (CSV/JSON/XLSX) до нормализации.
// Явный sum-тип вместо interface{}: каждое целевое поле имеет
// собственную функцию приведения типа.
type RawValue struct {
	Kind RawKind
	Str  string
	Num  float64
	Bool bool
}

// RawRecord одна исходная запись: сырые имена колонок -> значения
type RawRecord map[string]RawValue

// NullValue возвращает отсутствующее значение
func NullValue() RawValue {
	return RawValue{Kind: KindNull}
}

// StringValue создает строковое значение
func StringValue(s string) RawValue {
	return RawValue{Kind: KindString, Str: s}
}

// NumberValue создает числовое значение
func NumberValue(n float64) RawValue {
	return RawValue{Kind: KindNumber, Num: n}
}

// BoolValue создает булево значение
func BoolValue(b bool) RawValue {
	return RawValue{Kind: KindBool, Bool: b}
}

// FromAny преобразует значение после json.Unmarshal в RawValue
func FromAny(v interface{}) RawValue {
	switch val := v.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(val)
	case float64:
		return NumberValue(val)
	case int:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case bool:
		return BoolValue(val)
	default:
		return NullValue()
	}
}

// isAbsentToken проверяет строковые токены, означающие отсутствие значения
func isAbsentToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "undefined", "nil", "n/a", "na", "-":
		return true
	}
	return false
}

// IsAbsent возвращает true, если значение отсутствует
func (v RawValue) IsAbsent() bool {
	if v.Kind == KindNull {
		return true
	}
	if v.Kind == KindString && isAbsentToken(v.Str) {
		return true
	}
	return false
}

// AsString приводит значение к строке.
// Возвращает пустую строку для отсутствующих значений.
func (v RawValue) AsString() string {
	switch v.Kind {
	case KindString:
		if isAbsentToken(v.Str) {
			return ""
		}
		return strings.TrimSpace(v.Str)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return ""
}

// AsNumber приводит значение к числу.
// Возвращает (0, false) для отсутствующих и нечисловых значений.
// Числовые строки принимаются, в том числе с запятой как десятичным
// разделителем и с пробелами-разделителями тысяч.
func (v RawValue) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0, false
		}
		return v.Num, true
	case KindString:
		s := strings.TrimSpace(v.Str)
		if isAbsentToken(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsBool приводит значение к булеву.
// Строки "true"/"false", "yes"/"no", "1"/"0" распознаются независимо
// от регистра. Возвращает (false, false) если приведение невозможно.
func (v RawValue) AsBool() (bool, bool) {
	switch v.Kind {
	case KindBool:
		return v.Bool, true
	case KindNumber:
		return v.Num != 0, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
		return false, false
	}
	return false, false
}
