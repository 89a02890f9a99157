package normalization

import (
	"math"
	"testing"
)

func TestRawValueIsAbsent(t *testing.T) {
	tests := []struct {
		name   string
		value  RawValue
		absent bool
	}{
		{"null", NullValue(), true},
		{"empty string", StringValue(""), true},
		{"whitespace", StringValue("   "), true},
		{"null token", StringValue("null"), true},
		{"undefined token", StringValue("UNDEFINED"), true},
		{"n/a token", StringValue("N/A"), true},
		{"dash token", StringValue("-"), true},
		{"real string", StringValue("Chamonix"), false},
		{"zero number", NumberValue(0), false},
		{"false bool", BoolValue(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsAbsent(); got != tt.absent {
				t.Errorf("IsAbsent() = %v, want %v", got, tt.absent)
			}
		})
	}
}

func TestRawValueAsNumber(t *testing.T) {
	tests := []struct {
		name  string
		value RawValue
		want  float64
		ok    bool
	}{
		{"plain number", NumberValue(42.5), 42.5, true},
		{"numeric string", StringValue("1200"), 1200, true},
		{"decimal comma", StringValue("45,95"), 45.95, true},
		{"thousand spaces", StringValue("3 842"), 3842, true},
		{"negative", StringValue("-12.3"), -12.3, true},
		{"nan number", NumberValue(math.NaN()), 0, false},
		{"non-numeric string", StringValue("abc"), 0, false},
		{"empty string", StringValue(""), 0, false},
		{"null", NullValue(), 0, false},
		{"bool true", BoolValue(true), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.AsNumber()
			if ok != tt.ok {
				t.Fatalf("AsNumber() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AsNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRawValueAsBool(t *testing.T) {
	tests := []struct {
		name  string
		value RawValue
		want  bool
		ok    bool
	}{
		{"bool", BoolValue(true), true, true},
		{"yes", StringValue("yes"), true, true},
		{"Y", StringValue("Y"), true, true},
		{"one", StringValue("1"), true, true},
		{"no", StringValue("no"), false, true},
		{"FALSE", StringValue("FALSE"), false, true},
		{"number nonzero", NumberValue(2), true, true},
		{"number zero", NumberValue(0), false, true},
		{"garbage", StringValue("maybe"), false, false},
		{"null", NullValue(), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.AsBool()
			if ok != tt.ok {
				t.Fatalf("AsBool() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	if v := FromAny(nil); v.Kind != KindNull {
		t.Errorf("FromAny(nil).Kind = %v, want KindNull", v.Kind)
	}
	if v := FromAny("text"); v.Kind != KindString || v.Str != "text" {
		t.Errorf("FromAny(string) = %+v", v)
	}
	if v := FromAny(3.14); v.Kind != KindNumber || v.Num != 3.14 {
		t.Errorf("FromAny(float64) = %+v", v)
	}
	if v := FromAny(true); v.Kind != KindBool || !v.Bool {
		t.Errorf("FromAny(bool) = %+v", v)
	}
	// Неизвестные типы превращаются в отсутствие значения
	if v := FromAny([]string{"x"}); v.Kind != KindNull {
		t.Errorf("FromAny(slice).Kind = %v, want KindNull", v.Kind)
	}
}
