package normalization

import (
	"math"
	"strings"
)

// ResortRecord каноническая запись горнолыжного курорта.
// Обязательные поля всегда имеют значение (пустая строка / NaN для
// координат), необязательные отсутствующие поля представлены nil.
type ResortRecord struct {
	// Обязательные поля
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`

	// Необязательные строковые поля
	Region      *string `json:"region,omitempty"`
	Website     *string `json:"website,omitempty"`
	SeasonOpen  *string `json:"season_open,omitempty"`
	SeasonClose *string `json:"season_close,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`

	// Необязательные числовые поля
	ElevationBaseM  *float64 `json:"elevation_base_m,omitempty"`
	ElevationTopM   *float64 `json:"elevation_top_m,omitempty"`
	VerticalDropM   *float64 `json:"vertical_drop_m,omitempty"`
	PisteKm         *float64 `json:"piste_km,omitempty"`
	LiftsCount      *float64 `json:"lifts_count,omitempty"`
	BeginnerPct     *float64 `json:"beginner_pct,omitempty"`
	IntermediatePct *float64 `json:"intermediate_pct,omitempty"`
	AdvancedPct     *float64 `json:"advanced_pct,omitempty"`

	// Необязательные булевы поля
	NightSkiing *bool `json:"night_skiing,omitempty"`
	Snowpark    *bool `json:"snowpark,omitempty"`
}

// fieldAliases отображение сырых имен колонок на канонические поля.
// Все ключи в нижнем регистре; пробелы и дефисы в заголовках
// приводятся к подчеркиваниям перед поиском.
var fieldAliases = map[string]string{
	// name
	"name":        "name",
	"resort":      "name",
	"resort_name": "name",
	"title":       "name",

	// country
	"country":      "country",
	"country_name": "country",

	// country_code
	"country_code": "country_code",
	"code":         "country_code",
	"iso_code":     "country_code",
	"iso":          "country_code",

	// координаты
	"lat":       "lat",
	"latitude":  "lat",
	"lng":       "lng",
	"lon":       "lng",
	"long":      "lng",
	"longitude": "lng",

	// регион
	"region":   "region",
	"state":    "region",
	"province": "region",
	"area":     "region",

	// высоты
	"elevation_base_m": "elevation_base_m",
	"base_elevation_m": "elevation_base_m",
	"base_elevation":   "elevation_base_m",
	"base_m":           "elevation_base_m",
	"elevation_top_m":  "elevation_top_m",
	"top_elevation_m":  "elevation_top_m",
	"top_elevation":    "elevation_top_m",
	"summit_m":         "elevation_top_m",
	"summit":           "elevation_top_m",
	"vertical_drop_m":  "vertical_drop_m",
	"vertical_m":       "vertical_drop_m",
	"vertical_drop":    "vertical_drop_m",
	"vertical":         "vertical_drop_m",

	// трассы и подъемники
	"piste_km":  "piste_km",
	"runs_km":   "piste_km",
	"slopes_km": "piste_km",
	"ski_km":    "piste_km",
	"lifts_count": "lifts_count",
	"lifts":       "lifts_count",
	"num_lifts":   "lifts_count",
	"lift_count":  "lifts_count",

	// распределение трасс по сложности
	"beginner_pct":         "beginner_pct",
	"beginner_percent":     "beginner_pct",
	"green_pct":            "beginner_pct",
	"intermediate_pct":     "intermediate_pct",
	"intermediate_percent": "intermediate_pct",
	"blue_pct":             "intermediate_pct",
	"advanced_pct":         "advanced_pct",
	"advanced_percent":     "advanced_pct",
	"black_pct":            "advanced_pct",
	"expert_pct":           "advanced_pct",

	// сезон
	"season_open":  "season_open",
	"open_month":   "season_open",
	"season_start": "season_open",
	"season_close": "season_close",
	"close_month":  "season_close",
	"season_end":   "season_close",

	// прочее
	"website":      "website",
	"url":          "website",
	"site":         "website",
	"description":  "description",
	"desc":         "description",
	"image_url":    "image_url",
	"image":        "image_url",
	"photo_url":    "image_url",
	"night_skiing": "night_skiing",
	"night":        "night_skiing",
	"snowpark":     "snowpark",
	"snow_park":    "snowpark",
	"terrain_park": "snowpark",
}

// richnessFields фиксированный набор полей для оценки полноты записи
var richnessFields = []string{
	"region",
	"elevation_base_m",
	"elevation_top_m",
	"vertical_drop_m",
	"piste_km",
	"lifts_count",
	"beginner_pct",
	"intermediate_pct",
	"advanced_pct",
	"season_open",
	"season_close",
	"website",
	"image_url",
}

// CanonicalField возвращает каноническое имя поля для сырого заголовка
// и false, если заголовок не распознан
func CanonicalField(rawHeader string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(rawHeader))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	canonical, ok := fieldAliases[key]
	return canonical, ok
}

// Normalize преобразует сырую запись в каноническую форму.
// Чистая функция: повторный вызов на том же входе дает тот же результат.
func Normalize(raw RawRecord) ResortRecord {
	rec := ResortRecord{
		Lat: math.NaN(),
		Lng: math.NaN(),
	}

	for rawKey, value := range raw {
		field, ok := CanonicalField(rawKey)
		if !ok {
			continue
		}
		setField(&rec, field, value)
	}

	return rec
}

// SetField устанавливает одно каноническое поле записи из сырого значения.
// Используется нормализацией и точечным редактированием строк.
// Возвращает false, если имя поля не распознано.
func SetField(rec *ResortRecord, field string, value RawValue) bool {
	canonical, ok := CanonicalField(field)
	if !ok {
		return false
	}
	setField(rec, canonical, value)
	return true
}

func setField(rec *ResortRecord, field string, value RawValue) {
	switch field {
	case "name":
		rec.Name = value.AsString()
	case "country":
		rec.Country = value.AsString()
	case "country_code":
		code := value.AsString()
		if len([]rune(code)) == 2 {
			code = strings.ToUpper(code)
		}
		rec.CountryCode = code
	case "lat":
		rec.Lat = coerceCoordinate(value)
	case "lng":
		rec.Lng = coerceCoordinate(value)
	case "region":
		rec.Region = optString(value)
	case "website":
		rec.Website = optString(value)
	case "season_open":
		rec.SeasonOpen = optString(value)
	case "season_close":
		rec.SeasonClose = optString(value)
	case "description":
		rec.Description = optString(value)
	case "image_url":
		rec.ImageURL = optString(value)
	case "elevation_base_m":
		rec.ElevationBaseM = optNumber(value)
	case "elevation_top_m":
		rec.ElevationTopM = optNumber(value)
	case "vertical_drop_m":
		rec.VerticalDropM = optNumber(value)
	case "piste_km":
		rec.PisteKm = optNumber(value)
	case "lifts_count":
		rec.LiftsCount = optNumber(value)
	case "beginner_pct":
		rec.BeginnerPct = optNumber(value)
	case "intermediate_pct":
		rec.IntermediatePct = optNumber(value)
	case "advanced_pct":
		rec.AdvancedPct = optNumber(value)
	case "night_skiing":
		rec.NightSkiing = optBool(value)
	case "snowpark":
		rec.Snowpark = optBool(value)
	}
}

// coerceCoordinate приводит координату к числу или NaN если отсутствует
func coerceCoordinate(value RawValue) float64 {
	if n, ok := value.AsNumber(); ok {
		return n
	}
	return math.NaN()
}

func optString(value RawValue) *string {
	if value.IsAbsent() {
		return nil
	}
	s := value.AsString()
	if s == "" {
		return nil
	}
	return &s
}

func optNumber(value RawValue) *float64 {
	if value.IsAbsent() {
		return nil
	}
	n, ok := value.AsNumber()
	if !ok {
		return nil
	}
	return &n
}

func optBool(value RawValue) *bool {
	if value.IsAbsent() {
		return nil
	}
	b, ok := value.AsBool()
	if !ok {
		return nil
	}
	return &b
}

// Completeness подсчитывает заполненность записи по фиксированному
// набору "обогащающих" полей. total одинаков для всех записей.
func Completeness(rec ResortRecord) (filled, total int) {
	total = len(richnessFields)
	for _, field := range richnessFields {
		if fieldFilled(rec, field) {
			filled++
		}
	}
	return filled, total
}

func fieldFilled(rec ResortRecord, field string) bool {
	switch field {
	case "region":
		return rec.Region != nil
	case "elevation_base_m":
		return rec.ElevationBaseM != nil
	case "elevation_top_m":
		return rec.ElevationTopM != nil
	case "vertical_drop_m":
		return rec.VerticalDropM != nil
	case "piste_km":
		return rec.PisteKm != nil
	case "lifts_count":
		return rec.LiftsCount != nil
	case "beginner_pct":
		return rec.BeginnerPct != nil
	case "intermediate_pct":
		return rec.IntermediatePct != nil
	case "advanced_pct":
		return rec.AdvancedPct != nil
	case "season_open":
		return rec.SeasonOpen != nil
	case "season_close":
		return rec.SeasonClose != nil
	case "website":
		return rec.Website != nil
	case "image_url":
		return rec.ImageURL != nil
	}
	return false
}

// ToMap сериализует запись в map канонических полей.
// Отсутствующие необязательные поля не включаются.
func ToMap(rec ResortRecord) map[string]interface{} {
	m := map[string]interface{}{
		"name":         rec.Name,
		"country":      rec.Country,
		"country_code": rec.CountryCode,
	}
	if !math.IsNaN(rec.Lat) {
		m["lat"] = rec.Lat
	}
	if !math.IsNaN(rec.Lng) {
		m["lng"] = rec.Lng
	}

	putStr := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	putNum := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}
	putBool := func(key string, v *bool) {
		if v != nil {
			m[key] = *v
		}
	}

	putStr("region", rec.Region)
	putStr("website", rec.Website)
	putStr("season_open", rec.SeasonOpen)
	putStr("season_close", rec.SeasonClose)
	putStr("description", rec.Description)
	putStr("image_url", rec.ImageURL)
	putNum("elevation_base_m", rec.ElevationBaseM)
	putNum("elevation_top_m", rec.ElevationTopM)
	putNum("vertical_drop_m", rec.VerticalDropM)
	putNum("piste_km", rec.PisteKm)
	putNum("lifts_count", rec.LiftsCount)
	putNum("beginner_pct", rec.BeginnerPct)
	putNum("intermediate_pct", rec.IntermediatePct)
	putNum("advanced_pct", rec.AdvancedPct)
	putBool("night_skiing", rec.NightSkiing)
	putBool("snowpark", rec.Snowpark)

	return m
}

// FromMap восстанавливает каноническую запись из map канонических полей.
// Используется для existing_data из ответа сервиса сверки.
func FromMap(m map[string]interface{}) ResortRecord {
	raw := make(RawRecord, len(m))
	for k, v := range m {
		raw[k] = FromAny(v)
	}
	return Normalize(raw)
}
