package normalization

import (
	"encoding/json"
	"math"
)

// recordAlias разрывает рекурсию MarshalJSON/UnmarshalJSON
type recordAlias ResortRecord

// recordJSON сериализуемая форма записи: отсутствующие координаты
// представлены null вместо NaN, который JSON не допускает
type recordJSON struct {
	recordAlias
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// MarshalJSON сериализует запись, кодируя NaN-координаты как null
func (r ResortRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{recordAlias: recordAlias(r)}
	if !math.IsNaN(r.Lat) && !math.IsInf(r.Lat, 0) {
		lat := r.Lat
		out.Lat = &lat
	}
	if !math.IsNaN(r.Lng) && !math.IsInf(r.Lng, 0) {
		lng := r.Lng
		out.Lng = &lng
	}
	return json.Marshal(out)
}

// UnmarshalJSON разбирает запись, восстанавливая NaN для null-координат
func (r *ResortRecord) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = ResortRecord(in.recordAlias)
	r.Lat = math.NaN()
	r.Lng = math.NaN()
	if in.Lat != nil {
		r.Lat = *in.Lat
	}
	if in.Lng != nil {
		r.Lng = *in.Lng
	}
	return nil
}
