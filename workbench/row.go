package workbench

import (
	"resortadmin/normalization"
	"resortadmin/quality"
)

// Status производный статус строки. Никогда не устанавливается напрямую,
// всегда пересчитывается редьюсером.
type Status string

const (
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusReady   Status = "ready"
	StatusSkipped Status = "skipped"
)

// MatchType результат последней сверки строки с базой
type MatchType string

const (
	MatchNone    MatchType = ""
	MatchNew     MatchType = "new"
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
)

// Action решение оператора по строке
type Action string

const (
	ActionNone   Action = ""
	ActionImport Action = "import"
	ActionMerge  Action = "merge"
	ActionSkip   Action = "skip"
)

// CompletenessScore заполненность строки по обогащающим полям
type CompletenessScore struct {
	Filled int `json:"filled"`
	Total  int `json:"total"`
}

// Row единица состояния сверки: одна распознанная строка импорта.
// Index — стабильная позиция в распарсенной партии, служит ключом.
type Row struct {
	Index             int                         `json:"index"`
	Data              normalization.ResortRecord  `json:"data"`
	OriginalData      normalization.ResortRecord  `json:"original_data"`
	Status            Status                      `json:"status"`
	Errors            []quality.RowIssue          `json:"errors"`
	Warnings          []quality.RowIssue          `json:"warnings"`
	Checked           bool                        `json:"checked"`
	MatchType         MatchType                   `json:"match_type"`
	MatchedResortID   string                      `json:"matched_resort_id,omitempty"`
	MatchedResortName string                      `json:"matched_resort_name,omitempty"`
	MatchSimilarity   float64                     `json:"match_similarity,omitempty"`
	MatchedData       *normalization.ResortRecord `json:"matched_data,omitempty"`
	Action            Action                      `json:"action"`
	Completeness      CompletenessScore           `json:"completeness"`
	IsDirty           bool                        `json:"is_dirty"`
}

// NewRow создает строку из только что нормализованной записи
func NewRow(index int, rec normalization.ResortRecord) Row {
	row := Row{
		Index:        index,
		Data:         rec,
		OriginalData: rec,
	}
	row.Errors, row.Warnings = quality.ValidateResort(rec)
	row.Completeness.Filled, row.Completeness.Total = normalization.Completeness(rec)
	row.Status = computeStatus(row)
	return row
}
