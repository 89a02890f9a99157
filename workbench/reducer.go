package workbench

import (
	"resortadmin/normalization"
	"resortadmin/quality"
)

// Event событие, изменяющее состояние строки.
// Таймеров и неявных переходов нет: только правка поля, результат
// сверки и смена решения оператора.
type Event interface {
	isEvent()
}

// EditField правка одного поля строки
type EditField struct {
	Field string
	Value normalization.RawValue
}

// MatchResult результат успешной сверки строки с базой
type MatchResult struct {
	Type              MatchType
	MatchedResortID   string
	MatchedResortName string
	Similarity        float64
	MatchedData       *normalization.ResortRecord
}

// SetAction смена решения оператора. ActionNone снимает решение,
// строка возвращается к статусу, который следует из остальных полей.
type SetAction struct {
	Action Action
}

func (EditField) isEvent()   {}
func (MatchResult) isEvent() {}
func (SetAction) isEvent()   {}

// Reduce применяет событие к строке и возвращает новую строку с
// пересчитанным статусом. Чистая функция: статус всегда выводится из
// нового состояния, вручную он нигде не поддерживается.
func Reduce(row Row, ev Event) Row {
	switch e := ev.(type) {
	case EditField:
		// Правка не сбрасывает checked и результат сверки: оператор
		// видит контекст найденного дубля, но строка помечается
		// устаревшей до повторной сверки.
		normalization.SetField(&row.Data, e.Field, e.Value)
		row.IsDirty = true
		row.Errors, row.Warnings = quality.ValidateResort(row.Data)
		row.Completeness.Filled, row.Completeness.Total = normalization.Completeness(row.Data)

	case MatchResult:
		row.Checked = true
		row.IsDirty = false
		row.MatchType = e.Type
		row.MatchedResortID = e.MatchedResortID
		row.MatchedResortName = e.MatchedResortName
		row.MatchSimilarity = e.Similarity
		row.MatchedData = e.MatchedData
		// Единственное автоматическое решение: для новых записей
		// по умолчанию выбирается импорт. exact/similar требуют
		// явного выбора оператора.
		if e.Type == MatchNew && row.Action == ActionNone {
			row.Action = ActionImport
		}

	case SetAction:
		row.Action = e.Action
	}

	row.Status = computeStatus(row)
	return row
}

// computeStatus выводит статус строки из ее состояния.
// Порядок приоритета фиксирован: skip -> error -> warning -> ready.
func computeStatus(row Row) Status {
	if row.Action == ActionSkip {
		return StatusSkipped
	}
	if len(row.Errors) > 0 {
		return StatusError
	}
	// Найден дубль, решение не принято
	if row.Checked && (row.MatchType == MatchExact || row.MatchType == MatchSimilar) && row.Action == ActionNone {
		return StatusWarning
	}
	// Строка правилась после сверки, результат устарел
	if row.IsDirty && row.Checked {
		return StatusWarning
	}
	return StatusReady
}
