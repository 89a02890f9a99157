package committer

import (
	"context"
	"errors"
	"fmt"

	"resortadmin/matcher"
	"resortadmin/normalization"
	"resortadmin/workbench"
)

// ErrNothingToImport нет ни одной строки, пригодной для записи.
// Проверяется до любого сетевого вызова.
var ErrNothingToImport = errors.New("nothing to import: no eligible rows")

// Endpoint удаленная функция записи партий
type Endpoint interface {
	Import(ctx context.Context, req matcher.ImportRequest) (*matcher.ImportResult, error)
}

// AuditSink внешний журнал действий. Реализация сама глотает ошибки
// записи: неудавшаяся запись в журнал не прерывает импорт.
type AuditSink interface {
	Record(ctx context.Context, action, entityType string, details map[string]interface{})
}

// Result итог записи: суммарные счетчики по всем партиям
type Result struct {
	Inserted     int `json:"inserted"`
	Updated      int `json:"updated"`
	Placeholders int `json:"placeholders"`
	Batches      int `json:"batches"`
}

// Committer ведет последовательную запись партий в базу
type Committer struct {
	endpoint     Endpoint
	placeholders *PlaceholderCache
	audit        AuditSink
}

// New создает новый Committer
func New(endpoint Endpoint, placeholders *PlaceholderCache, audit AuditSink) *Committer {
	return &Committer{
		endpoint:     endpoint,
		placeholders: placeholders,
		audit:        audit,
	}
}

// Partition делит строки воркбенча на вставки и обновления.
// Строки со статусом error/skipped и с действием skip не попадают
// никуда; каждая оставшаяся строка попадает ровно в один список:
// merge с найденным ID — в обновления, все прочее — в новые курорты.
func Partition(rows []workbench.Row) (newResorts []map[string]interface{}, updates []matcher.ResortUpdate) {
	for _, row := range rows {
		if row.Status == workbench.StatusError || row.Status == workbench.StatusSkipped {
			continue
		}
		if row.Action == workbench.ActionSkip {
			continue
		}

		if row.Action == workbench.ActionMerge && row.MatchedResortID != "" {
			updates = append(updates, matcher.ResortUpdate{
				ResortID: row.MatchedResortID,
				Fields:   normalization.ToMap(row.Data),
			})
			continue
		}

		newResorts = append(newResorts, normalization.ToMap(row.Data))
	}
	return newResorts, updates
}

// Push записывает строки воркбенча в базу.
// Новые курорты режутся на партии по MaxBatchSize; обновления целиком
// уходят в первом запросе; заглушки прикладываются только к первому
// запросу. Партии отправляются строго последовательно. Ошибка партии
// прерывает оставшиеся, но уже записанные партии не откатываются —
// накопленные счетчики возвращаются вместе с ошибкой.
func (c *Committer) Push(ctx context.Context, wb *workbench.Workbench, progress matcher.ProgressFunc) (*Result, error) {
	newResorts, updates := Partition(wb.Rows())

	if len(newResorts) == 0 && len(updates) == 0 {
		return nil, ErrNothingToImport
	}

	var placeholderURLs []string
	if len(newResorts) > 0 {
		urls, err := c.placeholders.Get(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load placeholder images: %w", err)
		}
		placeholderURLs = urls
	}

	result := &Result{}

	// Только обновления: один запрос без новых курортов
	if len(newResorts) == 0 {
		resp, err := c.endpoint.Import(ctx, matcher.ImportRequest{Updates: updates})
		if err != nil {
			return result, fmt.Errorf("import failed: %w", err)
		}
		result.accumulate(resp)
		c.recordAudit(ctx, result)
		return result, nil
	}

	total := len(newResorts)
	for offset := 0; offset < total; offset += matcher.MaxBatchSize {
		end := offset + matcher.MaxBatchSize
		if end > total {
			end = total
		}

		req := matcher.ImportRequest{NewResorts: newResorts[offset:end]}
		if offset == 0 {
			req.Updates = updates
			req.PlaceholderURLs = placeholderURLs
		}

		resp, err := c.endpoint.Import(ctx, req)
		if err != nil {
			// Счетчики прежних партий сохраняются
			return result, fmt.Errorf("import batch %d failed: %w", result.Batches+1, err)
		}
		result.accumulate(resp)

		if progress != nil {
			progress(end, total)
		}
	}

	c.recordAudit(ctx, result)
	return result, nil
}

func (r *Result) accumulate(resp *matcher.ImportResult) {
	r.Inserted += resp.Inserted
	r.Updated += resp.Updated
	r.Placeholders += resp.PlaceholdersAssigned
	r.Batches++
}

func (c *Committer) recordAudit(ctx context.Context, result *Result) {
	if c.audit == nil {
		return
	}
	c.audit.Record(ctx, "bulk_import", "resort", map[string]interface{}{
		"inserted":     result.Inserted,
		"updated":      result.Updated,
		"placeholders": result.Placeholders,
		"batches":      result.Batches,
	})
}
