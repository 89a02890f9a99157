package matcher

import (
	"context"
	"fmt"

	"resortadmin/normalization"
	"resortadmin/workbench"
)

// ProgressFunc обратный вызов прогресса: сколько строк обработано из скольких
type ProgressFunc func(done, total int)

// CheckRows сверяет все строки воркбенча с базой.
// Строки режутся на партии по MaxBatchSize; партии отправляются строго
// последовательно. Ошибка любой партии прерывает проверку, но результаты
// уже обработанных партий сохраняются (отката нет).
func (c *Client) CheckRows(ctx context.Context, wb *workbench.Workbench, progress ProgressFunc) error {
	rows := wb.Rows()
	total := len(rows)
	if total == 0 {
		return fmt.Errorf("workbench has no rows to check")
	}

	for offset := 0; offset < total; offset += MaxBatchSize {
		end := offset + MaxBatchSize
		if end > total {
			end = total
		}

		batch := make([]PreviewResort, 0, end-offset)
		for _, row := range rows[offset:end] {
			batch = append(batch, PreviewResort{
				Name:    row.Data.Name,
				Country: row.Data.Country,
			})
		}

		results, err := c.Preview(ctx, batch)
		if err != nil {
			return fmt.Errorf("duplicate check aborted at row %d: %w", offset, err)
		}

		if err := applyResults(wb, results, offset, len(batch)); err != nil {
			return err
		}

		if progress != nil {
			progress(end, total)
		}
	}

	return nil
}

// applyResults записывает результаты сверки одной партии в строки.
// input_index каждой записи отображается в абсолютный индекс строки
// прибавлением смещения партии. Три списка результата обязаны быть
// непересекающимися — нарушение считается ошибкой контракта, а не
// поводом для тихого выбора победителя.
func applyResults(wb *workbench.Workbench, results *PreviewResults, offset, batchLen int) error {
	seen := make(map[int]string, batchLen)

	apply := func(entries []MatchEntry, matchType workbench.MatchType) error {
		for _, entry := range entries {
			if entry.InputIndex < 0 || entry.InputIndex >= batchLen {
				return fmt.Errorf("match result input_index %d out of batch range [0, %d)", entry.InputIndex, batchLen)
			}
			if prev, dup := seen[entry.InputIndex]; dup {
				return fmt.Errorf("match results overlap: input_index %d present in both %q and %q lists", entry.InputIndex, prev, matchType)
			}
			seen[entry.InputIndex] = string(matchType)

			ev := workbench.MatchResult{
				Type:              matchType,
				MatchedResortID:   entry.ExistingResortID,
				MatchedResortName: entry.ExistingName,
				Similarity:        entry.SimilarityScore,
			}
			if matchType == workbench.MatchExact {
				ev.Similarity = 1.0
			}
			if entry.ExistingData != nil {
				rec := normalization.FromMap(entry.ExistingData)
				ev.MatchedData = &rec
			}

			if _, err := wb.Apply(offset+entry.InputIndex, ev); err != nil {
				return err
			}
		}
		return nil
	}

	if err := apply(results.New, workbench.MatchNew); err != nil {
		return err
	}
	if err := apply(results.ExactMatches, workbench.MatchExact); err != nil {
		return err
	}
	if err := apply(results.SimilarMatches, workbench.MatchSimilar); err != nil {
		return err
	}

	return nil
}
