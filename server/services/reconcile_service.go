package services

import (
	"fmt"
	"log"

	"resortadmin/database"
	"resortadmin/matcher"
	"resortadmin/normalization"
	"resortadmin/normalization/algorithms"
)

// DefaultSimilarityThreshold минимальная оценка для похожего совпадения
const DefaultSimilarityThreshold = 0.60

// ReconcileService сверяет входящие курорты с каталогом.
// Каждая входная строка попадает ровно в один из трех списков:
// новые, точные совпадения, похожие совпадения.
type ReconcileService struct {
	db        *database.ResortDB
	metrics   *algorithms.SimilarityMetrics
	threshold float64
}

// NewReconcileService создает сервис сверки с порогом по умолчанию
func NewReconcileService(db *database.ResortDB) *ReconcileService {
	return NewReconcileServiceWithThreshold(db, DefaultSimilarityThreshold)
}

// NewReconcileServiceWithThreshold создает сервис сверки с заданным порогом
// похожести. Неположительный порог заменяется значением по умолчанию.
func NewReconcileServiceWithThreshold(db *database.ResortDB, threshold float64) *ReconcileService {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &ReconcileService{
		db:        db,
		metrics:   algorithms.NewSimilarityMetrics(),
		threshold: threshold,
	}
}

// Preview сверяет партию курортов с каталогом без записи в БД
func (s *ReconcileService) Preview(resorts []matcher.PreviewResort) (*matcher.PreviewResults, error) {
	if len(resorts) > matcher.MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(resorts), matcher.MaxBatchSize)
	}

	results := &matcher.PreviewResults{
		New:            []matcher.MatchEntry{},
		ExactMatches:   []matcher.MatchEntry{},
		SimilarMatches: []matcher.MatchEntry{},
	}

	for i, resort := range resorts {
		// Точное совпадение: нормализованные название и страна равны
		exact, err := s.db.FindExact(resort.Name, resort.Country)
		if err != nil {
			return nil, fmt.Errorf("exact lookup failed for %q: %w", resort.Name, err)
		}
		if exact != nil {
			results.ExactMatches = append(results.ExactMatches, matcher.MatchEntry{
				InputIndex:       i,
				ExistingResortID: exact.ID,
				ExistingName:     exact.Record.Name,
				SimilarityScore:  1.0,
				ExistingData:     normalization.ToMap(exact.Record),
			})
			continue
		}

		// Нечеткая сверка по кандидатам той же страны
		best, score, err := s.bestCandidate(resort.Name, resort.Country)
		if err != nil {
			return nil, err
		}
		if best != nil && score >= s.threshold {
			results.SimilarMatches = append(results.SimilarMatches, matcher.MatchEntry{
				InputIndex:       i,
				ExistingResortID: best.ID,
				ExistingName:     best.Record.Name,
				SimilarityScore:  score,
				ExistingData:     normalization.ToMap(best.Record),
			})
			continue
		}

		results.New = append(results.New, matcher.MatchEntry{InputIndex: i})
	}

	return results, nil
}

// bestCandidate ищет наиболее похожий курорт среди кандидатов страны
func (s *ReconcileService) bestCandidate(name, country string) (*database.Resort, float64, error) {
	candidates, err := s.db.CandidatesByCountry(country)
	if err != nil {
		return nil, 0, fmt.Errorf("candidate lookup failed for %q: %w", name, err)
	}

	var best *database.Resort
	bestScore := 0.0
	for i := range candidates {
		score := s.metrics.ResortNameSimilarity(name, candidates[i].Record.Name)
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best, bestScore, nil
}

// Import выполняет вставку новых курортов и обновление существующих
func (s *ReconcileService) Import(req *matcher.ImportRequest) (*matcher.ImportResult, error) {
	if len(req.NewResorts) > matcher.MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(req.NewResorts), matcher.MaxBatchSize)
	}

	result := &matcher.ImportResult{}

	// Вставка новых курортов одной транзакцией
	if len(req.NewResorts) > 0 {
		records := make([]normalization.ResortRecord, 0, len(req.NewResorts))
		for _, data := range req.NewResorts {
			records = append(records, normalization.FromMap(data))
		}

		inserted, placeholders, err := s.db.InsertResortsBatch(records, req.PlaceholderURLs)
		if err != nil {
			return nil, fmt.Errorf("insert batch failed: %w", err)
		}
		result.Inserted = inserted
		result.PlaceholdersAssigned = placeholders
	}

	// Обновления применяются по одному, пропуски логируются
	for _, update := range req.Updates {
		found, err := s.db.UpdateResortFields(update.ResortID, update.Fields)
		if err != nil {
			return nil, fmt.Errorf("update failed for resort %s: %w", update.ResortID, err)
		}
		if !found {
			log.Printf("⚠ Курорт %s не найден, обновление пропущено", update.ResortID)
			continue
		}
		result.Updated++
	}

	return result, nil
}

// Placeholders возвращает URL изображений-заглушек из каталога
func (s *ReconcileService) Placeholders() ([]string, error) {
	return s.db.ListPlaceholderURLs()
}
