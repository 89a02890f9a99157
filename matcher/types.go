package matcher

// MaxBatchSize максимальный размер одной партии для сверки и записи.
// Общая константа: и проверка дублей, и запись режут строки на
// партии одинакового размера.
const MaxBatchSize = 500

// PreviewResort кандидат для сверки: имя и страна
type PreviewResort struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// PreviewRequest запрос сверки партии кандидатов
type PreviewRequest struct {
	Action  string          `json:"action"`
	Resorts []PreviewResort `json:"resorts"`
}

// MatchEntry одна запись результата сверки.
// InputIndex ссылается на позицию внутри отправленной партии.
type MatchEntry struct {
	InputIndex       int                    `json:"input_index"`
	ExistingResortID string                 `json:"existing_resort_id,omitempty"`
	ExistingName     string                 `json:"existing_name,omitempty"`
	SimilarityScore  float64                `json:"similarity_score,omitempty"`
	ExistingData     map[string]interface{} `json:"existing_data,omitempty"`
}

// PreviewResults три непересекающихся списка результатов сверки
type PreviewResults struct {
	New            []MatchEntry `json:"new"`
	ExactMatches   []MatchEntry `json:"exact_matches"`
	SimilarMatches []MatchEntry `json:"similar_matches"`
}

// PreviewResponse ответ сервиса сверки
type PreviewResponse struct {
	Results PreviewResults `json:"results"`
}

// ResortUpdate обновление существующего курорта при слиянии
type ResortUpdate struct {
	ResortID string                 `json:"resort_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// ImportRequest запрос записи одной партии
type ImportRequest struct {
	Action          string                   `json:"action"`
	NewResorts      []map[string]interface{} `json:"new_resorts"`
	Updates         []ResortUpdate           `json:"updates,omitempty"`
	PlaceholderURLs []string                 `json:"placeholder_urls,omitempty"`
}

// ImportResult результат записи одной партии
type ImportResult struct {
	Inserted             int `json:"inserted"`
	Updated              int `json:"updated"`
	PlaceholdersAssigned int `json:"placeholders_assigned"`
}

// PlaceholdersResponse ответ со списком URL изображений-заглушек
type PlaceholdersResponse struct {
	URLs []string `json:"urls"`
}
