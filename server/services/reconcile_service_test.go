package services

import (
	"path/filepath"
	"testing"

	"resortadmin/database"
	"resortadmin/matcher"
	"resortadmin/normalization"
)

func testService(t *testing.T) (*ReconcileService, *database.ResortDB) {
	t.Helper()
	db, err := database.NewResortDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReconcileService(db), db
}

func seedResort(t *testing.T, db *database.ResortDB, name, country, code string) {
	t.Helper()
	_, _, err := db.InsertResortsBatch([]normalization.ResortRecord{{
		Name:        name,
		Country:     country,
		CountryCode: code,
		Lat:         46.0,
		Lng:         7.7,
	}}, nil)
	if err != nil {
		t.Fatal(err)
	}
}

func TestPreviewEmptyCatalog(t *testing.T) {
	svc, _ := testService(t)

	results, err := svc.Preview([]matcher.PreviewResort{
		{Name: "Zermatt", Country: "Switzerland"},
		{Name: "Verbier", Country: "Switzerland"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(results.New) != 2 || len(results.ExactMatches) != 0 || len(results.SimilarMatches) != 0 {
		t.Errorf("results = %+v, want all new", results)
	}
	if results.New[0].InputIndex != 0 || results.New[1].InputIndex != 1 {
		t.Errorf("input indexes = %+v", results.New)
	}
}

func TestPreviewClassification(t *testing.T) {
	svc, db := testService(t)
	seedResort(t, db, "Zermatt", "Switzerland", "CH")

	results, err := svc.Preview([]matcher.PreviewResort{
		{Name: "zermatt", Country: "SWITZERLAND"}, // точное после нормализации
		{Name: "Zermat", Country: "Switzerland"},  // опечатка
		{Name: "Niseko", Country: "Japan"},        // ничего похожего
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(results.ExactMatches) != 1 {
		t.Fatalf("exact matches = %+v", results.ExactMatches)
	}
	exact := results.ExactMatches[0]
	if exact.InputIndex != 0 || exact.SimilarityScore != 1.0 || exact.ExistingName != "Zermatt" {
		t.Errorf("exact = %+v", exact)
	}
	if exact.ExistingData == nil || exact.ExistingData["name"] != "Zermatt" {
		t.Errorf("exact existing data = %+v", exact.ExistingData)
	}

	if len(results.SimilarMatches) != 1 {
		t.Fatalf("similar matches = %+v", results.SimilarMatches)
	}
	similar := results.SimilarMatches[0]
	if similar.InputIndex != 1 {
		t.Errorf("similar input index = %d", similar.InputIndex)
	}
	if similar.SimilarityScore < DefaultSimilarityThreshold || similar.SimilarityScore >= 1.0 {
		t.Errorf("similar score = %v, want [%v, 1.0)", similar.SimilarityScore, DefaultSimilarityThreshold)
	}

	if len(results.New) != 1 || results.New[0].InputIndex != 2 {
		t.Errorf("new = %+v", results.New)
	}

	// Каждый вход ровно в одном списке
	seen := map[int]int{}
	for _, e := range results.New {
		seen[e.InputIndex]++
	}
	for _, e := range results.ExactMatches {
		seen[e.InputIndex]++
	}
	for _, e := range results.SimilarMatches {
		seen[e.InputIndex]++
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("input %d appears in %d lists", idx, n)
		}
	}
}

func TestPreviewCustomThreshold(t *testing.T) {
	_, db := testService(t)
	seedResort(t, db, "Zermatt", "Switzerland", "CH")

	input := []matcher.PreviewResort{{Name: "Zermat", Country: "Switzerland"}}

	// С порогом по умолчанию опечатка считается похожим совпадением
	results, err := NewReconcileService(db).Preview(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.SimilarMatches) != 1 || len(results.New) != 0 {
		t.Fatalf("default threshold results = %+v, want similar", results)
	}

	// Поднятый порог переводит ту же строку в новые
	strict := NewReconcileServiceWithThreshold(db, 0.95)
	results, err = strict.Preview(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.New) != 1 || len(results.SimilarMatches) != 0 {
		t.Errorf("threshold 0.95 results = %+v, want new", results)
	}

	// Неположительный порог откатывается к значению по умолчанию
	fallback := NewReconcileServiceWithThreshold(db, 0)
	if fallback.threshold != DefaultSimilarityThreshold {
		t.Errorf("threshold = %v, want default %v", fallback.threshold, DefaultSimilarityThreshold)
	}
}

func TestPreviewBatchLimit(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Preview(make([]matcher.PreviewResort, matcher.MaxBatchSize+1))
	if err == nil {
		t.Error("oversized batch must fail")
	}
}

func TestImport(t *testing.T) {
	svc, db := testService(t)
	seedResort(t, db, "Zermatt", "Switzerland", "CH")

	existing, err := db.FindExact("Zermatt", "Switzerland")
	if err != nil || existing == nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := svc.Import(&matcher.ImportRequest{
		NewResorts: []map[string]interface{}{
			{"name": "Verbier", "country": "Switzerland", "country_code": "CH", "lat": 46.0961, "lng": 7.2286},
		},
		Updates: []matcher.ResortUpdate{
			{ResortID: existing.ID, Fields: map[string]interface{}{"piste_km": 360.0}},
			{ResortID: "missing-id", Fields: map[string]interface{}{"piste_km": 1.0}},
		},
		PlaceholderURLs: []string{"https://cdn.example.com/p1.jpg"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Inserted != 1 || result.PlaceholdersAssigned != 1 {
		t.Errorf("result = %+v", result)
	}
	// Ненайденный курорт пропускается, а не считается обновленным
	if result.Updated != 1 {
		t.Errorf("updated = %d, want 1", result.Updated)
	}

	count, err := db.CountResorts()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	updated, err := db.FindExact("Zermatt", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Record.PisteKm == nil || *updated.Record.PisteKm != 360.0 {
		t.Errorf("piste_km = %v, want 360", updated.Record.PisteKm)
	}
}
