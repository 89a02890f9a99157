package database

import (
	"math"
	"path/filepath"
	"testing"

	"resortadmin/normalization"
)

func testDB(t *testing.T) *ResortDB {
	t.Helper()
	db, err := NewResortDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecord(name string) normalization.ResortRecord {
	return normalization.ResortRecord{
		Name:        name,
		Country:     "Switzerland",
		CountryCode: "CH",
		Lat:         46.0207,
		Lng:         7.7491,
	}
}

func TestInsertResortsBatch(t *testing.T) {
	db := testDB(t)

	img := "https://cdn.example.com/own.jpg"
	records := []normalization.ResortRecord{
		sampleRecord("Zermatt"),
		sampleRecord("Verbier"),
		func() normalization.ResortRecord {
			r := sampleRecord("Saas-Fee")
			r.ImageURL = &img
			return r
		}(),
		sampleRecord("Davos"),
	}
	placeholders := []string{"https://cdn.example.com/p1.jpg", "https://cdn.example.com/p2.jpg"}

	inserted, assigned, err := db.InsertResortsBatch(records, placeholders)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 4 {
		t.Errorf("inserted = %d, want 4", inserted)
	}
	// Заглушки получают только записи без своего image_url
	if assigned != 3 {
		t.Errorf("placeholders assigned = %d, want 3", assigned)
	}

	count, err := db.CountResorts()
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	// Заглушки назначаются по кругу
	first, err := db.FindExact("Zermatt", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || first.Record.ImageURL == nil || *first.Record.ImageURL != placeholders[0] {
		t.Errorf("first resort image = %+v, want %s", first.Record.ImageURL, placeholders[0])
	}
	fourth, err := db.FindExact("Davos", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if fourth == nil || fourth.Record.ImageURL == nil || *fourth.Record.ImageURL != placeholders[0] {
		t.Errorf("fourth resort image = %+v, want %s (round robin wrap)", fourth.Record.ImageURL, placeholders[0])
	}

	own, err := db.FindExact("Saas-Fee", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if own == nil || own.Record.ImageURL == nil || *own.Record.ImageURL != img {
		t.Errorf("own image must not be replaced: %+v", own.Record.ImageURL)
	}
}

func TestInsertResortsBatchEmpty(t *testing.T) {
	db := testDB(t)
	inserted, assigned, err := db.InsertResortsBatch(nil, nil)
	if err != nil || inserted != 0 || assigned != 0 {
		t.Errorf("empty batch: inserted=%d assigned=%d err=%v", inserted, assigned, err)
	}
}

func TestFindExactNormalized(t *testing.T) {
	db := testDB(t)

	rec := sampleRecord("Kitzbühel")
	rec.Country = "Austria"
	rec.CountryCode = "AT"
	if _, _, err := db.InsertResortsBatch([]normalization.ResortRecord{rec}, nil); err != nil {
		t.Fatal(err)
	}

	// Нормализованное сравнение: регистр и диакритика не важны
	found, err := db.FindExact("KITZBUHEL", "austria")
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("normalized lookup must find the resort")
	}
	if found.Record.Name != "Kitzbühel" {
		t.Errorf("stored name = %q, want original form", found.Record.Name)
	}

	missing, err := db.FindExact("Zermatt", "Austria")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("unexpected match: %+v", missing)
	}
}

func TestFindExactKeepsStopWords(t *testing.T) {
	db := testDB(t)

	rec := sampleRecord("Ski Arlberg")
	rec.Country = "Austria"
	if _, _, err := db.InsertResortsBatch([]normalization.ResortRecord{rec}, nil); err != nil {
		t.Fatal(err)
	}

	found, err := db.FindExact("Arlberg", "Austria")
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("\"Arlberg\" must not match \"Ski Arlberg\" exactly")
	}
}

func TestAbsentCoordinatesStoredAsNull(t *testing.T) {
	db := testDB(t)

	rec := sampleRecord("Unknown Peak")
	rec.Lat = math.NaN()
	rec.Lng = math.NaN()
	if _, _, err := db.InsertResortsBatch([]normalization.ResortRecord{rec}, nil); err != nil {
		t.Fatal(err)
	}

	found, err := db.FindExact("Unknown Peak", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("resort not found")
	}
	if !math.IsNaN(found.Record.Lat) || !math.IsNaN(found.Record.Lng) {
		t.Errorf("absent coordinates must round trip as NaN: lat=%v lng=%v", found.Record.Lat, found.Record.Lng)
	}
}

func TestUpdateResortFields(t *testing.T) {
	db := testDB(t)

	if _, _, err := db.InsertResortsBatch([]normalization.ResortRecord{sampleRecord("Zermatt")}, nil); err != nil {
		t.Fatal(err)
	}
	resort, err := db.FindExact("Zermatt", "Switzerland")
	if err != nil || resort == nil {
		t.Fatalf("setup failed: %v", err)
	}

	found, err := db.UpdateResortFields(resort.ID, map[string]interface{}{
		"name":     "Zermatt Matterhorn",
		"piste_km": 360.0,
		"id":       "evil", // не в списке разрешенных
	})
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("update must report the row as found")
	}

	// name_norm пересчитан: поиск по новому имени находит, по старому нет
	updated, err := db.FindExact("Zermatt Matterhorn", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if updated == nil {
		t.Fatal("lookup by new name failed: name_norm not maintained")
	}
	if updated.ID != resort.ID {
		t.Errorf("id changed: %s -> %s", resort.ID, updated.ID)
	}
	if updated.Record.PisteKm == nil || *updated.Record.PisteKm != 360.0 {
		t.Errorf("piste_km = %v, want 360", updated.Record.PisteKm)
	}

	stale, err := db.FindExact("Zermatt", "Switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if stale != nil {
		t.Error("lookup by old name must miss after rename")
	}
}

func TestUpdateResortFieldsNotFound(t *testing.T) {
	db := testDB(t)

	found, err := db.UpdateResortFields("missing-id", map[string]interface{}{"piste_km": 100.0})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("update of missing resort must report not found")
	}
}

func TestUpdateResortFieldsNoUpdatable(t *testing.T) {
	db := testDB(t)

	if _, err := db.UpdateResortFields("any", map[string]interface{}{"id": "x", "created_at": "y"}); err == nil {
		t.Error("update with only non-updatable fields must fail")
	}
}

func TestCandidatesByCountry(t *testing.T) {
	db := testDB(t)

	records := []normalization.ResortRecord{
		sampleRecord("Zermatt"),
		sampleRecord("Verbier"),
	}
	austrian := sampleRecord("Lech")
	austrian.Country = "Austria"
	austrian.CountryCode = "AT"
	records = append(records, austrian)

	if _, _, err := db.InsertResortsBatch(records, nil); err != nil {
		t.Fatal(err)
	}

	swiss, err := db.CandidatesByCountry("switzerland")
	if err != nil {
		t.Fatal(err)
	}
	if len(swiss) != 2 {
		t.Errorf("got %d Swiss candidates, want 2", len(swiss))
	}

	none, err := db.CandidatesByCountry("Japan")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("got %d Japanese candidates, want 0", len(none))
	}
}

func TestSeedPlaceholders(t *testing.T) {
	db := testDB(t)

	urls := []string{"https://cdn.example.com/p1.jpg", "https://cdn.example.com/p2.jpg"}
	if err := db.SeedPlaceholders(urls); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListPlaceholderURLs()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != urls[0] {
		t.Errorf("placeholders = %v, want %v", got, urls)
	}

	// Повторный посев не дублирует
	if err := db.SeedPlaceholders([]string{"https://cdn.example.com/p3.jpg"}); err != nil {
		t.Fatal(err)
	}
	got, err = db.ListPlaceholderURLs()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("reseed must be a no-op, got %v", got)
	}
}
