package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"resortadmin/normalization"
	"resortadmin/workbench"
)

func testClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:   url,
		RateLimit: rate.Inf,
	})
}

func testRecords(n int) []normalization.ResortRecord {
	records := make([]normalization.ResortRecord, n)
	for i := range records {
		records[i] = normalization.ResortRecord{
			Name:        fmt.Sprintf("Resort %d", i),
			Country:     "Austria",
			CountryCode: "AT",
			Lat:         47.0,
			Lng:         13.0,
		}
	}
	return records
}

// previewServer отвечает на preview-запросы через подставную функцию
func previewServer(t *testing.T, respond func(req PreviewRequest) (interface{}, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req PreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, status := respond(req)
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	}))
}

func TestCheckRowsAppliesResults(t *testing.T) {
	srv := previewServer(t, func(req PreviewRequest) (interface{}, int) {
		if req.Action != "preview" {
			t.Errorf("action = %q, want preview", req.Action)
		}
		return PreviewResponse{Results: PreviewResults{
			ExactMatches: []MatchEntry{{
				InputIndex:       0,
				ExistingResortID: "id-0",
				ExistingName:     "Resort 0",
				SimilarityScore:  0.97, // сервер может прислать что угодно
				ExistingData:     map[string]interface{}{"name": "Resort 0", "country": "Austria"},
			}},
			SimilarMatches: []MatchEntry{{
				InputIndex:       1,
				ExistingResortID: "id-1",
				ExistingName:     "Resort One",
				SimilarityScore:  0.82,
			}},
			New: []MatchEntry{{InputIndex: 2}},
		}}, http.StatusOK
	})
	defer srv.Close()

	wb := workbench.New("a.csv", testRecords(3))
	if err := testClient(srv.URL).CheckRows(context.Background(), wb, nil); err != nil {
		t.Fatal(err)
	}

	row0, _ := wb.Row(0)
	if row0.MatchType != workbench.MatchExact || row0.MatchSimilarity != 1.0 {
		t.Errorf("row 0: type=%s similarity=%v, want exact with forced 1.0", row0.MatchType, row0.MatchSimilarity)
	}
	if row0.MatchedData == nil || row0.MatchedData.Name != "Resort 0" {
		t.Errorf("row 0 matched data = %+v", row0.MatchedData)
	}
	if row0.Status != workbench.StatusWarning {
		t.Errorf("row 0 status = %s, want warning (undecided duplicate)", row0.Status)
	}

	row1, _ := wb.Row(1)
	if row1.MatchType != workbench.MatchSimilar || row1.MatchSimilarity != 0.82 {
		t.Errorf("row 1: type=%s similarity=%v", row1.MatchType, row1.MatchSimilarity)
	}

	row2, _ := wb.Row(2)
	if row2.MatchType != workbench.MatchNew || row2.Action != workbench.ActionImport {
		t.Errorf("row 2: type=%s action=%s, want new with auto import", row2.MatchType, row2.Action)
	}
	if row2.Status != workbench.StatusReady {
		t.Errorf("row 2 status = %s, want ready", row2.Status)
	}
}

func TestCheckRowsBatching(t *testing.T) {
	var batchSizes []int
	srv := previewServer(t, func(req PreviewRequest) (interface{}, int) {
		batchSizes = append(batchSizes, len(req.Resorts))
		results := PreviewResults{}
		for i := range req.Resorts {
			results.New = append(results.New, MatchEntry{InputIndex: i})
		}
		return PreviewResponse{Results: results}, http.StatusOK
	})
	defer srv.Close()

	const total = MaxBatchSize*2 + 1
	wb := workbench.New("big.csv", testRecords(total))

	var lastDone int
	err := testClient(srv.URL).CheckRows(context.Background(), wb, func(done, totalRows int) {
		lastDone = done
		if totalRows != total {
			t.Errorf("progress total = %d, want %d", totalRows, total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{MaxBatchSize, MaxBatchSize, 1}
	if len(batchSizes) != len(want) {
		t.Fatalf("batch sizes = %v, want %v", batchSizes, want)
	}
	for i := range want {
		if batchSizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, batchSizes[i], want[i])
		}
	}
	if lastDone != total {
		t.Errorf("last progress = %d, want %d", lastDone, total)
	}

	// input_index последней партии отображается в абсолютный индекс
	last, _ := wb.Row(total - 1)
	if !last.Checked || last.MatchType != workbench.MatchNew {
		t.Errorf("last row not checked correctly: %+v", last)
	}

	c := wb.Counts()
	if c.Checked != total {
		t.Errorf("checked = %d, want %d", c.Checked, total)
	}
}

func TestCheckRowsOverlapIsError(t *testing.T) {
	srv := previewServer(t, func(req PreviewRequest) (interface{}, int) {
		return PreviewResponse{Results: PreviewResults{
			New:          []MatchEntry{{InputIndex: 0}},
			ExactMatches: []MatchEntry{{InputIndex: 0, ExistingResortID: "id-0", SimilarityScore: 1.0}},
		}}, http.StatusOK
	})
	defer srv.Close()

	wb := workbench.New("a.csv", testRecords(1))
	err := testClient(srv.URL).CheckRows(context.Background(), wb, nil)
	if err == nil || !strings.Contains(err.Error(), "match results overlap") {
		t.Errorf("error = %v, want overlap error", err)
	}
}

func TestCheckRowsInputIndexOutOfRange(t *testing.T) {
	srv := previewServer(t, func(req PreviewRequest) (interface{}, int) {
		return PreviewResponse{Results: PreviewResults{
			New: []MatchEntry{{InputIndex: 5}},
		}}, http.StatusOK
	})
	defer srv.Close()

	wb := workbench.New("a.csv", testRecords(2))
	err := testClient(srv.URL).CheckRows(context.Background(), wb, nil)
	if err == nil || !strings.Contains(err.Error(), "out of batch range") {
		t.Errorf("error = %v, want out of range error", err)
	}
}

func TestCheckRowsPartialProgressKept(t *testing.T) {
	var calls int
	srv := previewServer(t, func(req PreviewRequest) (interface{}, int) {
		calls++
		if calls > 1 {
			return nil, http.StatusInternalServerError
		}
		results := PreviewResults{}
		for i := range req.Resorts {
			results.New = append(results.New, MatchEntry{InputIndex: i})
		}
		return PreviewResponse{Results: results}, http.StatusOK
	})
	defer srv.Close()

	wb := workbench.New("big.csv", testRecords(MaxBatchSize+10))
	err := testClient(srv.URL).CheckRows(context.Background(), wb, nil)
	if err == nil {
		t.Fatal("expected error from second batch")
	}
	if !strings.Contains(err.Error(), fmt.Sprintf("aborted at row %d", MaxBatchSize)) {
		t.Errorf("error = %v, want abort at second batch offset", err)
	}

	// Первая партия уже применена и не откатывается
	c := wb.Counts()
	if c.Checked != MaxBatchSize {
		t.Errorf("checked = %d, want %d (first batch preserved)", c.Checked, MaxBatchSize)
	}
}

func TestCheckRowsEmptyWorkbench(t *testing.T) {
	wb := workbench.New("empty.csv", nil)
	err := testClient("http://unused").CheckRows(context.Background(), wb, nil)
	if err == nil {
		t.Error("empty workbench must fail")
	}
}

func TestPreviewBatchSizeLimit(t *testing.T) {
	c := testClient("http://unused")
	_, err := c.Preview(context.Background(), make([]PreviewResort, MaxBatchSize+1))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want batch size error", err)
	}
}

func TestPreviewEmptyBatch(t *testing.T) {
	c := testClient("http://unused")
	results, err := c.Preview(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.New) != 0 || len(results.ExactMatches) != 0 || len(results.SimilarMatches) != 0 {
		t.Errorf("empty batch results = %+v", results)
	}
}

func TestImport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Action != "import" {
			t.Errorf("action = %q, want import", req.Action)
		}
		json.NewEncoder(w).Encode(ImportResult{
			Inserted:             len(req.NewResorts),
			Updated:              len(req.Updates),
			PlaceholdersAssigned: 1,
		})
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Import(context.Background(), ImportRequest{
		NewResorts: []map[string]interface{}{{"name": "Zermatt"}},
		Updates:    []ResortUpdate{{ResortID: "id-1", Fields: map[string]interface{}{"piste_km": 360.0}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Inserted != 1 || result.Updated != 1 || result.PlaceholdersAssigned != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestListPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["action"] != "list_placeholders" {
			t.Errorf("action = %q, want list_placeholders", req["action"])
		}
		json.NewEncoder(w).Encode(PlaceholdersResponse{URLs: []string{"https://cdn.example.com/p1.jpg"}})
	}))
	defer srv.Close()

	urls, err := testClient(srv.URL).ListPlaceholders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != "https://cdn.example.com/p1.jpg" {
		t.Errorf("urls = %v", urls)
	}
}

func TestPostNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database locked", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListPlaceholders(context.Background())
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status code error", err)
	}
}
