package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civic-records/registry-search/internal/query"
	"github.com/civic-records/registry-search/internal/registry"
)

type staticLoader struct {
	lines []string
	err   error
}

func (l *staticLoader) Load(ctx context.Context) ([]string, error) {
	return l.lines, l.err
}

func newTestHandler(t *testing.T, lines []string) (*Handler, *staticLoader) {
	t.Helper()
	engine := registry.New()
	engine.Load(lines)
	ldr := &staticLoader{lines: lines}
	return New(engine, ldr, nil, nil, nil), ldr
}

func TestSearchEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, []string{
		"Rossi4500001970A",
		"Bianchi6700001985B",
		"Russo4500001985C",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?surname=R&province=45", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result query.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	if len(result.Records) != 2 || result.Records[0] != "Rossi4500001970A" || result.Records[1] != "Russo4500001985C" {
		t.Errorf("Records = %v, want ascending-position matches", result.Records)
	}
}

func TestSearchEndpointNoCriteria(t *testing.T) {
	lines := []string{"Rossi4500001970A", "Bianchi6700001985B"}
	h, _ := newTestHandler(t, lines)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	var result query.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != len(lines) {
		t.Errorf("Total = %d, want full corpus %d", result.Total, len(lines))
	}
}

func TestSearchEndpointZeroResults(t *testing.T) {
	h, _ := newTestHandler(t, []string{"Rossi4500001970A"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?surname=Z", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no match is not an error)", rec.Code)
	}
	var result query.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 0 || result.Records == nil {
		t.Errorf("result = %+v, want empty non-nil records", result)
	}
}

func TestReloadEndpoint(t *testing.T) {
	h, ldr := newTestHandler(t, []string{"Rossi4500001970A"})

	// Reload with a replacement corpus; old keys must disappear.
	ldr.lines = []string{"Bianchi6700001985B"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil)
	rec := httptest.NewRecorder()
	h.Reload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats registry.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Records != 1 || stats.SurnameKeys != 1 {
		t.Errorf("stats = %+v", stats)
	}

	searchReq := httptest.NewRequest(http.MethodGet, "/api/v1/search?surname=R", nil)
	searchRec := httptest.NewRecorder()
	h.Search(searchRec, searchReq)
	var result query.Result
	if err := json.NewDecoder(searchRec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 0 {
		t.Errorf("old-corpus key still matches after reload: %+v", result)
	}
}

func TestReloadEndpointLoaderFailure(t *testing.T) {
	h, ldr := newTestHandler(t, []string{"Rossi4500001970A"})
	ldr.err = context.DeadlineExceeded

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil)
	rec := httptest.NewRecorder()
	h.Reload(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	// The engine keeps serving the last good snapshot.
	searchReq := httptest.NewRequest(http.MethodGet, "/api/v1/search?surname=R", nil)
	searchRec := httptest.NewRecorder()
	h.Search(searchRec, searchReq)
	var result query.Result
	if err := json.NewDecoder(searchRec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 1 {
		t.Errorf("corpus lost after failed reload: %+v", result)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, []string{"Rossi4500001970A"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var response map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	var stats registry.Stats
	if err := json.Unmarshal(response["engine"], &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Records != 1 {
		t.Errorf("Records = %d, want 1", stats.Records)
	}
}
