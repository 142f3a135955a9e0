package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthOK(t *testing.T) {
	db := setupDB(t)

	h := handleHealth(testLogger(), db, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[HealthResponse](t, w)
	if resp["sqlite"].Status != "ok" {
		t.Errorf("expected sqlite ok, got %+v", resp)
	}
	if _, ok := resp["redis"]; ok {
		t.Error("expected no redis check without a client")
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	db := setupDB(t)
	db.Close()

	h := handleHealth(testLogger(), db, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	resp := decode[HealthResponse](t, w)
	if resp["sqlite"].Status != "error" {
		t.Errorf("expected sqlite error, got %+v", resp)
	}
}
