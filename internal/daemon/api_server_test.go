package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ludex/internal/testsupport"
)

func newTestAPIServer(t *testing.T, opts ...testsupport.ConfigOption) (*apiServer, *Daemon) {
	t.Helper()

	d, cfg := newTestDaemon(t, opts...)
	srv, err := newAPIServer(cfg, d, nil)
	if err != nil {
		t.Fatalf("newAPIServer: %v", err)
	}
	if srv == nil {
		t.Fatal("expected api server to be configured")
	}
	return srv, d
}

func TestAPIServerHandleCatalog(t *testing.T) {
	srv, d := newTestAPIServer(t)
	testsupport.NewEntry(t, d.store, "Celeste (2018).zip", 10)
	entry := testsupport.NewEntry(t, d.store, "gone.zip", 20)
	if err := d.store.SoftDelete(context.Background(), entry.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()
	srv.handleCatalog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp catalogListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 active entry, got %d", len(resp.Entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog?deleted=1", nil)
	w = httptest.NewRecorder()
	srv.handleCatalog(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries with deleted, got %d", len(resp.Entries))
	}
}

func TestAPIServerHandleCatalogEntry(t *testing.T) {
	srv, d := newTestAPIServer(t)
	entry := testsupport.NewEntry(t, d.store, "Celeste (2018).zip", 10)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/1", nil)
	w := httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp catalogEntryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Entry == nil || resp.Entry.ID != entry.ID {
		t.Fatalf("unexpected entry: %+v", resp.Entry)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/999", nil)
	w = httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/abc", nil)
	w = httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAPIServerDownloadSupportsRanges(t *testing.T) {
	srv, d := newTestAPIServer(t)
	testsupport.WriteArchive(t, d.cfg.Paths.LibraryDir, "Celeste (2018).zip", 64)
	testsupport.NewEntry(t, d.store, "Celeste (2018).zip", 64)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/1/download", nil)
	w := httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if got := w.Body.Len(); got != 64 {
		t.Fatalf("expected 64 body bytes, got %d", got)
	}
	if disposition := w.Header().Get("Content-Disposition"); disposition == "" {
		t.Fatal("expected Content-Disposition header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog/1/download", nil)
	req.Header.Set("Range", "bytes=32-47")
	w = httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)

	if w.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", w.Code)
	}
	if got := w.Body.Len(); got != 16 {
		t.Fatalf("expected 16 body bytes, got %d", got)
	}
}

func TestAPIServerDownloadMissingFile(t *testing.T) {
	srv, d := newTestAPIServer(t)
	testsupport.NewEntry(t, d.store, "vanished.zip", 8)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/1/download", nil)
	w := httptest.NewRecorder()
	srv.handleCatalogEntry(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAPIServerHandleScan(t *testing.T) {
	srv, _ := newTestAPIServer(t, testsupport.WithMockFiles())

	req := httptest.NewRequest(http.MethodGet, "/api/scan", nil)
	w := httptest.NewRecorder()
	srv.handleScan(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/scan", nil)
	w = httptest.NewRecorder()
	srv.handleScan(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var report struct {
		ScanID  string `json:"scan_id"`
		Created int    `json:"created"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.ScanID == "" || report.Created == 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestAuthMiddleware(t *testing.T) {
	called := false
	handler := authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run with valid token, got %d", w.Code)
	}
}

func TestAuthMiddlewareDisabledWithoutToken(t *testing.T) {
	handler := authMiddleware("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through without token, got %d", w.Code)
	}
}
