package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandlerForwardsHealthPastStaticSite(t *testing.T) {
	s, _ := newTestServer(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dh2o</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.cfg.StaticDir = dir
	h := s.Handler()

	for _, path := range []string{"/health", "/health/db"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status = %d, body %s", path, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"success":true`) {
			t.Errorf("GET %s: body = %s, want JSON del backend, no el index", path, rec.Body.String())
		}
	}

	// Las rutas desconocidas sí caen al index.html.
	req := httptest.NewRequest(http.MethodGet, "/cotizador", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "dh2o") {
		t.Errorf("GET /cotizador: body = %s, want index.html", rec.Body.String())
	}
}

func TestHandlerWithoutStaticDirServesAPIAtRoot(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
