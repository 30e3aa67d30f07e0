package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestHandleGeoConsentDeny(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO almacen_navegador (ambito, clave, valor) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE valor = VALUES(valor)")).
		WithArgs("cliente:cli_1", "geo_consent_choice", "deny").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"client_id":"cli_1","session_id":"sess_1","choice":"deny"}`
	req := httptest.NewRequest(http.MethodPost, "/api/geo/consent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleGeoConsent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Locate  bool `json:"locate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success || resp.Locate {
		t.Errorf("resp = %+v, deny must not locate", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleGeoConsentUnknownChoice(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"client_id":"cli_1","session_id":"sess_1","choice":"maybe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/geo/consent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleGeoConsent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGeoBootstrapDenied(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT valor FROM almacen_navegador WHERE ambito = ? AND clave = ?")).
		WithArgs("cliente:cli_1", "geo_consent_choice").
		WillReturnRows(sqlmock.NewRows([]string{"valor"}).AddRow("deny"))
	// Country cache lookup; cold in this scenario.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT valor FROM almacen_navegador WHERE ambito = ? AND clave = ?")).
		WithArgs("sesion:sess_1", "geo_country_name").
		WillReturnRows(sqlmock.NewRows([]string{"valor"}))

	req := httptest.NewRequest(http.MethodGet, "/api/geo/bootstrap?client_id=cli_1&session_id=sess_1", nil)
	rec := httptest.NewRecorder()
	s.handleGeoBootstrap(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"action":"none"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleGeoPaisInvalidCoords(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/geo/pais?lat=abc&lon=1", nil)
	rec := httptest.NewRecorder()
	s.handleGeoPais(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
