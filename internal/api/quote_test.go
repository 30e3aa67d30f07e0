package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"dh2ocol/internal/chatbot"
	"dh2ocol/internal/config"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &Server{
		db:       db,
		cfg:      config.Config{},
		respond:  &chatbot.Responder{},
		statsHub: newStatsHub(),
	}
	return s, mock
}

func TestHandleQuoteParams(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT clave, valor FROM configuracion WHERE clave LIKE 'quote\\_%'")).
		WillReturnRows(sqlmock.NewRows([]string{"clave", "valor"}).
			AddRow("quote_base_limpieza", "90000").
			AddRow("quote_hours_limpieza", "2").
			AddRow("quote_base_otro", "no-numerico"))

	req := httptest.NewRequest(http.MethodGet, "/api/quote/params", nil)
	rec := httptest.NewRecorder()
	s.handleQuoteParams(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool               `json:"success"`
		Params  map[string]float64 `json:"params"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success {
		t.Fatal("success = false")
	}
	if resp.Params["quote_base_limpieza"] != 90000 {
		t.Errorf("quote_base_limpieza = %v", resp.Params["quote_base_limpieza"])
	}
	if _, ok := resp.Params["quote_base_otro"]; ok {
		t.Error("malformed row must be skipped")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHandleCotizar(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT clave, valor FROM configuracion")).
		WillReturnRows(sqlmock.NewRows([]string{"clave", "valor"}))

	body := `{"servicio":"limpieza","datos":{"tipoTanque":"metalico","capacidadTanque":"500","accesibilidad":"media"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/cotizar", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleCotizar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Valor   int64  `json:"valor"`
		Tiempo  string `json:"tiempo"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success || resp.Valor != 115920 || resp.Tiempo != "1 h" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleCotizarSinServicio(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cotizar", strings.NewReader(`{"servicio":""}`))
	rec := httptest.NewRecorder()
	s.handleCotizar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleQuoteEmailRejectsBadPhone(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{
		"servicio": "limpieza",
		"datos": {"nombreCliente":"Ana","telefonoCliente":"12345","aceptaPolitica":"1"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote/email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleQuoteEmail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "teléfono móvil de Colombia") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleQuoteDeleteOutsideZone(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.BunnyPullBaseURL = "https://dh2ocolmedia.b-cdn.net"

	body := `{"url":"https://otra-cdn.example.com/x.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote/delete", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleQuoteDelete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
