package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"

	"dh2ocol/internal/httpx"
	"dh2ocol/internal/quote"
)

// loadQuoteParams reads the admin pricing overrides. Missing or
// malformed rows simply leave the defaults in place.
func (s *Server) loadQuoteParams(ctx context.Context) (quote.Params, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT clave, valor FROM configuracion WHERE clave LIKE 'quote\\_%'",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := quote.Params{}
	for rows.Next() {
		var clave, valor string
		if err := rows.Scan(&clave, &valor); err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(valor), 64)
		if err != nil {
			continue
		}
		params[clave] = v
	}
	return params, rows.Err()
}

func (s *Server) handleQuoteParams(w http.ResponseWriter, r *http.Request) {
	params, err := s.loadQuoteParams(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando parámetros")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"params":  params,
	})
}

type cotizarRequest struct {
	Servicio string         `json:"servicio"`
	Datos    quote.FormData `json:"datos"`
}

// handleCotizar recomputes the estimate server side so the widget and any
// other caller get the same numbers the email flow will store.
func (s *Server) handleCotizar(w http.ResponseWriter, r *http.Request) {
	var req cotizarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	servicio := quote.Service(strings.TrimSpace(req.Servicio))
	if servicio == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Selecciona un tipo de servicio para continuar.")
		return
	}
	if req.Datos == nil {
		req.Datos = quote.FormData{}
	}

	params, err := s.loadQuoteParams(r.Context())
	if err != nil {
		log.Printf("cotizar: error leyendo parámetros, usando valores por defecto: %v", err)
		params = nil
	}

	est := quote.ComputeEstimate(servicio, req.Datos, params)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"estimate": est,
		"valor":    est.Valor,
		"tiempo":   est.Tiempo,
	})
}

type quoteEmailRequest struct {
	Servicio       string         `json:"servicio"`
	Datos          quote.FormData `json:"datos"`
	Estimate       quote.Estimate `json:"estimate"`
	ImageURLs      []string       `json:"image_urls"`
	RecaptchaToken string         `json:"recaptcha_token"`
}

func (s *Server) handleQuoteEmail(w http.ResponseWriter, r *http.Request) {
	var req quoteEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	servicio := quote.Service(strings.TrimSpace(req.Servicio))
	if req.Datos == nil {
		req.Datos = quote.FormData{}
	}

	// The client already validated; never trust it.
	if err := quote.ValidateStep(quote.StepContacto, servicio, req.Datos); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := quote.ValidatePhone(req.Datos); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RecaptchaToken != "" && !s.verifyRecaptcha(r.Context(), req.RecaptchaToken) {
		httpx.WriteError(w, http.StatusBadRequest, "Verificación de seguridad fallida. Por favor, intenta nuevamente.")
		return
	}

	// The client estimate is a hint; the stored value is always recomputed.
	params, err := s.loadQuoteParams(r.Context())
	if err != nil {
		params = nil
	}
	est := quote.ComputeEstimate(servicio, req.Datos, params)

	mensaje := quote.BuildMessage(servicio, req.Datos, req.ImageURLs, est, quote.MessageOptions{IncludeImageURLs: true})

	if err := s.sendQuoteEmail(servicio, req.Datos, mensaje); err != nil {
		log.Printf("quote: error enviando correo: %v", err)
		httpx.WriteError(w, http.StatusInternalServerError, "No se pudo enviar el correo. Intenta nuevamente.")
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO cotizaciones
			(servicio, nombre_cliente, telefono_cliente, correo_cliente, valor_estimado, tiempo_estimado, mensaje, image_urls)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(servicio),
		req.Datos["nombreCliente"],
		quote.NormalizePhoneCO(req.Datos["telefonoCliente"]),
		req.Datos["correoCliente"],
		est.Valor,
		est.Tiempo,
		mensaje,
		strings.Join(req.ImageURLs, "\n"),
	); err != nil {
		log.Printf("quote: error guardando cotización: %v", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) sendQuoteEmail(servicio quote.Service, datos quote.FormData, mensaje string) error {
	if s.cfg.SMTP.Address == "" || s.cfg.SMTP.Password == "" {
		return fmt.Errorf("SMTP no configurado")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("DH2OCOL Web <%s>", s.cfg.SMTP.Address)
	e.To = []string{s.cfg.SMTP.Recipient}
	if correo := strings.TrimSpace(datos["correoCliente"]); correo != "" {
		e.Cc = []string{correo}
	}
	e.Subject = fmt.Sprintf("Cotización %s - %s", quote.ServiceLabel(servicio), datos["nombreCliente"])
	e.Text = []byte(mensaje)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", s.cfg.SMTP.Address, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	return e.Send(addr, auth)
}
