package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"dh2ocol/internal/httpx"
)

type contactoRequest struct {
	Nombre          string `json:"nombre"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	Empresa         string `json:"empresa"`
	ServicioInteres string `json:"servicio_interes"`
	Mensaje         string `json:"mensaje"`
}

// handleContacto stores a contact-form submission and notifies by email.
// The notification is best effort; the row is the source of truth.
func (s *Server) handleContacto(w http.ResponseWriter, r *http.Request) {
	var req contactoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	req.Mensaje = strings.TrimSpace(req.Mensaje)
	if req.Nombre == "" || req.Email == "" || req.Mensaje == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Por favor completa todos los campos obligatorios")
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO contactos (nombre, email, telefono, empresa, servicio_interes, mensaje, estado)
		 VALUES (?, ?, ?, ?, ?, ?, 'nuevo')`,
		req.Nombre, req.Email, req.Telefono, req.Empresa, req.ServicioInteres, req.Mensaje,
	); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error al enviar el mensaje. Inténtalo nuevamente.")
		return
	}

	if err := s.sendContactoEmail(req); err != nil {
		log.Printf("contacto: error enviando notificación: %v", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"mensaje": "¡Mensaje enviado exitosamente! Te contactaremos pronto.",
	})
}

func (s *Server) sendContactoEmail(req contactoRequest) error {
	if s.cfg.SMTP.Address == "" || s.cfg.SMTP.Password == "" {
		return fmt.Errorf("SMTP no configurado")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("DH2OCOL Web <%s>", s.cfg.SMTP.Address)
	e.To = []string{s.cfg.SMTP.Recipient}
	e.Subject = "Nuevo contacto desde la web: " + req.Nombre
	e.Text = []byte(fmt.Sprintf(
		"Nombre: %s\nEmail: %s\nTeléfono: %s\nEmpresa: %s\nServicio de interés: %s\n\nMensaje:\n%s\n",
		req.Nombre, req.Email, req.Telefono, req.Empresa, req.ServicioInteres, req.Mensaje,
	))

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", s.cfg.SMTP.Address, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	return e.Send(addr, auth)
}
