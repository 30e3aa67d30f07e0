package api

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
)

func (s *Server) handleWhatsAppRedirect(w http.ResponseWriter, r *http.Request) {
	target := "https://wa.me/" + strings.TrimSpace(s.cfg.WhatsAppPhone)
	if texto := strings.TrimSpace(r.URL.Query().Get("texto")); texto != "" {
		// wa.me muestra "+" literal, así que los espacios van como %20.
		target += "?text=" + strings.ReplaceAll(url.QueryEscape(texto), "+", "%20")
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// handleAppRedirect sends visitors to the customer app; the URL can be
// retargeted from the configuracion table without redeploying.
func (s *Server) handleAppRedirect(w http.ResponseWriter, r *http.Request) {
	const fallback = "https://app.dh2o.com.co/login/"

	var target string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT valor FROM configuracion WHERE clave = 'app_url'",
	).Scan(&target)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("redirect /app: error leyendo app_url: %v", err)
		}
		target = fallback
	}
	if strings.TrimSpace(target) == "" {
		target = fallback
	}

	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
