package api

import (
	"net/http"

	"dh2ocol/internal/httpx"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbOK := true
	if err := s.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		dbOK = false
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  status,
		"db":      dbOK,
	})
}

func (s *Server) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "Base de datos no disponible")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "db": true})
}
