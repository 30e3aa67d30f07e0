package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"dh2ocol/internal/httpx"
)

type visitorCountRequest struct {
	SessionID string `json:"session_id"`
	// The widget historically sent camelCase.
	SessionIDCamel string `json:"sessionId"`
	Page           string `json:"page"`
	Referrer       string `json:"referrer"`
	UserAgent      string `json:"userAgent"`
}

func (r visitorCountRequest) sessionID() string {
	if v := strings.TrimSpace(r.SessionID); v != "" {
		return v
	}
	return strings.TrimSpace(r.SessionIDCamel)
}

// handleVisitorCount registers a visit. The visitas_sesiones primary key
// makes the increment idempotent per session: replays only refresh
// ultima_visita.
func (s *Server) handleVisitorCount(w http.ResponseWriter, r *http.Request) {
	var req visitorCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	sessionID := req.sessionID()
	if sessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "session_id requerido")
		return
	}

	res, err := s.db.ExecContext(r.Context(),
		"INSERT IGNORE INTO visitas_sesiones (session_id) VALUES (?)",
		sessionID,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error registrando visita")
		return
	}

	affected, _ := res.RowsAffected()
	newSession := affected > 0
	if !newSession {
		if _, err := s.db.ExecContext(r.Context(),
			"UPDATE visitas_sesiones SET ultima_visita = CURRENT_TIMESTAMP WHERE session_id = ?",
			sessionID,
		); err != nil {
			log.Printf("visitas: error refrescando sesión: %v", err)
		}
	}

	stats, err := s.fetchVisitorStats(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando visitas")
		return
	}

	if newSession {
		s.statsHub.push(stats)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"new_session":    newSession,
		"total_visitors": stats.TotalVisitors,
	})
}

type analyticsRequest struct {
	SessionID        string `json:"sessionId"`
	Page             string `json:"page"`
	Referrer         string `json:"referrer"`
	UserAgent        string `json:"userAgent"`
	ScreenResolution string `json:"screenResolution"`
	Language         string `json:"language"`
	Timezone         string `json:"timezone"`
	IsNewVisitor     bool   `json:"isNewVisitor"`
	LocalCount       int    `json:"localCount"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var req analyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO analytics
			(session_id, pagina, referrer, user_agent, resolucion, idioma, zona_horaria, nuevo_visitante, contador_local)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.SessionID, req.Page, req.Referrer, req.UserAgent,
		req.ScreenResolution, req.Language, req.Timezone,
		req.IsNewVisitor, req.LocalCount,
	); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error guardando analytics")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type visitorStats struct {
	TotalVisitors  int64 `json:"totalVisitors"`
	TodayVisitors  int64 `json:"todayVisitors"`
	OnlineVisitors int64 `json:"onlineVisitors"`
	UniqueVisitors int64 `json:"uniqueVisitors"`
}

// A session counts as online while its last ping is at most five minutes
// old.
func (s *Server) fetchVisitorStats(ctx context.Context) (visitorStats, error) {
	var stats visitorStats

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(ultima_visita >= CURDATE()), 0),
			COALESCE(SUM(ultima_visita >= NOW() - INTERVAL 5 MINUTE), 0)
		FROM visitas_sesiones`,
	).Scan(&stats.TotalVisitors, &stats.TodayVisitors, &stats.OnlineVisitors)
	if err != nil {
		return visitorStats{}, err
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT session_id) FROM analytics",
	).Scan(&stats.UniqueVisitors)
	if err != nil {
		return visitorStats{}, err
	}

	return stats, nil
}

// handleVisitorStats answers the footer poller with a bare stats object.
func (s *Server) handleVisitorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.fetchVisitorStats(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando estadísticas")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
