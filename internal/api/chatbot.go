package api

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"

	"dh2ocol/internal/chatbot"
	"dh2ocol/internal/httpx"
)

type opcionRapida struct {
	Pregunta  string `json:"pregunta"`
	Respuesta string `json:"respuesta"`
}

// The chatbot widget reads its error text from "mensaje", unlike the
// rest of the API which uses "message".
func writeChatbotError(w http.ResponseWriter, status int, mensaje string) {
	httpx.WriteJSON(w, status, map[string]any{
		"success": false,
		"mensaje": mensaje,
	})
}

// handleChatbotOpcionesRapidas returns the four highest-ranked curated
// questions as the quick-reply chips. Errors degrade to an empty list so
// the widget still renders.
func (s *Server) handleChatbotOpcionesRapidas(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		"SELECT pregunta, respuesta FROM chatbot_preguntas WHERE activo = TRUE ORDER BY orden ASC LIMIT 4",
	)
	if err != nil {
		log.Printf("chatbot: error consultando opciones rápidas: %v", err)
		httpx.WriteJSON(w, http.StatusOK, []opcionRapida{})
		return
	}
	defer rows.Close()

	opciones := []opcionRapida{}
	for rows.Next() {
		var o opcionRapida
		if err := rows.Scan(&o.Pregunta, &o.Respuesta); err != nil {
			log.Printf("chatbot: error leyendo opciones rápidas: %v", err)
			httpx.WriteJSON(w, http.StatusOK, []opcionRapida{})
			return
		}
		opciones = append(opciones, o)
	}

	httpx.WriteJSON(w, http.StatusOK, opciones)
}

type chatbotMensajeRequest struct {
	Mensaje        string `json:"mensaje"`
	SessionID      string `json:"session_id"`
	RecaptchaToken string `json:"recaptcha_token"`
}

func (s *Server) handleChatbotMensaje(w http.ResponseWriter, r *http.Request) {
	var req chatbotMensajeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatbotError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Mensaje) == "" {
		writeChatbotError(w, http.StatusBadRequest, "Mensaje vacío")
		return
	}

	// Only tokens that were actually presented are checked.
	if req.RecaptchaToken != "" && !s.verifyRecaptcha(r.Context(), req.RecaptchaToken) {
		writeChatbotError(w, http.StatusBadRequest, "Verificación de seguridad fallida. Por favor, intenta nuevamente.")
		return
	}

	preguntas, err := s.loadPreguntas(r)
	if err != nil {
		log.Printf("chatbot: error cargando preguntas: %v", err)
		writeChatbotError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	respuesta, preguntaID := s.respond.Reply(r.Context(), preguntas, req.Mensaje)

	// Conversation logging is best effort; the answer already exists.
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	var pid any
	if preguntaID > 0 {
		pid = preguntaID
	}
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO chatbot_conversaciones
			(session_id, pregunta_usuario, respuesta_bot, pregunta_id, ip_usuario, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.SessionID, req.Mensaje, respuesta, pid, ip, r.UserAgent(),
	); err != nil {
		log.Printf("chatbot: error guardando conversación: %v", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"respuesta": respuesta,
	})
}

func (s *Server) loadPreguntas(r *http.Request) ([]chatbot.Pregunta, error) {
	rows, err := s.db.QueryContext(r.Context(),
		"SELECT id, pregunta, respuesta, COALESCE(palabras_clave, '') FROM chatbot_preguntas WHERE activo = TRUE ORDER BY orden ASC, id ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preguntas []chatbot.Pregunta
	for rows.Next() {
		var p chatbot.Pregunta
		if err := rows.Scan(&p.ID, &p.Pregunta, &p.Respuesta, &p.PalabrasClave); err != nil {
			return nil, err
		}
		preguntas = append(preguntas, p)
	}
	return preguntas, rows.Err()
}

type conversacionEntry struct {
	Pregunta  string `json:"pregunta"`
	Respuesta string `json:"respuesta"`
	Fecha     string `json:"fecha"`
}

// handleChatbotHistorial returns the turns of one session so the widget
// can restore the thread after a reload.
func (s *Server) handleChatbotHistorial(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeChatbotError(w, http.StatusBadRequest, "session_id requerido")
		return
	}

	rows, err := s.db.QueryContext(r.Context(),
		`SELECT pregunta_usuario, respuesta_bot, fecha_creacion
		 FROM chatbot_conversaciones WHERE session_id = ? ORDER BY id ASC LIMIT 200`,
		sessionID,
	)
	if err != nil {
		writeChatbotError(w, http.StatusInternalServerError, "Error consultando historial")
		return
	}
	defer rows.Close()

	historial := []conversacionEntry{}
	for rows.Next() {
		var e conversacionEntry
		if err := rows.Scan(&e.Pregunta, &e.Respuesta, &e.Fecha); err != nil {
			writeChatbotError(w, http.StatusInternalServerError, "Error leyendo historial")
			return
		}
		historial = append(historial, e)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"historial": historial,
	})
}
