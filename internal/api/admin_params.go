package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dh2ocol/internal/httpx"
)

func (s *Server) handleAdminQuoteParamsGet(w http.ResponseWriter, r *http.Request) {
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

// handleAdminQuoteParamsSet upserts pricing overrides. Only quote_* keys
// with positive values are accepted; anything else would silently break
// the wizard.
func (s *Server) handleAdminQuoteParamsSet(w http.ResponseWriter, r *http.Request) {
	var params map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if len(params) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "Sin parámetros que guardar")
		return
	}

	for clave, valor := range params {
		if !strings.HasPrefix(clave, "quote_") || valor <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "Parámetro inválido: "+clave)
			return
		}
	}

	for clave, valor := range params {
		if _, err := s.db.ExecContext(r.Context(),
			`INSERT INTO configuracion (clave, valor) VALUES (?, ?)
			 ON DUPLICATE KEY UPDATE valor = VALUES(valor)`,
			clave, strconv.FormatFloat(valor, 'f', -1, 64),
		); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error guardando parámetros")
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type adminPregunta struct {
	ID            int64  `json:"id"`
	Pregunta      string `json:"pregunta"`
	Respuesta     string `json:"respuesta"`
	PalabrasClave string `json:"palabras_clave"`
	Categoria     string `json:"categoria"`
	Activo        bool   `json:"activo"`
	Orden         int    `json:"orden"`
}

func (s *Server) handleAdminPreguntasList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, pregunta, respuesta, COALESCE(palabras_clave, ''), COALESCE(categoria, ''), activo, orden
		 FROM chatbot_preguntas ORDER BY orden ASC, id ASC`,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando preguntas")
		return
	}
	defer rows.Close()

	preguntas := []adminPregunta{}
	for rows.Next() {
		var p adminPregunta
		if err := rows.Scan(&p.ID, &p.Pregunta, &p.Respuesta, &p.PalabrasClave, &p.Categoria, &p.Activo, &p.Orden); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error leyendo preguntas")
			return
		}
		preguntas = append(preguntas, p)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"preguntas": preguntas,
	})
}

func (s *Server) handleAdminPreguntaCreate(w http.ResponseWriter, r *http.Request) {
	var p adminPregunta
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(p.Pregunta) == "" || strings.TrimSpace(p.Respuesta) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Pregunta y respuesta requeridas")
		return
	}

	res, err := s.db.ExecContext(r.Context(),
		`INSERT INTO chatbot_preguntas (pregunta, respuesta, palabras_clave, categoria, activo, orden)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Pregunta, p.Respuesta, p.PalabrasClave, p.Categoria, true, p.Orden,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error guardando pregunta")
		return
	}

	id, _ := res.LastInsertId()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      id,
	})
}

func (s *Server) handleAdminPreguntaUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "id inválido")
		return
	}

	var p adminPregunta
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(p.Pregunta) == "" || strings.TrimSpace(p.Respuesta) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Pregunta y respuesta requeridas")
		return
	}

	res, err := s.db.ExecContext(r.Context(),
		`UPDATE chatbot_preguntas
		 SET pregunta = ?, respuesta = ?, palabras_clave = ?, categoria = ?, activo = ?, orden = ?
		 WHERE id = ?`,
		p.Pregunta, p.Respuesta, p.PalabrasClave, p.Categoria, p.Activo, p.Orden, id,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error actualizando pregunta")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// The row may exist with identical values; verify before failing.
		var exists int
		if err := s.db.QueryRowContext(r.Context(), "SELECT 1 FROM chatbot_preguntas WHERE id = ?", id).Scan(&exists); err != nil {
			httpx.WriteError(w, http.StatusNotFound, "Pregunta no encontrada")
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAdminPreguntaDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "id inválido")
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		"DELETE FROM chatbot_preguntas WHERE id = ?", id,
	); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error eliminando pregunta")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

type adminConversacion struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Pregunta  string `json:"pregunta_usuario"`
	Respuesta string `json:"respuesta_bot"`
	Fecha     string `json:"fecha_creacion"`
}

func (s *Server) handleAdminConversacionesList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, session_id, pregunta_usuario, respuesta_bot, fecha_creacion
		 FROM chatbot_conversaciones ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando conversaciones")
		return
	}
	defer rows.Close()

	conversaciones := []adminConversacion{}
	for rows.Next() {
		var c adminConversacion
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Pregunta, &c.Respuesta, &c.Fecha); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error leyendo conversaciones")
			return
		}
		conversaciones = append(conversaciones, c)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"conversaciones": conversaciones,
	})
}

type adminCotizacion struct {
	ID             int64  `json:"id"`
	Servicio       string `json:"servicio"`
	Nombre         string `json:"nombre_cliente"`
	Telefono       string `json:"telefono_cliente"`
	Correo         string `json:"correo_cliente"`
	ValorEstimado  int64  `json:"valor_estimado"`
	TiempoEstimado string `json:"tiempo_estimado"`
	Fecha          string `json:"fecha_creacion"`
}

func (s *Server) handleAdminCotizacionesList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, servicio, COALESCE(nombre_cliente, ''), COALESCE(telefono_cliente, ''),
			COALESCE(correo_cliente, ''), COALESCE(valor_estimado, 0), COALESCE(tiempo_estimado, ''), fecha_creacion
		 FROM cotizaciones ORDER BY id DESC LIMIT 200`,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando cotizaciones")
		return
	}
	defer rows.Close()

	cotizaciones := []adminCotizacion{}
	for rows.Next() {
		var c adminCotizacion
		if err := rows.Scan(&c.ID, &c.Servicio, &c.Nombre, &c.Telefono, &c.Correo, &c.ValorEstimado, &c.TiempoEstimado, &c.Fecha); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error leyendo cotizaciones")
			return
		}
		cotizaciones = append(cotizaciones, c)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"cotizaciones": cotizaciones,
	})
}

type adminContacto struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Empresa  string `json:"empresa"`
	Mensaje  string `json:"mensaje"`
	Estado   string `json:"estado"`
	Fecha    string `json:"fecha_creacion"`
}

func (s *Server) handleAdminContactosList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, nombre, email, COALESCE(telefono, ''), COALESCE(empresa, ''), mensaje, COALESCE(estado, 'nuevo'), fecha_creacion
		 FROM contactos ORDER BY id DESC LIMIT 200`,
	)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando contactos")
		return
	}
	defer rows.Close()

	contactos := []adminContacto{}
	for rows.Next() {
		var c adminContacto
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Email, &c.Telefono, &c.Empresa, &c.Mensaje, &c.Estado, &c.Fecha); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error leyendo contactos")
			return
		}
		contactos = append(contactos, c)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"contactos": contactos,
	})
}

func (s *Server) handleAdminEstadisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := s.fetchVisitorStats(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando estadísticas")
		return
	}

	counts := map[string]int64{}
	for name, query := range map[string]string{
		"cotizaciones":   "SELECT COUNT(*) FROM cotizaciones",
		"contactos":      "SELECT COUNT(*) FROM contactos",
		"conversaciones": "SELECT COUNT(*) FROM chatbot_conversaciones",
	} {
		var n int64
		if err := s.db.QueryRowContext(r.Context(), query).Scan(&n); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "Error consultando estadísticas")
			return
		}
		counts[name] = n
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"visitas":        stats,
		"cotizaciones":   counts["cotizaciones"],
		"contactos":      counts["contactos"],
		"conversaciones": counts["conversaciones"],
	})
}
