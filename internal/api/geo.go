package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"dh2ocol/internal/geoconsent"
	"dh2ocol/internal/geocode"
	"dh2ocol/internal/httpx"
	"dh2ocol/internal/visitors"
)

// resolverFor scopes consent state to a browser identity: client_id plays
// the durable role, session_id the per-session role.
func (s *Server) resolverFor(clientID, sessionID string) *geoconsent.Resolver {
	durable := visitors.NewSQLStore(s.db, "cliente:"+clientID)
	session := visitors.NewSQLStore(s.db, "sesion:"+sessionID)
	return geoconsent.NewResolver(durable, session)
}

// handleGeoPais resolves coordinates to a country name. Upstream trouble
// degrades to the fallback name so the badge never breaks the page.
func (s *Server) handleGeoPais(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(q.Get("lon")), 64)
	if errLat != nil || errLon != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Coordenadas inválidas")
		return
	}

	sessionID := strings.TrimSpace(q.Get("session_id"))
	if sessionID != "" {
		resolver := s.resolverFor("", sessionID)
		if cached, err := resolver.CachedCountry(r.Context()); err == nil && cached != "" {
			httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "pais": cached, "cached": true})
			return
		}
	}

	pais, err := s.geo.CountryName(r.Context(), lat, lon)
	if err != nil {
		log.Printf("geo: error de geocodificación inversa: %v", err)
		pais = geocode.FallbackCountry
	}

	if sessionID != "" && pais != geocode.FallbackCountry {
		if err := s.resolverFor("", sessionID).SetCountry(r.Context(), pais); err != nil {
			log.Printf("geo: error cacheando país: %v", err)
		}
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "pais": pais})
}

// handleGeoBootstrap tells the widget what to do on page load.
func (s *Server) handleGeoBootstrap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID := strings.TrimSpace(q.Get("client_id"))
	sessionID := strings.TrimSpace(q.Get("session_id"))
	if clientID == "" || sessionID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "client_id y session_id requeridos")
		return
	}

	resolver := s.resolverFor(clientID, sessionID)
	action, err := resolver.Bootstrap(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando consentimiento")
		return
	}
	pais, err := resolver.CachedCountry(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando consentimiento")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"action":  action,
		"pais":    pais,
	})
}

type geoConsentRequest struct {
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`
	Choice    string `json:"choice"`
}

func (s *Server) handleGeoConsent(w http.ResponseWriter, r *http.Request) {
	var req geoConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.SessionID) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "client_id y session_id requeridos")
		return
	}

	choice, err := geoconsent.ParseChoice(strings.TrimSpace(req.Choice))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Opción de consentimiento desconocida")
		return
	}

	locate, err := s.resolverFor(req.ClientID, req.SessionID).Apply(r.Context(), choice)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error guardando consentimiento")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"locate":  locate,
	})
}
