package api

import (
	"database/sql"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"dh2ocol/internal/chatbot"
	"dh2ocol/internal/config"
	"dh2ocol/internal/geocode"
)

type Server struct {
	db       *sql.DB
	cfg      config.Config
	geo      *geocode.Client
	respond  *chatbot.Responder
	statsHub *statsHub
}

func NewServer(db *sql.DB, cfg config.Config) *Server {
	s := &Server{
		db:  db,
		cfg: cfg,
		geo: geocode.New(cfg.GeocodeBaseURL, cfg.GeocodeTimeout),
	}

	s.respond = &chatbot.Responder{}
	if cfg.OpenAIUseGPT && cfg.OpenAIAPIKey != "" {
		s.respond.Fallback = chatbot.NewGPT(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	s.statsHub = newStatsHub()
	go s.runStatsPushLoop()
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// CORS / preflight for the widgets embedded in other pages.
	r.Options("/*", func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		allowed := "*"
		if s.cfg.CORSAllowOrigins != "" {
			allowed = s.cfg.CORSAllowOrigins
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/health/db", s.handleHealthDB)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/contacto", s.handleContacto)

		// Chatbot.
		r.Get("/chatbot/opciones-rapidas", s.handleChatbotOpcionesRapidas)
		r.Post("/chatbot/mensaje", s.handleChatbotMensaje)
		r.Get("/chatbot/historial", s.handleChatbotHistorial)

		// Quotation wizard.
		r.Get("/quote/params", s.handleQuoteParams)
		r.Post("/cotizar", s.handleCotizar)
		r.Post("/quote/email", s.handleQuoteEmail)
		r.Post("/quote/upload", s.handleQuoteUpload)
		r.Post("/quote/delete", s.handleQuoteDelete)

		// Visit counter and analytics.
		r.Post("/visitor-count", s.handleVisitorCount)
		r.Post("/analytics", s.handleAnalytics)
		r.Get("/visitor-stats", s.handleVisitorStats)
		r.Get("/visitor-stats/ws", s.handleVisitorStatsWS)

		// Country badge.
		r.Get("/geo/pais", s.handleGeoPais)
		r.Get("/geo/bootstrap", s.handleGeoBootstrap)
		r.Post("/geo/consent", s.handleGeoConsent)
	})

	// Contact form.
	r.Post("/contacto", s.handleContacto)

	// Social redirects kept at the root, as linked from printed material.
	r.Get("/facebook", redirectTo("https://www.facebook.com/dh2ocol/"))
	r.Get("/youtube", redirectTo("https://www.youtube.com/channel/UCB0AwlxNPFnN5TeDyfNEHZQ"))
	r.Get("/instagram", redirectTo("https://www.instagram.com/dh2ocol"))
	r.Get("/tiktok", redirectTo("https://www.tiktok.com/@dh2ocol"))
	r.Get("/whatsapp", s.handleWhatsAppRedirect)
	r.Get("/app", s.handleAppRedirect)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleAdminLogin)
		r.Post("/refresh-token", s.handleAdminRefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdminJWT)

			r.Get("/quote-params", s.handleAdminQuoteParamsGet)
			r.Post("/quote-params", s.handleAdminQuoteParamsSet)

			r.Get("/chatbot/preguntas", s.handleAdminPreguntasList)
			r.Post("/chatbot/preguntas", s.handleAdminPreguntaCreate)
			r.Put("/chatbot/preguntas/{id}", s.handleAdminPreguntaUpdate)
			r.Delete("/chatbot/preguntas/{id}", s.handleAdminPreguntaDelete)
			r.Get("/chatbot/conversaciones", s.handleAdminConversacionesList)

			r.Get("/cotizaciones", s.handleAdminCotizacionesList)
			r.Get("/contactos", s.handleAdminContactosList)
			r.Get("/estadisticas", s.handleAdminEstadisticas)
		})
	})

	return r
}

// Handler composes the API routes with the static site. Every non-API
// path falls through to the SPA, so backend paths served from the root
// must be forwarded explicitly.
func (s *Server) Handler() http.Handler {
	apiHandler := s.Routes()

	dir := strings.TrimSpace(s.cfg.StaticDir)
	if dir == "" {
		return apiHandler
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/admin/", apiHandler)
	mux.Handle("/contacto", apiHandler)
	mux.Handle("/health", apiHandler)
	mux.Handle("/health/", apiHandler)
	for _, p := range []string{"/facebook", "/youtube", "/instagram", "/tiktok", "/whatsapp", "/app"} {
		mux.Handle(p, apiHandler)
	}
	mux.Handle("/", SPAHandler(dir))
	return mux
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}

// SPAHandler serves the prebuilt site and falls back to index.html so
// deep links keep working.
func SPAHandler(staticDir string) http.Handler {
	fsys := os.DirFS(staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Hashed assets can be cached aggressively.
		if strings.HasPrefix(path, "assets/") || strings.HasPrefix(path, "static/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}

		f, err := fsys.Open(path)
		if err == nil {
			defer f.Close()
			http.FileServer(http.FS(fsys)).ServeHTTP(w, r)
			return
		}

		r.URL.Path = "/index.html"
		_, _ = fs.Stat(fsys, "index.html")
		http.FileServer(http.FS(fsys)).ServeHTTP(w, r)
	})
}
