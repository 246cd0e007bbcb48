package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lucasrodor/projeto-financeiro/internal/api/handlers"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: rotas só nesta função
func NewRouter(h *handlers.Handler, store session.Store, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check (sem sessão)
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	app := r.NewRoute().Subrouter()
	app.Use(sessionMiddleware(store, log))

	// Pages
	app.HandleFunc("/", h.Home).Methods("GET")
	app.HandleFunc("/planilhao", h.ScreeningPage).Methods("GET", "POST")
	app.HandleFunc("/estrategia", h.StrategyPage).Methods("GET", "POST")
	app.HandleFunc("/graficos", h.ChartPage).Methods("GET", "POST")

	// JSON API
	api := app.PathPrefix("/api").Subrouter()
	api.HandleFunc("/screening", h.GetScreening).Methods("GET")
	api.HandleFunc("/portfolio", h.PostPortfolio).Methods("POST")
	api.HandleFunc("/chart", h.PostChart).Methods("POST")
	api.HandleFunc("/chart/figure", h.GetChartFigure).Methods("GET")
	api.HandleFunc("/session", h.GetSession).Methods("GET")
	api.HandleFunc("/portfolios", h.ListPortfolios).Methods("GET")

	// Progress push
	app.HandleFunc("/ws/chart", h.ChartStream).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "magic-formula-dashboard",
	})
}

// sessionMiddleware loads the session named by the cookie (or starts one),
// exposes it through the request context and saves it once the handler returns
func sessionMiddleware(store session.Store, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(session.CookieName); err == nil {
				id = c.Value
			}

			sess, err := session.Load(r.Context(), store, id)
			if err != nil {
				log.WithError(err).Warn("Session store unavailable, using a fresh session")
				sess = session.New()
			}

			if sess.ID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))

			if err := store.Save(r.Context(), sess); err != nil {
				log.WithSession(sess.ID).WithError(err).Warn("Failed to save session")
			}
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
