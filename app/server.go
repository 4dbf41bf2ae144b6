package app

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Router serves /metrics and the health endpoints.
func (app *App) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})).Methods(http.MethodGet)
	app.health.RegisterRoutes(router)

	if app.cfg.Server.RateLimit > 0 {
		limit := app.cfg.Server.RateLimit
		router.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(limit), limit*2)))
	}
	return router
}

// Handler wraps Router with panic recovery and, when origins are
// configured, CORS.
func (app *App) Handler() http.Handler {
	var h http.Handler = app.Router()
	if len(app.cfg.Server.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(app.cfg.Server.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{app}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type recoveryLogger struct{ app *App }

func (l recoveryLogger) Println(v ...any) {
	l.app.logger.Error("http handler panicked", "panic", v)
}
