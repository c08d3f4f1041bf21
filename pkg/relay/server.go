package relay

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the diagnostics HTTP router: Prometheus metrics, health,
// and a JSON stats snapshot.
func NewRouter(r *Relay) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)

	// Prometheus metrics endpoint (unprotected for scraping)
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Stats()); err != nil {
			http.Error(w, "failed to encode stats", http.StatusInternalServerError)
		}
	})

	return router
}

// StartDiagnostics serves the diagnostics router on addr. Blocks until the
// server fails.
func StartDiagnostics(addr string, r *Relay) error {
	return http.ListenAndServe(addr, NewRouter(r))
}
