package server

import (
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/middleware"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	PlayerDetailsPath = "/api/player/details"
	PlayerHistoryPath = "/api/player/history"
)

// NewRouter mounts the API, health, metrics and static routes behind CORS
// and request-id logging.
func NewRouter(h *PlayerHandler, cfg *config.Config, gatherer prometheus.Gatherer, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+PlayerDetailsPath, h.GetPlayerDetails)
	mux.HandleFunc("GET "+PlayerHistoryPath, h.GetPlayerHistory)
	mux.HandleFunc("GET /health", Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))
	mux.HandleFunc("GET /", spaFallback(cfg.IndexFile))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return middleware.RequestID(logger)(c.Handler(mux))
}

// spaFallback serves the single-page app for any path no other route owns.
func spaFallback(indexFile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"}, zerolog.Ctx(r.Context()))
			return
		}
		if _, err := os.Stat(indexFile); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexFile)
	}
}
