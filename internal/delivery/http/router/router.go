package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/leadgen-service/internal/delivery/http/handler"
	"github.com/user/leadgen-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/scrape", h.HandleStartScrape)
	mux.HandleFunc("GET /api/scrape/status", h.HandleScrapeStatus)
	mux.HandleFunc("GET /api/businesses", h.HandleListBusinesses)
	mux.HandleFunc("POST /api/businesses/{id}/contacted", h.HandleMarkContacted)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /api/keywords", h.HandleKeywords)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
