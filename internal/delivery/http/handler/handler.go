package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/leadgen-service/internal/delivery/http/request"
	"github.com/user/leadgen-service/internal/delivery/http/response"
	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
	"github.com/user/leadgen-service/internal/usecase"
)

type Handler struct {
	dashboard usecase.Dashboard
}

func NewHandler(dashboard usecase.Dashboard) *Handler {
	return &Handler{
		dashboard: dashboard,
	}
}

func (h *Handler) HandleStartScrape(w http.ResponseWriter, r *http.Request) {
	var req request.StartScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	runID, err := h.dashboard.StartScrape(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, usecase.ErrQueryRecentlyScraped):
			h.writeJSONError(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("Failed to start scrape", "query", req.Query, "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.StartScrapeResponse{
		Status:  "accepted",
		Message: "Scrape run started",
		RunID:   runID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleScrapeStatus(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		h.writeJSONError(w, "run_id query parameter is required", http.StatusBadRequest)
		return
	}

	progress, err := h.dashboard.Progress(r.Context(), runID)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			h.writeJSONError(w, "Scrape run not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get scrape status", "run_id", runID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) HandleListBusinesses(w http.ResponseWriter, r *http.Request) {
	filter := repository.BusinessFilter{
		Keyword: r.URL.Query().Get("keyword"),
	}
	if raw := r.URL.Query().Get("contacted"); raw != "" {
		contacted, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeJSONError(w, "contacted must be a boolean", http.StatusBadRequest)
			return
		}
		filter.Contacted = &contacted
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	businesses, err := h.dashboard.ListBusinesses(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list businesses", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if businesses == nil {
		businesses = []*entity.Business{}
	}
	resp := response.BusinessListResponse{
		Count:      len(businesses),
		Businesses: businesses,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleMarkContacted(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeJSONError(w, "Business ID is required", http.StatusBadRequest)
		return
	}

	var req request.MarkContactedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.dashboard.MarkContacted(r.Context(), id, req.Contacted); err != nil {
		slog.Error("Failed to mark business contacted", "id", id, "error", err)
		h.writeJSONError(w, "Business not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.dashboard.Keywords(r.Context())
	if err != nil {
		slog.Error("Failed to get keywords", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.KeywordsResponse{Keywords: keywords})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
