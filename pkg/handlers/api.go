package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/apperrors"
	"github.com/stokeshomestead/farmops/pkg/repositories"
	"github.com/stokeshomestead/farmops/pkg/services"
)

// APIHandler serves the read-only JSON API behind the dashboard.
type APIHandler struct {
	stats      services.StatsService
	cattleRepo repositories.CattleRepository
	logger     *zap.Logger
}

// NewAPIHandler creates a new APIHandler with dependencies.
func NewAPIHandler(stats services.StatsService, cattleRepo repositories.CattleRepository, logger *zap.Logger) *APIHandler {
	return &APIHandler{stats: stats, cattleRepo: cattleRepo, logger: logger}
}

// RegisterRoutes registers the API handler's routes on the given mux.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/cattle", h.ListCattle)
	mux.HandleFunc("GET /api/cattle/{tag}", h.GetCattle)
}

// Stats handles GET /api/stats with the herd overview.
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("Failed to compute herd overview", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to compute stats")
		return
	}

	if err := WriteJSON(w, http.StatusOK, overview); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}

// ListCattle handles GET /api/cattle. The status query parameter filters the
// herd; it defaults to active animals.
func (h *APIHandler) ListCattle(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "active"
	}

	cattle, err := h.cattleRepo.List(r.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list cattle", zap.String("status", status), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list cattle")
		return
	}

	if err := WriteJSON(w, http.StatusOK, cattle); err != nil {
		h.logger.Error("Failed to encode cattle response", zap.Error(err))
	}
}

// GetCattle handles GET /api/cattle/{tag} with one animal's record.
func (h *APIHandler) GetCattle(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")

	animal, err := h.cattleRepo.GetByTag(r.Context(), tag)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "no animal with that tag")
			return
		}
		h.logger.Error("Failed to fetch animal", zap.String("tag", tag), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to fetch animal")
		return
	}

	if err := WriteJSON(w, http.StatusOK, animal); err != nil {
		h.logger.Error("Failed to encode animal response", zap.Error(err))
	}
}
