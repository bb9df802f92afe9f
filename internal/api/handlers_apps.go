package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

type appsResponse struct {
	Apps  []*domain.CatalogItem `json:"apps"`
	Total int                   `json:"total"`
}

func (h *Handler) listApps(w http.ResponseWriter, r *http.Request) {
	apps := h.svc.Apps()
	respondJSON(w, r, http.StatusOK, appsResponse{Apps: apps, Total: len(apps)})
}

func (h *Handler) getApp(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.App(chi.URLParam(r, "key"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, item)
}

type usageRequest struct {
	UserID         string `json:"user_id" validate:"required,max=128"`
	AppKey         string `json:"app_key" validate:"required,max=64"`
	Mode           string `json:"mode" validate:"omitempty,max=64"`
	TriggerEmotion string `json:"trigger_emotion" validate:"omitempty,emotion"`
	DurationSec    int    `json:"duration_sec" validate:"gte=0"`
}

type usageResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) recordUsage(w http.ResponseWriter, r *http.Request) {
	var req usageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	if verr := validateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	u := &domain.AppUsage{
		UserID:         req.UserID,
		ItemKey:        req.AppKey,
		Mode:           req.Mode,
		TriggerEmotion: req.TriggerEmotion,
		DurationSec:    req.DurationSec,
	}

	if err := h.svc.RecordUsage(r.Context(), u); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, usageResponse{ID: u.ID, CreatedAt: u.CreatedAt})
}
