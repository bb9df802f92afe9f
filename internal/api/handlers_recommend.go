package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lueurxax/soundscape/internal/companion"
	"github.com/lueurxax/soundscape/internal/core/domain"
)

const defaultTopLimit = 10

type recommendRequest struct {
	EmotionType string   `json:"emotion_type" validate:"required,emotion"`
	Intensity   *float64 `json:"emotion_intensity"`
	UserID      string   `json:"user_id" validate:"omitempty,max=128"`
	DeviceType  string   `json:"device_type" validate:"omitempty,oneof=mobile desktop fixed_venue ktv"`
	TimeOfDay   string   `json:"time_of_day" validate:"omitempty,oneof=morning afternoon evening night"`
}

func (req *recommendRequest) input() companion.RecommendInput {
	intensity := domain.DefaultIntensity
	if req.Intensity != nil {
		intensity = *req.Intensity
	}

	return companion.RecommendInput{
		UserID:      req.UserID,
		EmotionType: req.EmotionType,
		Intensity:   intensity,
		Context:     personalizationContext(req.DeviceType, req.TimeOfDay),
	}
}

type preferenceBody struct {
	ExcludedTypes     []string `json:"excluded_types" validate:"max=20,dive,max=64"`
	PreferredFeatures []string `json:"preferred_features" validate:"max=50,dive,max=64"`
}

type personalizeRequest struct {
	recommendRequest
	Preference preferenceBody `json:"preference"`
}

func (h *Handler) recommendApps(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	if verr := validateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	resp, err := h.svc.Recommend(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) personalize(w http.ResponseWriter, r *http.Request) {
	var req personalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	if verr := validateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	in := req.input()
	in.Preference = &domain.UserPreference{
		ExcludedTypes:     req.Preference.ExcludedTypes,
		PreferredFeatures: req.Preference.PreferredFeatures,
	}

	resp, err := h.svc.Recommend(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) recommendForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	q := r.URL.Query()

	var pref *domain.UserPreference
	if q.Has(queryExcluded) || q.Has(queryPreferred) {
		pref = &domain.UserPreference{
			ExcludedTypes:     splitList(q.Get(queryExcluded)),
			PreferredFeatures: splitList(q.Get(queryPreferred)),
		}
	}

	resp, err := h.svc.RecommendForUser(r.Context(), userID, pref, personalizationContext(q.Get(queryDeviceType), q.Get(queryTimeOfDay)))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}

type topAppsResponse struct {
	Since time.Time          `json:"since"`
	Apps  []companion.TopApp `json:"apps"`
}

func (h *Handler) topApps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get(queryLimit), defaultTopLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	since, err := parseSince(q.Get(querySince), h.now(), time.Time{})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	apps, err := h.svc.TopApps(r.Context(), since, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, topAppsResponse{Since: since, Apps: apps})
}

type feedbackRequest struct {
	UserID         string `json:"user_id" validate:"required,max=128"`
	RecommendedApp string `json:"recommended_app" validate:"required"`
	SelectedApp    string `json:"selected_app"`
	Satisfaction   int    `json:"satisfaction" validate:"required,gte=1,lte=5"`
}

type feedbackResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	if verr := validateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	fb := &domain.Feedback{
		UserID:         req.UserID,
		RecommendedKey: req.RecommendedApp,
		SelectedKey:    req.SelectedApp,
		Satisfaction:   req.Satisfaction,
	}

	if err := h.svc.SubmitFeedback(r.Context(), fb); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, feedbackResponse{ID: fb.ID, CreatedAt: fb.CreatedAt})
}
