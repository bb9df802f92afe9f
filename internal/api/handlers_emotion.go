package api

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lueurxax/soundscape/internal/companion"
	"github.com/lueurxax/soundscape/internal/core/domain"
)

const defaultHistoryLimit = 100

type analyzeRequest struct {
	Text          string `json:"text" validate:"required_without=AudioBase64,max=5000"`
	AudioBase64   string `json:"audio_base64" validate:"omitempty,base64"`
	AudioFilename string `json:"audio_filename" validate:"omitempty,max=255"`
	UserID        string `json:"user_id" validate:"omitempty,max=128"`
	DeviceType    string `json:"device_type" validate:"omitempty,oneof=mobile desktop fixed_venue ktv"`
	TimeOfDay     string `json:"time_of_day" validate:"omitempty,oneof=morning afternoon evening night"`
}

func (h *Handler) analyzeEmotion(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, r, err)
		return
	}

	if verr := validateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	audio, err := decodeAudio(req.AudioBase64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "audio_base64 is not valid base64", nil)
		return
	}

	res, err := h.svc.Analyze(r.Context(), companion.AnalyzeInput{
		UserID:        req.UserID,
		Text:          req.Text,
		Audio:         audio,
		AudioFilename: req.AudioFilename,
		Context:       personalizationContext(req.DeviceType, req.TimeOfDay),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, res)
}

func decodeAudio(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}

	return base64.StdEncoding.DecodeString(raw)
}

type emotionRecordResponse struct {
	ID          string    `json:"id"`
	EmotionType string    `json:"emotion_type"`
	Intensity   float64   `json:"intensity"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	Text        string    `json:"text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type emotionHistoryResponse struct {
	UserID  string                  `json:"user_id"`
	Since   time.Time               `json:"since"`
	Records []emotionRecordResponse `json:"records"`
}

func (h *Handler) emotionHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	q := r.URL.Query()

	limit, err := parseLimit(q.Get(queryLimit), defaultHistoryLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	since, err := parseSince(q.Get(querySince), h.now(), time.Time{})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	records, err := h.svc.EmotionHistory(r.Context(), userID, since, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := emotionHistoryResponse{
		UserID:  userID,
		Since:   since,
		Records: make([]emotionRecordResponse, len(records)),
	}

	for i, rec := range records {
		out.Records[i] = emotionRecordResponse{
			ID:          rec.ID,
			EmotionType: rec.EmotionType,
			Intensity:   rec.Intensity,
			Confidence:  rec.Confidence,
			Source:      rec.Source,
			Text:        rec.Text,
			CreatedAt:   rec.CreatedAt,
		}
	}

	respondJSON(w, r, http.StatusOK, out)
}

func (h *Handler) emotionStatistics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	since, err := parseSince(r.URL.Query().Get(querySince), h.now(), time.Time{})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	stats, err := h.svc.EmotionStatistics(r.Context(), userID, since)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, stats)
}

type emotionTypeResponse struct {
	Type string `json:"type"`
	domain.EmotionProfile
}

func (h *Handler) emotionTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]emotionTypeResponse, len(domain.KnownEmotions))
	for i, e := range domain.KnownEmotions {
		out[i] = emotionTypeResponse{Type: e, EmotionProfile: domain.ProfileFor(e)}
	}

	respondJSON(w, r, http.StatusOK, out)
}
