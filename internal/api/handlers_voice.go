package api

import (
	"net/http"

	"github.com/lueurxax/soundscape/internal/companion"
)

type voiceChatRequest struct {
	UserID        string `json:"user_id" validate:"omitempty,max=128"`
	AudioBase64   string `json:"audio_base64" validate:"required_without=Text"`
	AudioFilename string `json:"audio_filename" validate:"omitempty,max=255"`
	Text          string `json:"text" validate:"omitempty,max=5000"`
}

func (h *Handler) voiceChat(w http.ResponseWriter, r *http.Request) {
	var req voiceChatRequest
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

	res, err := h.svc.VoiceChat(r.Context(), companion.VoiceInput{
		UserID:        req.UserID,
		Audio:         audio,
		AudioFilename: req.AudioFilename,
		Text:          req.Text,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, res)
}
