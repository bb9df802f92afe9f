package api

import (
	"net/http"
	"time"
)

const defaultUsageLookback = 7 * 24 * time.Hour

type llmUsageRow struct {
	Date             string `json:"date"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Task             string `json:"task"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
	RequestCount     int    `json:"request_count"`
}

func (h *Handler) llmUsage(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	since, err := parseSince(r.URL.Query().Get(querySince), now, now.Add(-defaultUsageLookback))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	usage, err := h.svc.LLMUsage(r.Context(), since)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	rows := make([]llmUsageRow, len(usage))
	for i, u := range usage {
		rows[i] = llmUsageRow{
			Date:             u.Date.Format(time.DateOnly),
			Provider:         u.Provider,
			Model:            u.Model,
			Task:             u.Task,
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			RequestCount:     u.RequestCount,
		}
	}

	respondJSON(w, r, http.StatusOK, rows)
}
