package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/platform/config"
)

// EmotionAnalysis is the structured result of classifying a piece of text.
type EmotionAnalysis struct {
	PrimaryEmotion    string   `json:"primary_emotion"`
	Confidence        float64  `json:"confidence"`
	Intensity         float64  `json:"intensity"`
	SecondaryEmotions []string `json:"secondary_emotions"`
	Reasoning         string   `json:"reasoning"`

	// Fallback is set when the provider could not produce a usable answer
	// and the neutral default was returned instead.
	Fallback bool `json:"-"`
}

// Client is the generative AI surface used by the companion service.
type Client interface {
	// AnalyzeEmotion never fails on provider or parse errors; it returns the
	// neutral fallback instead. Only context cancellation is reported.
	AnalyzeEmotion(ctx context.Context, text string) (EmotionAnalysis, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	CompanionReply(ctx context.Context, text, emotion string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// UsageStore persists aggregated token usage.
type UsageStore interface {
	IncrementLLMUsage(ctx context.Context, provider, model, task string, promptTokens, completionTokens int) error
}

// New returns the OpenAI-backed client, or the offline mock when no key is configured.
func New(cfg *config.Config, recorder UsageRecorder, logger *zerolog.Logger) Client {
	if recorder == nil {
		recorder = NoopUsageRecorder()
	}

	if cfg.UseMockLLM() {
		logger.Warn().Msg("LLM API key not set, using mock client")

		return NewMock()
	}

	return NewOpenAI(cfg, recorder, logger)
}

func neutralAnalysis() EmotionAnalysis {
	return EmotionAnalysis{
		PrimaryEmotion: fallbackEmotion,
		Confidence:     fallbackConfidence,
		Intensity:      fallbackIntensity,
		Reasoning:      fallbackReasoning,
		Fallback:       true,
	}
}
