package llm

import "time"

// Error message templates
const (
	errRateLimiter          = "rate limiter error: %w"
	errOpenAIChatCompletion = "openai chat completion error: %w"
	errOpenAITranscription  = "openai transcription error: %w"
	errOpenAISpeech         = "openai speech error: %w"
	errParseResponse        = "failed to parse response: %w"
)

// Provider and task labels used in metrics and usage rows.
const (
	ProviderOpenAI = "openai"

	TaskEmotion    = "emotion"
	TaskReply      = "companion_reply"
	TaskTranscribe = "transcribe"
	TaskSpeech     = "speech"

	StatusSuccess = "success"
	StatusError   = "error"
)

// Fallback analysis values.
const (
	fallbackEmotion    = "neutral"
	fallbackConfidence = 0.5
	fallbackIntensity  = 0.5
	fallbackReasoning  = "analysis unavailable"
)

const (
	rateLimiterBurst        = 5
	defaultCircuitThreshold = 5
	defaultCircuitTimeout   = 1 * time.Minute
	usageStorageTimeout     = 5 * time.Second
	usageQueueSize          = 256

	emotionTemperature = 0.3
	replyTemperature   = 0.8
	replyMaxTokens     = 300
	emotionMaxTokens   = 300

	defaultAudioFilename = "audio.webm"
	maxLoggedChars       = 200
)

// Log key strings
const (
	logKeyTask     = "task"
	logKeyModel    = "model"
	logKeyResponse = "response"
)
