package llm

import (
	"context"
	"strings"

	"github.com/lueurxax/soundscape/internal/core/errors"
)

const (
	mockConfidence    = 0.6
	mockIntensity     = 0.6
	mockTranscription = "mock transcription"
)

// mockKeywords drives the offline classifier. Order matters: the first hit wins.
var mockKeywords = []struct {
	emotion  string
	keywords []string
}{
	{emotion: "sad", keywords: []string{"sad", "lonely", "cry", "tired", "难过", "伤心"}},
	{emotion: "anxious", keywords: []string{"anxious", "worried", "nervous", "stress", "焦虑"}},
	{emotion: "angry", keywords: []string{"angry", "furious", "hate", "生气"}},
	{emotion: "excited", keywords: []string{"excited", "can't wait", "amazing", "激动"}},
	{emotion: "happy", keywords: []string{"happy", "glad", "great", "love", "开心"}},
	{emotion: "calm", keywords: []string{"calm", "relaxed", "peaceful", "平静"}},
}

// mockClient implements Client without network access.
type mockClient struct{}

// NewMock creates an offline client with a keyword based emotion classifier.
func NewMock() Client {
	return &mockClient{}
}

// AnalyzeEmotion implements Client interface.
func (m *mockClient) AnalyzeEmotion(_ context.Context, text string) (EmotionAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return EmotionAnalysis{}, errors.ErrNoInput
	}

	lower := strings.ToLower(text)

	for _, k := range mockKeywords {
		for _, kw := range k.keywords {
			if strings.Contains(lower, kw) {
				return EmotionAnalysis{
					PrimaryEmotion: k.emotion,
					Confidence:     mockConfidence,
					Intensity:      mockIntensity,
					Reasoning:      "keyword match: " + kw,
				}, nil
			}
		}
	}

	return neutralAnalysis(), nil
}

// Transcribe implements Client interface.
func (m *mockClient) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	if len(audio) == 0 {
		return "", errors.ErrNoInput
	}

	return mockTranscription, nil
}

// CompanionReply implements Client interface.
func (m *mockClient) CompanionReply(_ context.Context, text, emotion string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.ErrNoInput
	}

	return "I hear you. It sounds like you are feeling " + emotion + ".", nil
}

// SynthesizeSpeech returns nil audio for the mock client.
func (m *mockClient) SynthesizeSpeech(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}

var _ Client = (*mockClient)(nil)
