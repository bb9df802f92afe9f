package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/errors"
	"github.com/lueurxax/soundscape/internal/platform/config"
)

type recordedUsage struct {
	task    string
	success bool
	prompt  int
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedUsage
}

func (f *fakeRecorder) RecordTokenUsage(_, _, task string, promptTokens, _ int, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, recordedUsage{task: task, success: success, prompt: promptTokens})
}

func (f *fakeRecorder) Close() {}

func chatCompletionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
	}
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (*openaiClient, *fakeRecorder) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-4o-mini"
	cfg.RateLimitRPS = 1000
	cfg.CircuitThreshold = 2

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = srv.URL + "/v1"

	logger := zerolog.Nop()
	rec := &fakeRecorder{}

	return newOpenAIClient(cfg, openai.NewClientWithConfig(clientCfg), rec, &logger), rec
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestOpenAI_AnalyzeEmotion(t *testing.T) {
	var gotReq openai.ChatCompletionRequest

	c, rec := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		writeJSON(t, w, chatCompletionBody(`{"primary_emotion":"anxious","confidence":0.85,"intensity":0.7,"secondary_emotions":["sad"],"reasoning":"worried tone"}`))
	})

	got, err := c.AnalyzeEmotion(context.Background(), "I can't stop worrying about tomorrow")
	require.NoError(t, err)

	assert.Equal(t, "anxious", got.PrimaryEmotion)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.InDelta(t, 0.7, got.Intensity, 1e-9)
	assert.Equal(t, []string{"sad"}, got.SecondaryEmotions)
	assert.False(t, got.Fallback)

	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, recordedUsage{task: TaskEmotion, success: true, prompt: 12}, rec.calls[0])
}

func TestOpenAI_AnalyzeEmotion_FallbackOnGarbage(t *testing.T) {
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, chatCompletionBody("the user seems fine"))
	})

	got, err := c.AnalyzeEmotion(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, fallbackEmotion, got.PrimaryEmotion)
	assert.InDelta(t, fallbackIntensity, got.Intensity, 1e-9)
}

func TestOpenAI_AnalyzeEmotion_FallbackOnServerErrorThenCircuitOpens(t *testing.T) {
	var hits atomic.Int32

	c, rec := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)

		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(t, w, map[string]any{"error": map[string]any{"message": "boom", "type": "server_error"}})
	})

	for range 3 {
		got, err := c.AnalyzeEmotion(context.Background(), "hello")
		require.NoError(t, err)
		assert.True(t, got.Fallback)
	}

	assert.Equal(t, int32(2), hits.Load(), "third call is short-circuited")
	_, err := c.circuit.allow()
	assert.ErrorIs(t, err, errors.ErrCircuitBreakerOpen)

	for _, call := range rec.calls {
		assert.False(t, call.success)
	}
}

func TestOpenAI_CompanionReply(t *testing.T) {
	var gotReq openai.ChatCompletionRequest

	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		writeJSON(t, w, chatCompletionBody("  It's okay to feel this way.  "))
	})

	reply, err := c.CompanionReply(context.Background(), "I failed my exam", "sad")
	require.NoError(t, err)
	assert.Equal(t, "It's okay to feel this way.", reply)
	assert.Nil(t, gotReq.ResponseFormat)
	assert.Contains(t, gotReq.Messages[0].Content, companionTones["sad"])
}

func TestOpenAI_Transcribe(t *testing.T) {
	c, rec := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, openai.Whisper1, r.FormValue("model"))

		writeJSON(t, w, map[string]any{"text": " hello there "})
	})

	text, err := c.Transcribe(context.Background(), []byte("fake-audio"), "")
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, TaskTranscribe, rec.calls[0].task)

	_, err = c.Transcribe(context.Background(), nil, "")
	assert.ErrorIs(t, err, errors.ErrNoInput)
}

func TestOpenAI_SynthesizeSpeech(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04}

	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)

		var req openai.CreateSpeechRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.VoiceNova, req.Voice)
		assert.Equal(t, openai.SpeechResponseFormatMp3, req.ResponseFormat)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	})

	got, err := c.SynthesizeSpeech(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, audio, got)
}
