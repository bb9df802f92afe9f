package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/lueurxax/soundscape/internal/core/errors"
	"github.com/lueurxax/soundscape/internal/platform/config"
	"github.com/lueurxax/soundscape/internal/platform/observability"
)

type openaiClient struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
	circuit     *circuit
	recorder    UsageRecorder
}

// NewOpenAI creates a client for the OpenAI API or any compatible endpoint.
func NewOpenAI(cfg *config.Config, recorder UsageRecorder, logger *zerolog.Logger) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return newOpenAIClient(cfg, openai.NewClientWithConfig(clientCfg), recorder, logger)
}

func newOpenAIClient(cfg *config.Config, client *openai.Client, recorder UsageRecorder, logger *zerolog.Logger) *openaiClient {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 1
	}

	return &openaiClient{
		cfg:         cfg,
		client:      client,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst), // User-defined RPS, burst 5
		circuit:     newCircuit(ProviderOpenAI, cfg.CircuitThreshold, cfg.CircuitTimeout, logger),
		recorder:    recorder,
	}
}

// before runs the shared circuit and rate limit gate for every call.
// The returned callback must receive the outcome of the upstream call.
func (c *openaiClient) before(ctx context.Context) (func(error), error) {
	done, err := c.circuit.allow()
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		done(ctx.Err())

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf(errRateLimiter, ctxErr)
		}

		return nil, fmt.Errorf(errRateLimiter, fmt.Errorf("%w: %w", errors.ErrRateLimited, err))
	}

	return done, nil
}

func (c *openaiClient) AnalyzeEmotion(ctx context.Context, text string) (EmotionAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return EmotionAnalysis{}, errors.ErrNoInput
	}

	content, err := c.chat(ctx, TaskEmotion, chatRequest{
		system:      emotionSystemPrompt,
		user:        buildEmotionUserPrompt(text),
		temperature: emotionTemperature,
		maxTokens:   emotionMaxTokens,
		jsonOutput:  true,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return EmotionAnalysis{}, fmt.Errorf("analyze emotion: %w", ctxErr)
		}

		c.logger.Warn().Err(err).Msg("emotion analysis failed, using neutral fallback")

		return neutralAnalysis(), nil
	}

	res, err := parseEmotionAnalysis(content)
	if err != nil {
		c.logger.Warn().Err(err).Str(logKeyResponse, truncate(content, maxLoggedChars)).Msg("unparseable emotion analysis, using neutral fallback")

		return neutralAnalysis(), nil
	}

	return res, nil
}

func (c *openaiClient) CompanionReply(ctx context.Context, text, emotion string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.ErrNoInput
	}

	content, err := c.chat(ctx, TaskReply, chatRequest{
		system:      buildCompanionSystemPrompt(emotion),
		user:        text,
		temperature: replyTemperature,
		maxTokens:   replyMaxTokens,
	})
	if err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.ErrEmptyResponse
	}

	return content, nil
}

type chatRequest struct {
	system      string
	user        string
	temperature float32
	maxTokens   int
	jsonOutput  bool
}

func (c *openaiClient) chat(ctx context.Context, task string, req chatRequest) (string, error) {
	done, err := c.before(ctx)
	if err != nil {
		return "", err
	}

	model := c.resolveModel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.system},
			{Role: openai.ChatMessageRoleUser, Content: req.user},
		},
		Temperature: req.temperature,
		MaxTokens:   req.maxTokens,
	}

	if req.jsonOutput {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	observability.LLMRequestDuration.WithLabelValues(model, task).Observe(time.Since(start).Seconds())
	done(err)

	if err != nil {
		c.recorder.RecordTokenUsage(ProviderOpenAI, model, task, 0, 0, false)

		return "", fmt.Errorf(errOpenAIChatCompletion, err)
	}

	c.recorder.RecordTokenUsage(ProviderOpenAI, model, task, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, true)

	if len(resp.Choices) == 0 {
		return "", errors.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug().Str(logKeyTask, task).Str(logKeyModel, model).Str(logKeyResponse, truncate(content, maxLoggedChars)).Msg("LLM response")

	return content, nil
}

func (c *openaiClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.ErrNoInput
	}

	if filename == "" {
		filename = defaultAudioFilename
	}

	done, err := c.before(ctx)
	if err != nil {
		return "", err
	}

	model := c.cfg.TranscribeModel
	if model == "" {
		model = openai.Whisper1
	}

	start := time.Now()
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
	})
	observability.LLMRequestDuration.WithLabelValues(model, TaskTranscribe).Observe(time.Since(start).Seconds())
	done(err)

	if err != nil {
		c.recorder.RecordTokenUsage(ProviderOpenAI, model, TaskTranscribe, 0, 0, false)

		return "", fmt.Errorf(errOpenAITranscription, err)
	}

	c.recorder.RecordTokenUsage(ProviderOpenAI, model, TaskTranscribe, 0, 0, true)

	return strings.TrimSpace(resp.Text), nil
}

func (c *openaiClient) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrNoInput
	}

	done, err := c.before(ctx)
	if err != nil {
		return nil, err
	}

	model := c.cfg.TTSModel
	if model == "" {
		model = string(openai.TTSModel1)
	}

	voice := c.cfg.TTSVoice
	if voice == "" {
		voice = string(openai.VoiceNova)
	}

	start := time.Now()
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	observability.LLMRequestDuration.WithLabelValues(model, TaskSpeech).Observe(time.Since(start).Seconds())

	if err != nil {
		done(err)
		c.recorder.RecordTokenUsage(ProviderOpenAI, model, TaskSpeech, 0, 0, false)

		return nil, fmt.Errorf(errOpenAISpeech, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	done(err)

	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}

	c.recorder.RecordTokenUsage(ProviderOpenAI, model, TaskSpeech, 0, 0, true)

	return audio, nil
}

func (c *openaiClient) resolveModel() string {
	if c.cfg.Model != "" {
		return c.cfg.Model
	}

	return openai.GPT4oMini
}

var _ Client = (*openaiClient)(nil)
