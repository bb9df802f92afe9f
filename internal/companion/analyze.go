package companion

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/errors"
	"github.com/lueurxax/soundscape/internal/core/llm"
	"github.com/lueurxax/soundscape/internal/platform/observability"
	"github.com/lueurxax/soundscape/internal/recommend"
	db "github.com/lueurxax/soundscape/internal/storage"
)

// AnalyzeInput carries text, audio, or both.
type AnalyzeInput struct {
	UserID        string
	Text          string
	Audio         []byte
	AudioFilename string
	Context       *domain.PersonalizationContext
}

// SourceAnalysis is the analysis of one input channel.
type SourceAnalysis struct {
	Source   string              `json:"source"`
	Analysis llm.EmotionAnalysis `json:"analysis"`
}

// AnalyzeResult is the merged analysis plus recommendations for it.
type AnalyzeResult struct {
	RecordID        string                `json:"record_id,omitempty"`
	EmotionType     string                `json:"emotion_type"`
	Confidence      float64               `json:"confidence"`
	Intensity       float64               `json:"intensity"`
	Secondary       []string              `json:"secondary_emotions"`
	Profile         domain.EmotionProfile `json:"emotion_map"`
	Transcript      string                `json:"transcript,omitempty"`
	Sources         []SourceAnalysis      `json:"sources"`
	Recommendations recommend.Response    `json:"recommendations"`
}

// Analyze classifies the inputs, persists the merged result for known users,
// and recommends apps for it.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.Audio) == 0 {
		return AnalyzeResult{}, errors.ErrNoInput
	}

	var (
		sources    []SourceAnalysis
		transcript string
	)

	if len(in.Audio) > 0 {
		t, err := s.llm.Transcribe(ctx, in.Audio, in.AudioFilename)
		if err != nil {
			return AnalyzeResult{}, fmt.Errorf("transcribe audio: %w", err)
		}

		transcript = strings.TrimSpace(t)

		if transcript != "" {
			a, err := s.analyzeSource(ctx, transcript, db.SourceAudio)
			if err != nil {
				return AnalyzeResult{}, err
			}

			sources = append(sources, SourceAnalysis{Source: db.SourceAudio, Analysis: a})
		}
	}

	if text != "" {
		a, err := s.analyzeSource(ctx, text, db.SourceText)
		if err != nil {
			return AnalyzeResult{}, err
		}

		sources = append(sources, SourceAnalysis{Source: db.SourceText, Analysis: a})
	}

	if len(sources) == 0 {
		return AnalyzeResult{}, fmt.Errorf("empty transcript: %w", errors.ErrNoInput)
	}

	merged := mergeAnalyses(sources)

	result := AnalyzeResult{
		EmotionType: merged.PrimaryEmotion,
		Confidence:  merged.Confidence,
		Intensity:   merged.Intensity,
		Secondary:   merged.SecondaryEmotions,
		Profile:     domain.ProfileFor(merged.PrimaryEmotion),
		Transcript:  transcript,
		Sources:     sources,
	}

	if in.UserID != "" {
		rec := &domain.EmotionRecord{
			UserID:      in.UserID,
			EmotionType: merged.PrimaryEmotion,
			Intensity:   merged.Intensity,
			Confidence:  merged.Confidence,
			Source:      primarySource(sources),
			Text:        firstNonEmpty(text, transcript),
		}

		if err := s.repo.SaveEmotionRecord(ctx, rec); err != nil {
			return AnalyzeResult{}, fmt.Errorf("save emotion record: %w", err)
		}

		result.RecordID = rec.ID
	}

	resp := s.engine.Recommend(recommend.Request{
		EmotionType: merged.PrimaryEmotion,
		Intensity:   merged.Intensity,
		History:     s.usageHistory(ctx, in.UserID),
		Context:     s.contextOrDefault(in.Context),
	})
	s.observe(resp, sourceAnalyze)

	result.Recommendations = resp

	return result, nil
}

func (s *Service) analyzeSource(ctx context.Context, text, source string) (llm.EmotionAnalysis, error) {
	a, err := s.llm.AnalyzeEmotion(ctx, text)
	if err != nil {
		return llm.EmotionAnalysis{}, fmt.Errorf("analyze %s: %w", source, err)
	}

	if a.Fallback {
		observability.EmotionAnalysisFallbacks.Inc()
	}

	observability.EmotionsDetected.WithLabelValues(a.PrimaryEmotion, source).Inc()

	s.logger.Debug().
		Str(logKeySource, source).
		Str(logKeyEmotion, a.PrimaryEmotion).
		Float64("confidence", a.Confidence).
		Msg("emotion analyzed")

	return a, nil
}

// mergeAnalyses keeps the most confident label and averages intensity
// across sources. Confidence ties keep the earlier source.
func mergeAnalyses(sources []SourceAnalysis) llm.EmotionAnalysis {
	best := sources[0].Analysis
	sum := 0.0

	for _, src := range sources {
		sum += src.Analysis.Intensity
		if src.Analysis.Confidence > best.Confidence {
			best = src.Analysis
		}
	}

	best.Intensity = domain.Clamp01(sum / float64(len(sources)))

	return best
}

func primarySource(sources []SourceAnalysis) string {
	if len(sources) > 1 {
		return db.SourceText + "+" + db.SourceAudio
	}

	return sources[0].Source
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// VoiceInput is one turn of a spoken conversation. Text is used when no audio is sent.
type VoiceInput struct {
	UserID        string
	Audio         []byte
	AudioFilename string
	Text          string
}

// VoiceResult is the companion's reply to one voice turn.
type VoiceResult struct {
	Transcript  string              `json:"transcript"`
	Emotion     llm.EmotionAnalysis `json:"emotion"`
	Reply       string              `json:"reply"`
	AudioBase64 string              `json:"audio_base64,omitempty"`
}

// VoiceChat transcribes the user's speech, reads its emotion, and answers in a
// matching tone. Speech synthesis failures still return the text reply.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (s *Service) VoiceChat(ctx context.Context, in VoiceInput) (VoiceResult, error) {
	transcript := strings.TrimSpace(in.Text)

	if len(in.Audio) > 0 {
		t, err := s.llm.Transcribe(ctx, in.Audio, in.AudioFilename)
		if err != nil {
			return VoiceResult{}, fmt.Errorf("transcribe audio: %w", err)
		}

		transcript = strings.TrimSpace(t)
	}

	if transcript == "" {
		return VoiceResult{}, errors.ErrNoInput
	}

	analysis, err := s.analyzeSource(ctx, transcript, db.SourceVoice)
	if err != nil {
		return VoiceResult{}, err
	}

	reply, err := s.llm.CompanionReply(ctx, transcript, analysis.PrimaryEmotion)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("companion reply: %w", err)
	}

	result := VoiceResult{
		Transcript: transcript,
		Emotion:    analysis,
		Reply:      reply,
	}

	speech, err := s.llm.SynthesizeSpeech(ctx, reply)
	if err != nil {
		if ctx.Err() != nil {
			return VoiceResult{}, fmt.Errorf("synthesize speech: %w", err)
		}

		s.logger.Warn().Err(err).Msg("speech synthesis failed, returning text only")
	} else {
		result.AudioBase64 = base64.StdEncoding.EncodeToString(speech)
	}

	if in.UserID != "" {
		rec := &domain.EmotionRecord{
			UserID:      in.UserID,
			EmotionType: analysis.PrimaryEmotion,
			Intensity:   analysis.Intensity,
			Confidence:  analysis.Confidence,
			Source:      db.SourceVoice,
			Text:        transcript,
		}

		if err := s.repo.SaveEmotionRecord(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Str(logKeyUserID, in.UserID).Msg("failed to save voice emotion record")
		}
	}

	return result, nil
}
