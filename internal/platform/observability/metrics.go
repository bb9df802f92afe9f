package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_recommendations_served_total",
		Help: "The total number of recommendation responses",
	}, []string{"emotion", "primary", "source"})

	RecommendationPrimaryScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "soundscape_recommendation_primary_score",
		Help:    "Final score of the primary recommendation",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	})

	EmotionsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_emotions_detected_total",
		Help: "The total number of emotion analyses by primary emotion and source",
	}, []string{"emotion", "source"})

	EmotionAnalysisFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soundscape_emotion_analysis_fallbacks_total",
		Help: "Emotion analyses that fell back to the neutral default",
	})

	AppUsageRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_app_usage_recorded_total",
		Help: "The total number of recorded app uses",
	}, []string{"app"})

	AppPopularity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "soundscape_app_popularity",
		Help: "App uses recorded within the popularity window",
	}, []string{"app"})

	EmotionRecordsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soundscape_emotion_records_pruned_total",
		Help: "Emotion records deleted by the retention job",
	})

	FeedbackSatisfaction = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soundscape_feedback_satisfaction",
		Help:    "Satisfaction ratings submitted for recommendations",
		Buckets: []float64{1, 2, 3, 4, 5},
	}, []string{"app"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soundscape_http_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soundscape_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"model", "task"})

	LLMTokensPrompt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_llm_tokens_prompt_total",
		Help: "Total number of prompt tokens used",
	}, []string{"provider", "model", "task"})

	LLMTokensCompletion = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_llm_tokens_completion_total",
		Help: "Total number of completion tokens used",
	}, []string{"provider", "model", "task"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_llm_requests_total",
		Help: "Total number of LLM requests",
	}, []string{"provider", "model", "task", "status"})

	LLMCircuitBreakerOpens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soundscape_llm_circuit_breaker_opens_total",
		Help: "Total number of times LLM circuit breaker opened",
	}, []string{"provider"})

	LLMCircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "soundscape_llm_circuit_breaker_state",
		Help: "Current state of LLM circuit breaker (0=closed, 0.5=half-open, 1=open)",
	}, []string{"provider"})
)
