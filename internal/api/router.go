// Package api serves the public JSON API for recommendations, emotion
// analysis and voice chat.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/companion"
	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/platform/config"
	"github.com/lueurxax/soundscape/internal/recommend"
	db "github.com/lueurxax/soundscape/internal/storage"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

const (
	corsMaxAge      = 86400
	rateLimitWindow = time.Minute
)

// Service is the application surface the handlers call.
type Service interface {
	Recommend(ctx context.Context, in companion.RecommendInput) (recommend.Response, error)
	RecommendForUser(ctx context.Context, userID string, pref *domain.UserPreference, pctx *domain.PersonalizationContext) (recommend.Response, error)
	Analyze(ctx context.Context, in companion.AnalyzeInput) (companion.AnalyzeResult, error)
	VoiceChat(ctx context.Context, in companion.VoiceInput) (companion.VoiceResult, error)
	RecordUsage(ctx context.Context, u *domain.AppUsage) error
	SubmitFeedback(ctx context.Context, f *domain.Feedback) error
	TopApps(ctx context.Context, since time.Time, limit int) ([]companion.TopApp, error)
	EmotionHistory(ctx context.Context, userID string, since time.Time, limit int) ([]domain.EmotionRecord, error)
	EmotionStatistics(ctx context.Context, userID string, since time.Time) (domain.EmotionStatistics, error)
	LLMUsage(ctx context.Context, since time.Time) ([]db.LLMUsage, error)
	Apps() []*domain.CatalogItem
	App(key string) (*domain.CatalogItem, error)
}

var _ Service = (*companion.Service)(nil)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	svc    Service
	now    func() time.Time
	logger *zerolog.Logger
}

// NewHandler creates the endpoint handlers.
func NewHandler(svc Service, logger *zerolog.Logger) *Handler {
	return &Handler{svc: svc, now: time.Now, logger: logger}
}

// NewRouter builds the chi router with the middleware stack and all routes under BasePath.
func NewRouter(h *Handler, cfg config.HTTPConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID(h.logger))
	r.Use(instrument)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{contentTypeHeader, "Authorization", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         corsMaxAge,
	}))

	if cfg.RateLimitPerMin > 0 {
		r.Use(httprate.Limit(cfg.RateLimitPerMin, rateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				respondError(w, r, http.StatusTooManyRequests, codeRateLimited, "too many requests", nil)
			}),
		))
	}

	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Use(limitBody(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, codeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed", nil)
	})

	r.Route(BasePath, func(r chi.Router) {
		r.Route("/recommend", func(r chi.Router) {
			r.Post("/apps", h.recommendApps)
			r.Post("/personalize", h.personalize)
			r.Get("/user/{userID}", h.recommendForUser)
			r.Get("/top", h.topApps)
			r.Post("/feedback", h.feedback)
		})

		r.Route("/emotion", func(r chi.Router) {
			r.Post("/analyze", h.analyzeEmotion)
			r.Get("/history/{userID}", h.emotionHistory)
			r.Get("/statistics/{userID}", h.emotionStatistics)
			r.Get("/types", h.emotionTypes)
		})

		r.Post("/voice/chat", h.voiceChat)

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", h.listApps)
			r.Post("/usage", h.recordUsage)
			r.Get("/{key}", h.getApp)
		})

		r.Get("/stats/llm-usage", h.llmUsage)
	})

	return r
}
