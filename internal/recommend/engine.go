package recommend

import "github.com/lueurxax/soundscape/internal/core/domain"

// Engine runs the scoring pipeline against one catalog and rule set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog       *Catalog
	rules         *RuleSet
	emotionWindow int
}

// NewEngine builds an engine. A non-positive emotionWindow selects DefaultEmotionWindow.
func NewEngine(catalog *Catalog, rules *RuleSet, emotionWindow int) *Engine {
	if emotionWindow <= 0 {
		emotionWindow = DefaultEmotionWindow
	}

	return &Engine{
		catalog:       catalog,
		rules:         rules,
		emotionWindow: emotionWindow,
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Request is a single recommendation call.
type Request struct {
	EmotionType string
	Intensity   float64
	History     []domain.UsageRecord
	Preference  *domain.UserPreference
	Context     *domain.PersonalizationContext
}

// Recommendation is one ranked catalog item.
type Recommendation struct {
	Item       *domain.CatalogItem `json:"app"`
	MatchScore float64             `json:"match_score"`
	Score      float64             `json:"score"`
	Reason     string              `json:"reason"`
}

// Response is the ranked output of a request.
type Response struct {
	EmotionType string           `json:"emotion_type"`
	Intensity   float64          `json:"emotion_intensity"`
	Ordered     []Recommendation `json:"recommended_apps"`
	Primary     *Recommendation  `json:"primary_recommendation"`
}

// Recommend scores, ranks, optionally filters by preference, and personalizes.
// The emotion label is trimmed and lower-cased, intensity is clamped to [0,1];
// any emotion label is accepted.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(req Request) Response {
	signal := domain.NewEmotionSignal(req.EmotionType, req.Intensity)

	ranked := Rank(Score(e.catalog, e.rules, signal, req.History))

	candidates := FromScored(ranked.Ordered)
	if req.Preference != nil {
		candidates = FromPreference(FilterByPreference(ranked.Ordered, req.Preference, e.rules))
	}

	personalized := Personalize(candidates, req.Context, e.rules)

	resp := Response{
		EmotionType: signal.Type,
		Intensity:   signal.Intensity,
		Ordered:     make([]Recommendation, len(personalized)),
	}

	for i, p := range personalized {
		resp.Ordered[i] = Recommendation{
			Item:       p.Item,
			MatchScore: p.MatchScore,
			Score:      p.FinalScore,
			Reason:     p.Reason,
		}
	}

	if len(resp.Ordered) > 0 {
		primary := resp.Ordered[0]
		resp.Primary = &primary
	}

	return resp
}

// HistoryRequest recommends from stored emotion observations instead of a live signal.
type HistoryRequest struct {
	// Emotions must be oldest first.
	Emotions   []domain.EmotionRecord
	History    []domain.UsageRecord
	Preference *domain.UserPreference
	Context    *domain.PersonalizationContext
}

// RecommendFromHistory summarizes recent emotions into a signal and recommends for it.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendFromHistory(req HistoryRequest) Response {
	signal := SummarizeEmotions(req.Emotions, e.emotionWindow)

	return e.Recommend(Request{
		EmotionType: signal.Type,
		Intensity:   signal.Intensity,
		History:     req.History,
		Preference:  req.Preference,
		Context:     req.Context,
	})
}
