package domain

import "time"

// CatalogItem is a recommendable app or content unit.
// Items are loaded once at startup and never mutated afterwards.
type CatalogItem struct {
	Key              string   `json:"key" yaml:"key"`
	ID               int      `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Type             string   `json:"type" yaml:"type"`
	Category         string   `json:"category" yaml:"category"`
	Description      string   `json:"description" yaml:"description"`
	Icon             string   `json:"icon" yaml:"icon"`
	EntryPoint       string   `json:"entry_point" yaml:"entry_point"`
	Features         []string `json:"features" yaml:"features"`
	SuitableEmotions []string `json:"suitable_emotions" yaml:"suitable_emotions"`
	BaseScore        float64  `json:"base_score" yaml:"base_score"`
}

// SuitableFor reports whether emotion is one of the item's default fits.
func (c *CatalogItem) SuitableFor(emotion string) bool {
	for _, e := range c.SuitableEmotions {
		if e == emotion {
			return true
		}
	}

	return false
}

// UsageRecord is one past use of a catalog item by a user.
type UsageRecord struct {
	ItemKey string `json:"item_key"`
}

// UserPreference carries explicit include/exclude preferences for one request.
type UserPreference struct {
	ExcludedTypes     []string `json:"excluded_types"`
	PreferredFeatures []string `json:"preferred_features"`
}

// PersonalizationContext carries situational factors for one request.
type PersonalizationContext struct {
	TimeOfDay TimeOfDay `json:"time_of_day,omitempty"`
	Venue     Venue     `json:"venue,omitempty"`
}

// EmotionRecord is a persisted emotion observation for a user.
type EmotionRecord struct {
	ID          string
	UserID      string
	EmotionType string
	Intensity   float64
	Confidence  float64
	Source      string
	Text        string
	CreatedAt   time.Time
}

// AppUsage is a persisted catalog item use.
type AppUsage struct {
	ID             string
	UserID         string
	ItemKey        string
	Mode           string
	TriggerEmotion string
	DurationSec    int
	CreatedAt      time.Time
}

// Feedback is a user's reaction to a recommendation.
type Feedback struct {
	ID             string
	UserID         string
	RecommendedKey string
	SelectedKey    string
	Satisfaction   int
	CreatedAt      time.Time
}

// EmotionCount is the number of records for one emotion label.
type EmotionCount struct {
	EmotionType      string  `json:"emotion_type"`
	Count            int     `json:"count"`
	AverageIntensity float64 `json:"average_intensity"`
}

// EmotionStatistics aggregates a user's emotion records.
type EmotionStatistics struct {
	UserID           string         `json:"user_id"`
	Total            int            `json:"total"`
	AverageIntensity float64        `json:"average_intensity"`
	Dominant         string         `json:"dominant_emotion"`
	ByEmotion        []EmotionCount `json:"by_emotion"`
}
