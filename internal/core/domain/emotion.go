package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Emotion labels understood by the API layer.
// The scoring core accepts any string; this set only drives request validation.
const (
	EmotionSad     = "sad"
	EmotionCalm    = "calm"
	EmotionHappy   = "happy"
	EmotionNeutral = "neutral"
	EmotionExcited = "excited"
	EmotionAngry   = "angry"
	EmotionAnxious = "anxious"
)

// DefaultIntensity is used when an observation carries no intensity.
const DefaultIntensity = 0.5

// KnownEmotions lists the labels in their canonical order.
var KnownEmotions = []string{
	EmotionSad,
	EmotionCalm,
	EmotionHappy,
	EmotionNeutral,
	EmotionExcited,
	EmotionAngry,
	EmotionAnxious,
}

// EmotionProfile describes where an emotion sits on the valence/arousal plane.
type EmotionProfile struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
	Color   string  `json:"color"`
}

var emotionProfiles = map[string]EmotionProfile{
	EmotionHappy:   {Valence: 0.8, Arousal: 0.7, Color: "#FFD700"},
	EmotionExcited: {Valence: 0.9, Arousal: 0.9, Color: "#FF6B6B"},
	EmotionCalm:    {Valence: 0.6, Arousal: 0.2, Color: "#4ECDC4"},
	EmotionSad:     {Valence: 0.2, Arousal: 0.3, Color: "#95A3B3"},
	EmotionAngry:   {Valence: 0.1, Arousal: 0.9, Color: "#FF0000"},
	EmotionAnxious: {Valence: 0.3, Arousal: 0.8, Color: "#FFA500"},
	EmotionNeutral: {Valence: 0.5, Arousal: 0.5, Color: "#808080"},
}

// ProfileFor returns the profile of emotion, falling back to neutral.
func ProfileFor(emotion string) EmotionProfile {
	if p, ok := emotionProfiles[emotion]; ok {
		return p
	}

	return emotionProfiles[EmotionNeutral]
}

// IsKnownEmotion reports whether emotion belongs to KnownEmotions.
func IsKnownEmotion(emotion string) bool {
	_, ok := emotionProfiles[emotion]
	return ok
}

// NormalizeLabel lower-cases and trims a free-form label.
// Casers are not safe for concurrent use, so one is built per call.
func NormalizeLabel(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// EmotionSignal is the caller-supplied estimate of a user's affective state.
type EmotionSignal struct {
	Type      string  `json:"emotion_type"`
	Intensity float64 `json:"intensity"`
}

// NewEmotionSignal builds a signal with the label normalized and intensity clamped to [0,1].
func NewEmotionSignal(emotionType string, intensity float64) EmotionSignal {
	return EmotionSignal{
		Type:      NormalizeLabel(emotionType),
		Intensity: Clamp01(intensity),
	}
}

// Clamp01 limits v to [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// TimeOfDay is a coarse daypart used for personalization.
type TimeOfDay string

// Dayparts.
const (
	TimeUnset     TimeOfDay = ""
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// ParseTimeOfDay maps a label to a TimeOfDay. Unknown labels are unset.
func ParseTimeOfDay(s string) TimeOfDay {
	switch t := TimeOfDay(NormalizeLabel(s)); t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeNight:
		return t
	default:
		return TimeUnset
	}
}

// Venue is the device or place the user is interacting from.
type Venue string

// Venues. "ktv" is accepted as an alias of VenueFixed.
const (
	VenueUnset   Venue = ""
	VenueMobile  Venue = "mobile"
	VenueDesktop Venue = "desktop"
	VenueFixed   Venue = "fixed_venue"

	venueAliasKTV = "ktv"
)

// ParseVenue maps a device/venue label to a Venue. Unknown labels are unset.
func ParseVenue(s string) Venue {
	v := NormalizeLabel(s)
	if v == venueAliasKTV {
		return VenueFixed
	}

	switch Venue(v) {
	case VenueMobile, VenueDesktop, VenueFixed:
		return Venue(v)
	default:
		return VenueUnset
	}
}
