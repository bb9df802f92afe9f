package companion

import "time"

const (
	minSatisfaction = 1
	maxSatisfaction = 5

	defaultTopLimit = 10
	maxTopLimit     = 50

	defaultHistoryLimit  = 100
	defaultLookback      = 30 * 24 * time.Hour
	historyEmotionsLimit = 500
)

// Recommendation sources used as metric labels.
const (
	sourceSignal  = "signal"
	sourceHistory = "history"
	sourceAnalyze = "analyze"
)

// Log field keys.
const (
	logKeyUserID  = "user_id"
	logKeyEmotion = "emotion"
	logKeySource  = "source"
)
