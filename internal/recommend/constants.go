package recommend

// Default scoring weights, used when a rules file leaves a weight unset.
const (
	DefaultMatchBonus      = 0.15
	DefaultMismatchPenalty = -0.10
	DefaultHistoryStep     = 0.05
	DefaultHistoryCap      = 0.20
	DefaultInclusionBonus  = 0.3
	DefaultFeatureWeight   = 0.5
)

// DefaultEmotionWindow is how many recent emotion records feed a batch recommendation.
const DefaultEmotionWindow = 10

const (
	scorePrecision = 1000

	reasonPlaceholderType     = "{type}"
	reasonPlaceholderCategory = "{category}"
	reasonPlaceholderName     = "{name}"
)
