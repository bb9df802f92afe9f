// Package recommend maps an emotion signal onto the static app catalog.
//
// A request flows through four stages, each returning new values:
//
//	Catalog -> Score -> Rank -> [FilterByPreference] -> Personalize
//
// Score assigns every catalog item a match score in [0,1] from its base
// score, the emotion fit, intensity rules and the user's usage history.
// Rank orders the items. FilterByPreference drops excluded types and scores
// feature overlap. Personalize applies venue and daypart bonuses.
//
// The package performs no I/O. Catalog and RuleSet are read-only after
// construction, so an Engine is safe for concurrent use.
package recommend
