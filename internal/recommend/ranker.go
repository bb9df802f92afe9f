package recommend

import "sort"

// RankedResult is a descending ordering of scored items.
type RankedResult struct {
	Ordered []ScoredItem
	Primary *ScoredItem
}

// Rank sorts items by match score, highest first. Equal scores keep their
// input order. The input slice is not modified.
func Rank(items []ScoredItem) RankedResult {
	ordered := make([]ScoredItem, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MatchScore > ordered[j].MatchScore
	})

	res := RankedResult{Ordered: ordered}
	if len(ordered) > 0 {
		primary := ordered[0]
		res.Primary = &primary
	}

	return res
}
