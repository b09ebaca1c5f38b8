// AngelaMos | 2026
// filter.go

package recommendation

import (
	"sort"
)

var priorityRank = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// FilterByConfidence returns the pending recommendations meeting the
// user's confidence threshold, ordered by priority, then confidence, then
// recency. Pure read-time filtering: nothing stored changes, so lowering
// the threshold later surfaces previously hidden rows.
func FilterByConfidence(
	recs []PendingWithCampaign,
	threshold int,
) []PendingWithCampaign {
	visible := make([]PendingWithCampaign, 0, len(recs))
	for _, rec := range recs {
		if rec.Confidence >= threshold {
			visible = append(visible, rec)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := &visible[i], &visible[j]

		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] > priorityRank[b.Priority]
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return visible
}
