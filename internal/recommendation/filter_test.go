// AngelaMos | 2026
// filter_test.go

package recommendation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pending(id, priority string, confidence int, createdAt time.Time) PendingWithCampaign {
	return PendingWithCampaign{
		Recommendation: Recommendation{
			ID:         id,
			Type:       TypeMonitor,
			Priority:   priority,
			Confidence: confidence,
			Status:     StatusPending,
			CreatedAt:  createdAt,
		},
	}
}

func TestFilterByConfidenceThreshold(t *testing.T) {
	now := time.Now()
	recs := []PendingWithCampaign{
		pending("r1", PriorityHigh, 90, now),
		pending("r2", PriorityMedium, 70, now),
		pending("r3", PriorityLow, 69, now),
	}

	visible := FilterByConfidence(recs, 70)

	assert.Len(t, visible, 2)
	for _, rec := range visible {
		assert.GreaterOrEqual(t, rec.Confidence, 70)
	}
}

func TestFilterOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	recs := []PendingWithCampaign{
		pending("low-high-conf", PriorityLow, 99, base),
		pending("high-old", PriorityHigh, 80, base),
		pending("high-new", PriorityHigh, 80, base.Add(time.Hour)),
		pending("high-conf", PriorityHigh, 95, base),
		pending("medium", PriorityMedium, 90, base),
	}

	visible := FilterByConfidence(recs, 0)

	got := make([]string, 0, len(visible))
	for _, rec := range visible {
		got = append(got, rec.ID)
	}

	assert.Equal(t, []string{
		"high-conf", "high-new", "high-old", "medium", "low-high-conf",
	}, got)
}

func TestFilterMonotonicUnderRaisedThreshold(t *testing.T) {
	now := time.Now()
	recs := []PendingWithCampaign{
		pending("r1", PriorityHigh, 95, now),
		pending("r2", PriorityMedium, 85, now),
		pending("r3", PriorityMedium, 75, now),
		pending("r4", PriorityLow, 71, now),
	}

	at70 := FilterByConfidence(recs, 70)
	at90 := FilterByConfidence(recs, 90)

	seen := make(map[string]bool, len(at70))
	for _, rec := range at70 {
		seen[rec.ID] = true
	}

	// Raising the threshold only removes entries, never adds.
	for _, rec := range at90 {
		assert.True(t, seen[rec.ID])
	}
	assert.LessOrEqual(t, len(at90), len(at70))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	recs := []PendingWithCampaign{
		pending("r1", PriorityLow, 80, now),
		pending("r2", PriorityHigh, 80, now),
	}

	_ = FilterByConfidence(recs, 0)

	assert.Equal(t, "r1", recs[0].ID)
	assert.Equal(t, "r2", recs[1].ID)
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, FilterByConfidence(nil, 70))
}
