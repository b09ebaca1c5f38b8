// AngelaMos | 2026
// aggregate.go

package campaign

import (
	"time"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// Summary is the dashboard-level reduction of a campaign set. Totals are
// kept in integer micros/milli units until presentation, so the result is
// exact and invariant under input ordering.
type Summary struct {
	TotalSpendMicros           int64
	TotalConversionsMilli      int64
	TotalConversionValueMicros int64
	TotalImpressions           int64
	TotalClicks                int64

	AvgCpaMicros int64
	RoasBps      int64

	TotalCampaigns  int
	ActiveCampaigns int

	RecommendationCounts map[string]int
}

// Aggregate reduces campaigns synced within [from, to) into a Summary.
// A zero from/to disables the corresponding bound. An empty input yields
// an all-zero summary.
func Aggregate(campaigns []Campaign, from, to time.Time) Summary {
	summary := Summary{RecommendationCounts: map[string]int{}}

	for i := range campaigns {
		c := &campaigns[i]

		if !from.IsZero() && c.SyncedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !c.SyncedAt.Before(to) {
			continue
		}

		summary.TotalSpendMicros += c.SpendMicros
		summary.TotalConversionsMilli += c.ConversionsMilli
		summary.TotalConversionValueMicros += c.ConversionValueMicros
		summary.TotalImpressions += c.Impressions
		summary.TotalClicks += c.Clicks

		summary.TotalCampaigns++
		if c.IsActive() {
			summary.ActiveCampaigns++
		}
	}

	// avgCpa = spend / conversions, defined as zero when there are no
	// conversions. Conversions are milli-units, so scale before dividing.
	if summary.TotalConversionsMilli > 0 {
		summary.AvgCpaMicros = summary.TotalSpendMicros *
			core.MilliUnit / summary.TotalConversionsMilli
	}

	if summary.TotalSpendMicros > 0 {
		summary.RoasBps = summary.TotalConversionValueMicros *
			core.BasisPoints / summary.TotalSpendMicros
	}

	return summary
}
