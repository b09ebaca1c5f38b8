// AngelaMos | 2026
// aggregate_test.go

package campaign

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleCampaigns(syncedAt time.Time) []Campaign {
	return []Campaign{
		{
			ID:                    "c1",
			Status:                StatusEnabled,
			SpendMicros:           1_000_000_000, // 1000.00
			ConversionsMilli:      10_000,        // 10.00
			ConversionValueMicros: 4_000_000_000, // 4000.00
			Impressions:           50_000,
			Clicks:                2_500,
			SyncedAt:              syncedAt,
		},
		{
			ID:                    "c2",
			Status:                StatusPaused,
			SpendMicros:           500_000_000, // 500.00
			ConversionsMilli:      5_000,       // 5.00
			ConversionValueMicros: 1_000_000_000,
			Impressions:           20_000,
			Clicks:                800,
			SyncedAt:              syncedAt,
		},
		{
			ID:               "c3",
			Status:           StatusEnabled,
			SpendMicros:      250_000_000,
			ConversionsMilli: 0,
			SyncedAt:         syncedAt,
		},
	}
}

func TestAggregateTotals(t *testing.T) {
	now := time.Now()
	summary := Aggregate(sampleCampaigns(now), time.Time{}, time.Time{})

	assert.Equal(t, int64(1_750_000_000), summary.TotalSpendMicros)
	assert.Equal(t, int64(15_000), summary.TotalConversionsMilli)
	assert.Equal(t, int64(5_000_000_000), summary.TotalConversionValueMicros)
	assert.Equal(t, int64(70_000), summary.TotalImpressions)
	assert.Equal(t, int64(3_300), summary.TotalClicks)
	assert.Equal(t, 3, summary.TotalCampaigns)
	assert.Equal(t, 2, summary.ActiveCampaigns)

	// 1750.00 spend / 15.00 conversions = 116.666666 avg cpa
	assert.Equal(t, int64(116_666_666), summary.AvgCpaMicros)

	// 5000 value / 1750 spend = 2.8571 roas
	assert.Equal(t, int64(28_571), summary.RoasBps)
}

func TestAggregateOrderIndependent(t *testing.T) {
	now := time.Now()
	campaigns := sampleCampaigns(now)
	baseline := Aggregate(campaigns, time.Time{}, time.Time{})

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]Campaign(nil), campaigns...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, baseline, Aggregate(shuffled, time.Time{}, time.Time{}))
	}
}

func TestAggregateZeroConversionsYieldsZeroAvgCpa(t *testing.T) {
	campaigns := []Campaign{{
		ID:               "c1",
		Status:           StatusEnabled,
		SpendMicros:      1_000_000_000,
		ConversionsMilli: 0,
		SyncedAt:         time.Now(),
	}}

	summary := Aggregate(campaigns, time.Time{}, time.Time{})

	assert.Equal(t, int64(1_000_000_000), summary.TotalSpendMicros)
	assert.Equal(t, int64(0), summary.AvgCpaMicros)
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil, time.Time{}, time.Time{})

	assert.Equal(t, int64(0), summary.TotalSpendMicros)
	assert.Equal(t, int64(0), summary.AvgCpaMicros)
	assert.Equal(t, int64(0), summary.RoasBps)
	assert.Equal(t, 0, summary.TotalCampaigns)
}

func TestAggregateDateRangeFilter(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	campaigns := []Campaign{
		{ID: "old", SpendMicros: 100_000_000, SyncedAt: base.AddDate(0, 0, -10)},
		{ID: "in", SpendMicros: 200_000_000, SyncedAt: base.AddDate(0, 0, 1)},
		{ID: "late", SpendMicros: 400_000_000, SyncedAt: base.AddDate(0, 0, 30)},
	}

	summary := Aggregate(campaigns, base, base.AddDate(0, 0, 7))

	assert.Equal(t, int64(200_000_000), summary.TotalSpendMicros)
	assert.Equal(t, 1, summary.TotalCampaigns)
}
