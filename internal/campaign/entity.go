// AngelaMos | 2026
// entity.go

package campaign

import (
	"time"
)

const (
	StatusEnabled = "enabled"
	StatusPaused  = "paused"
	StatusRemoved = "removed"

	TypeSearch      = "search"
	TypeDisplay     = "display"
	TypeShopping    = "shopping"
	TypeVideo       = "video"
	TypePerformance = "performance_max"
)

// Campaign is a synced snapshot of an external ad campaign. Monetary
// fields are stored as micros (1e6 per currency unit), ratios as basis
// points (1e4) and conversion counts as milli-units (1e3), so trailing
// window sums stay exact under integer arithmetic.
type Campaign struct {
	ID         string `db:"id"          json:"id"`
	UserID     string `db:"user_id"     json:"user_id"`
	CustomerID string `db:"customer_id" json:"customer_id"`
	ExternalID string `db:"external_id" json:"external_id"`

	Name   string `db:"name"   json:"name"`
	Type   string `db:"type"   json:"type"`
	Status string `db:"status" json:"status"`

	DailyBudgetMicros int64 `db:"daily_budget_micros" json:"daily_budget_micros"`
	TargetCpaMicros   int64 `db:"target_cpa_micros"   json:"target_cpa_micros"`
	TargetRoasBps     int64 `db:"target_roas_bps"     json:"target_roas_bps"`

	SpendMicros           int64 `db:"spend_micros"            json:"spend_micros"`
	ConversionsMilli      int64 `db:"conversions_milli"       json:"conversions_milli"`
	ConversionValueMicros int64 `db:"conversion_value_micros" json:"conversion_value_micros"`
	Impressions           int64 `db:"impressions"             json:"impressions"`
	Clicks                int64 `db:"clicks"                  json:"clicks"`
	CtrBps                int64 `db:"ctr_bps"                 json:"ctr_bps"`
	AvgCpcMicros          int64 `db:"avg_cpc_micros"          json:"avg_cpc_micros"`
	ConversionRateBps     int64 `db:"conversion_rate_bps"     json:"conversion_rate_bps"`

	BurnInUntil *time.Time `db:"burn_in_until" json:"burn_in_until,omitempty"`

	SyncedAt  time.Time `db:"synced_at"  json:"synced_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (c *Campaign) IsActive() bool {
	return c.Status == StatusEnabled
}
