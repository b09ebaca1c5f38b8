// AngelaMos | 2026
// entity.go

package recommendation

import (
	"encoding/json"
	"time"
)

const (
	TypeActionable    = "actionable"
	TypeMonitor       = "monitor"
	TypeClarification = "clarification"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	StatusPending   = "pending"
	StatusApplied   = "applied"
	StatusDismissed = "dismissed"
)

// ActionChange is the structured payload an actionable recommendation
// carries. Field names the applier understands: daily_budget, target_cpa,
// target_roas, status. Monetary values are decimal strings.
type ActionChange struct {
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

// Recommendation is one AI verdict for one campaign. Rows become
// immutable once status leaves pending, except for applied_at.
type Recommendation struct {
	ID         string `db:"id"          json:"id"`
	CampaignID string `db:"campaign_id" json:"campaign_id"`
	CustomerID string `db:"customer_id" json:"customer_id"`

	Type       string `db:"type"       json:"type"`
	Priority   string `db:"priority"   json:"priority"`
	Confidence int    `db:"confidence" json:"confidence"`
	Status     string `db:"status"     json:"status"`

	Title       string `db:"title"       json:"title"`
	Description string `db:"description" json:"description"`
	Reasoning   string `db:"reasoning"   json:"reasoning"`

	ModelID                string          `db:"model_id"                 json:"model_id"`
	PotentialSavingsMicros *int64          `db:"potential_savings_micros" json:"potential_savings_micros,omitempty"`
	ActionData             json.RawMessage `db:"action_data"              json:"action_data,omitempty"`

	AppliedAt  *time.Time `db:"applied_at"  json:"applied_at,omitempty"`
	ResolvedBy *string    `db:"resolved_by" json:"resolved_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Recommendation) IsPending() bool {
	return r.Status == StatusPending
}

// PendingWithCampaign joins a pending recommendation with the campaign
// fields list endpoints display alongside it.
type PendingWithCampaign struct {
	Recommendation
	CampaignName string `db:"campaign_name" json:"campaign_name"`
	CampaignType string `db:"campaign_type" json:"campaign_type"`
}
