// AngelaMos | 2026
// entity.go

package audit

import (
	"time"
)

const (
	PerformerUser = "user"
	PerformerAI   = "ai"

	ActionRecommendationGenerated = "recommendation_generated"
	ActionRecommendationApplied   = "recommendation_applied"
	ActionRecommendationDismissed = "recommendation_dismissed"
	ActionCampaignMutated         = "campaign_mutated"
)

// Entry is an append-only record of a state-changing event. Rows are
// never updated or deleted except by account disconnect cascade.
type Entry struct {
	ID               string    `db:"id"                json:"id"`
	CustomerID       string    `db:"customer_id"       json:"customer_id"`
	CampaignID       *string   `db:"campaign_id"       json:"campaign_id,omitempty"`
	RecommendationID *string   `db:"recommendation_id" json:"recommendation_id,omitempty"`
	Action           string    `db:"action"            json:"action"`
	PerformedBy      string    `db:"performed_by"      json:"performed_by"`
	PerformerID      string    `db:"performer_id"      json:"performer_id"`
	Details          string    `db:"details"           json:"details"`
	CreatedAt        time.Time `db:"created_at"        json:"created_at"`
}
