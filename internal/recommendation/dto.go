// AngelaMos | 2026
// dto.go

package recommendation

import (
	"encoding/json"
	"time"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type GenerateRequest struct {
	Accounts []string `json:"accounts" validate:"omitempty,max=50,dive,len=10,numeric"`
}

type RecommendationResponse struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	CustomerID string `json:"customer_id"`

	CampaignName string `json:"campaign_name,omitempty"`
	CampaignType string `json:"campaign_type,omitempty"`

	Type       string `json:"type"`
	Priority   string `json:"priority"`
	Confidence int    `json:"confidence"`
	Status     string `json:"status"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning"`

	ModelID          string          `json:"model_id"`
	PotentialSavings string          `json:"potential_savings,omitempty"`
	ActionData       json.RawMessage `json:"action_data,omitempty"`

	AppliedAt *time.Time `json:"applied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToRecommendationResponse(r *Recommendation) RecommendationResponse {
	resp := RecommendationResponse{
		ID:          r.ID,
		CampaignID:  r.CampaignID,
		CustomerID:  r.CustomerID,
		Type:        r.Type,
		Priority:    r.Priority,
		Confidence:  r.Confidence,
		Status:      r.Status,
		Title:       r.Title,
		Description: r.Description,
		Reasoning:   r.Reasoning,
		ModelID:     r.ModelID,
		ActionData:  r.ActionData,
		AppliedAt:   r.AppliedAt,
		CreatedAt:   r.CreatedAt,
	}

	if r.PotentialSavingsMicros != nil {
		resp.PotentialSavings = core.MicrosToDecimal(*r.PotentialSavingsMicros)
	}

	return resp
}

func ToPendingResponseList(recs []PendingWithCampaign) []RecommendationResponse {
	responses := make([]RecommendationResponse, 0, len(recs))
	for i := range recs {
		resp := ToRecommendationResponse(&recs[i].Recommendation)
		resp.CampaignName = recs[i].CampaignName
		resp.CampaignType = recs[i].CampaignType
		responses = append(responses, resp)
	}
	return responses
}

type LastGeneratedResponse struct {
	LastGeneratedAt *time.Time `json:"last_generated_at"`
}
