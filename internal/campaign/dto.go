// AngelaMos | 2026
// dto.go

package campaign

import (
	"time"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type SyncCampaignInput struct {
	ExternalID string `json:"external_id" validate:"required,max=64"`
	Name       string `json:"name"        validate:"required,max=255"`
	Type       string `json:"type"        validate:"required,oneof=search display shopping video performance_max"`
	Status     string `json:"status"      validate:"required,oneof=enabled paused removed"`

	DailyBudgetMicros int64 `json:"daily_budget_micros" validate:"gte=0"`
	TargetCpaMicros   int64 `json:"target_cpa_micros"   validate:"gte=0"`
	TargetRoasBps     int64 `json:"target_roas_bps"     validate:"gte=0"`

	SpendMicros           int64 `json:"spend_micros"            validate:"gte=0"`
	ConversionsMilli      int64 `json:"conversions_milli"       validate:"gte=0"`
	ConversionValueMicros int64 `json:"conversion_value_micros" validate:"gte=0"`
	Impressions           int64 `json:"impressions"             validate:"gte=0"`
	Clicks                int64 `json:"clicks"                  validate:"gte=0"`
	CtrBps                int64 `json:"ctr_bps"                 validate:"gte=0"`
	AvgCpcMicros          int64 `json:"avg_cpc_micros"          validate:"gte=0"`
	ConversionRateBps     int64 `json:"conversion_rate_bps"     validate:"gte=0"`
}

type SyncCampaignsRequest struct {
	CustomerID string              `json:"customer_id" validate:"required,len=10,numeric"`
	Campaigns  []SyncCampaignInput `json:"campaigns"   validate:"required,min=1,max=500,dive"`
}

type SyncResponse struct {
	Synced int `json:"synced"`
}

type CampaignResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Status     string `json:"status"`

	DailyBudget string `json:"daily_budget"`
	TargetCpa   string `json:"target_cpa"`
	TargetRoas  string `json:"target_roas"`

	Spend           string `json:"spend"`
	Conversions     string `json:"conversions"`
	ConversionValue string `json:"conversion_value"`
	Impressions     int64  `json:"impressions"`
	Clicks          int64  `json:"clicks"`
	Ctr             string `json:"ctr"`
	AvgCpc          string `json:"avg_cpc"`
	ConversionRate  string `json:"conversion_rate"`

	BurnInUntil *time.Time `json:"burn_in_until,omitempty"`
	SyncedAt    time.Time  `json:"synced_at"`
}

func ToCampaignResponse(c *Campaign) CampaignResponse {
	return CampaignResponse{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		ExternalID:      c.ExternalID,
		Name:            c.Name,
		Type:            c.Type,
		Status:          c.Status,
		DailyBudget:     core.MicrosToDecimal(c.DailyBudgetMicros),
		TargetCpa:       core.MicrosToDecimal(c.TargetCpaMicros),
		TargetRoas:      core.BasisPointsToDecimal(c.TargetRoasBps),
		Spend:           core.MicrosToDecimal(c.SpendMicros),
		Conversions:     core.MilliToDecimal(c.ConversionsMilli),
		ConversionValue: core.MicrosToDecimal(c.ConversionValueMicros),
		Impressions:     c.Impressions,
		Clicks:          c.Clicks,
		Ctr:             core.BasisPointsToDecimal(c.CtrBps),
		AvgCpc:          core.MicrosToDecimal(c.AvgCpcMicros),
		ConversionRate:  core.BasisPointsToDecimal(c.ConversionRateBps),
		BurnInUntil:     c.BurnInUntil,
		SyncedAt:        c.SyncedAt,
	}
}

func ToCampaignResponseList(campaigns []Campaign) []CampaignResponse {
	responses := make([]CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		responses = append(responses, ToCampaignResponse(&campaigns[i]))
	}
	return responses
}

type SummaryResponse struct {
	TotalSpend           string         `json:"total_spend"`
	TotalConversions     string         `json:"total_conversions"`
	TotalConversionValue string         `json:"total_conversion_value"`
	TotalImpressions     int64          `json:"total_impressions"`
	TotalClicks          int64          `json:"total_clicks"`
	AvgCpa               string         `json:"avg_cpa"`
	Roas                 string         `json:"roas"`
	TotalCampaigns       int            `json:"total_campaigns"`
	ActiveCampaigns      int            `json:"active_campaigns"`
	RecommendationCounts map[string]int `json:"recommendation_counts"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	counts := s.RecommendationCounts
	if counts == nil {
		counts = map[string]int{}
	}

	return SummaryResponse{
		TotalSpend:           core.MicrosToDecimal(s.TotalSpendMicros),
		TotalConversions:     core.MilliToDecimal(s.TotalConversionsMilli),
		TotalConversionValue: core.MicrosToDecimal(s.TotalConversionValueMicros),
		TotalImpressions:     s.TotalImpressions,
		TotalClicks:          s.TotalClicks,
		AvgCpa:               core.MicrosToDecimal(s.AvgCpaMicros),
		Roas:                 core.BasisPointsToDecimal(s.RoasBps),
		TotalCampaigns:       s.TotalCampaigns,
		ActiveCampaigns:      s.ActiveCampaigns,
		RecommendationCounts: counts,
	}
}
