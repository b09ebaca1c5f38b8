// AngelaMos | 2026
// prompt.go

package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert paid-search strategist reviewing Google Ads campaign performance. For the campaign snapshot you are given, produce exactly one JSON object and nothing else:

{
  "type": "actionable" | "monitor" | "clarification",
  "priority": "high" | "medium" | "low", omit to let the engine rank it,
  "title": "short imperative summary",
  "description": "one paragraph for the account owner",
  "reasoning": "the performance signals behind the judgment",
  "confidence": 0-100,
  "potential_savings": "monthly amount such as 240.00, omit if none",
  "action_data": {"field": "daily_budget"|"target_cpa"|"target_roas"|"status", "new_value": "..."}
}

Rules:
- "actionable" requires action_data describing a single concrete change.
- "monitor" means performance is acceptable or the trend is too young to act on; omit action_data.
- "clarification" means you need information only a human has (business margins, seasonality, intent); omit action_data.
- Be conservative: if the trailing window is thin, lower your confidence.`

// BuildPrompt renders one campaign's trailing snapshot as the user turn
// of an evaluation request.
func BuildPrompt(req EvalRequest) string {
	var b strings.Builder

	if req.AccountGoal != "" {
		fmt.Fprintf(&b, "Account goal: %s\n\n", req.AccountGoal)
	}

	fmt.Fprintf(&b, "Campaign: %s (%s, %s)\n", req.CampaignName, req.CampaignType, req.Status)
	fmt.Fprintf(&b, "Daily budget: %s\n", req.DailyBudget)

	if req.TargetCpa != "" && req.TargetCpa != "0.00" {
		fmt.Fprintf(&b, "Target CPA: %s\n", req.TargetCpa)
	}
	if req.TargetRoas != "" && req.TargetRoas != "0.0000" {
		fmt.Fprintf(&b, "Target ROAS: %s\n", req.TargetRoas)
	}

	b.WriteString("\nTrailing 7-day performance:\n")
	fmt.Fprintf(&b, "  Spend: %s\n", req.Spend)
	fmt.Fprintf(&b, "  Conversions: %s (value %s)\n", req.Conversions, req.ConversionValue)
	fmt.Fprintf(&b, "  Impressions: %d, clicks: %d, CTR: %s\n", req.Impressions, req.Clicks, req.Ctr)
	fmt.Fprintf(&b, "  Avg CPC: %s, conversion rate: %s\n", req.AvgCpc, req.ConversionRate)

	if len(req.RecentActions) > 0 {
		b.WriteString("\nRecent applied changes on this campaign:\n")
		for _, action := range req.RecentActions {
			fmt.Fprintf(&b, "  - %s\n", action)
		}
	}

	b.WriteString("\nRespond with the JSON verdict object only.")

	return b.String()
}
