// AngelaMos | 2026
// provider.go

package ai

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnavailable signals the backing model service could not be reached
// at all, as opposed to a single evaluation failing.
var ErrUnavailable = errors.New("model provider unavailable")

// EvalRequest carries one campaign's snapshot into a reasoning pass.
// Monetary figures are pre-rendered decimal strings so the prompt never
// exposes internal micro units.
type EvalRequest struct {
	CampaignID   string
	CampaignName string
	CampaignType string
	Status       string

	DailyBudget     string
	TargetCpa       string
	TargetRoas      string
	Spend           string
	Conversions     string
	ConversionValue string
	Impressions     int64
	Clicks          int64
	Ctr             string
	AvgCpc          string
	ConversionRate  string

	// AccountGoal is the user's free-text optimization goal, included
	// verbatim so the model judges against the account's actual aim.
	AccountGoal string

	RecentActions []string
}

// Verdict is a provider's judgment for one campaign. Priority is
// optional; when the model omits it (or states an unknown value) the
// engine derives one from confidence and savings.
type Verdict struct {
	Type             string          `json:"type"`
	Priority         string          `json:"priority,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Reasoning        string          `json:"reasoning"`
	Confidence       int             `json:"confidence"`
	PotentialSavings string          `json:"potential_savings,omitempty"`
	ActionData       json.RawMessage `json:"action_data,omitempty"`
}

// Provider is the pluggable reasoning backend. One implementation per
// model service; selection happens in configuration.
type Provider interface {
	Evaluate(ctx context.Context, req EvalRequest) (Verdict, error)
	ModelID() string
}
