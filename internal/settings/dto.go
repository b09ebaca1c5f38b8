// AngelaMos | 2026
// dto.go

package settings

import (
	"time"
)

type UpdateSettingsRequest struct {
	AICadence           *string `json:"ai_cadence,omitempty"           validate:"omitempty,oneof=manual daily weekly"`
	ConfidenceThreshold *int    `json:"confidence_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	OptimizationGoal    *string `json:"optimization_goal,omitempty"    validate:"omitempty,max=500"`
	NotifyEmail         *bool   `json:"notify_email,omitempty"`
	NotifyInApp         *bool   `json:"notify_in_app,omitempty"`
}

type UpdateAccountSelectionRequest struct {
	Accounts []string `json:"accounts" validate:"required,dive,len=10,numeric"`
}

type UpdateViewFilterRequest struct {
	Accounts []string `json:"accounts" validate:"dive,len=10,numeric"`
}

type SettingsResponse struct {
	AICadence           string    `json:"ai_cadence"`
	ConfidenceThreshold int       `json:"confidence_threshold"`
	OptimizationGoal    string    `json:"optimization_goal"`
	NotifyEmail         bool      `json:"notify_email"`
	NotifyInApp         bool      `json:"notify_in_app"`
	SelectedAccounts    []string  `json:"selected_accounts"`
	ViewAccounts        []string  `json:"view_accounts"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func ToSettingsResponse(s *Settings) SettingsResponse {
	selected := s.SelectedAccounts
	if selected == nil {
		selected = []string{}
	}
	view := s.ViewAccounts
	if view == nil {
		view = []string{}
	}

	return SettingsResponse{
		AICadence:           s.AICadence,
		ConfidenceThreshold: s.ConfidenceThreshold,
		OptimizationGoal:    s.OptimizationGoal,
		NotifyEmail:         s.NotifyEmail,
		NotifyInApp:         s.NotifyInApp,
		SelectedAccounts:    selected,
		ViewAccounts:        view,
		UpdatedAt:           s.UpdatedAt,
	}
}
