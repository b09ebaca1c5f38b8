// AngelaMos | 2026
// entity.go

package settings

import (
	"time"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// Settings is the per-user preference row. SelectedAccounts is the
// admin-curated master list of active ad accounts; ViewAccounts is an
// ephemeral per-user filter narrowing what dashboards display. Scope
// resolution treats the view filter as an override of the master list.
// OptimizationGoal is free text describing what the account is optimizing
// for; it is handed to the model verbatim with each evaluation.
type Settings struct {
	UserID              string          `db:"user_id"`
	AICadence           string          `db:"ai_cadence"`
	ConfidenceThreshold int             `db:"confidence_threshold"`
	OptimizationGoal    string          `db:"optimization_goal"`
	NotifyEmail         bool            `db:"notify_email"`
	NotifyInApp         bool            `db:"notify_in_app"`
	SelectedAccounts    core.StringList `db:"selected_accounts"`
	ViewAccounts        core.StringList `db:"view_accounts"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

const (
	CadenceManual = "manual"
	CadenceDaily  = "daily"
	CadenceWeekly = "weekly"
)

const DefaultConfidenceThreshold = 70

// Defaults returns the settings row implied for a user with no stored row.
func Defaults(userID string) *Settings {
	return &Settings{
		UserID:              userID,
		AICadence:           CadenceManual,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		NotifyEmail:         true,
		NotifyInApp:         true,
	}
}
