// AngelaMos | 2026
// repository.go

package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
	SetSelectedAccounts(
		ctx context.Context,
		userID string,
		accounts core.StringList,
	) error
	SetViewAccounts(
		ctx context.Context,
		userID string,
		accounts core.StringList,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Get(
	ctx context.Context,
	userID string,
) (*Settings, error) {
	query := `
		SELECT user_id, ai_cadence, confidence_threshold, optimization_goal,
		       notify_email, notify_in_app, selected_accounts, view_accounts,
		       updated_at
		FROM user_settings
		WHERE user_id = $1`

	var s Settings
	err := r.db.GetContext(ctx, &s, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get settings: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, s *Settings) error {
	query := `
		INSERT INTO user_settings (
			user_id, ai_cadence, confidence_threshold, optimization_goal,
			notify_email, notify_in_app, selected_accounts, view_accounts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			ai_cadence = EXCLUDED.ai_cadence,
			confidence_threshold = EXCLUDED.confidence_threshold,
			optimization_goal = EXCLUDED.optimization_goal,
			notify_email = EXCLUDED.notify_email,
			notify_in_app = EXCLUDED.notify_in_app,
			selected_accounts = EXCLUDED.selected_accounts,
			view_accounts = EXCLUDED.view_accounts,
			updated_at = NOW()
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &s.UpdatedAt, query,
		s.UserID,
		s.AICadence,
		s.ConfidenceThreshold,
		s.OptimizationGoal,
		s.NotifyEmail,
		s.NotifyInApp,
		s.SelectedAccounts,
		s.ViewAccounts,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}

func (r *repository) SetSelectedAccounts(
	ctx context.Context,
	userID string,
	accounts core.StringList,
) error {
	return r.setAccountColumn(ctx, "selected_accounts", userID, accounts)
}

func (r *repository) SetViewAccounts(
	ctx context.Context,
	userID string,
	accounts core.StringList,
) error {
	return r.setAccountColumn(ctx, "view_accounts", userID, accounts)
}

func (r *repository) setAccountColumn(
	ctx context.Context,
	column, userID string,
	accounts core.StringList,
) error {
	// column is one of two fixed identifiers, never caller input.
	query := fmt.Sprintf(`
		INSERT INTO user_settings (user_id, %s)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			%s = EXCLUDED.%s,
			updated_at = NOW()`,
		column, column, column)

	if _, err := r.db.ExecContext(ctx, query, userID, accounts); err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}

	return nil
}
