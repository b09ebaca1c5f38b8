// AngelaMos | 2026
// repository.go

package campaign

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// Changes captures the campaign mutation an applied recommendation
// produces. Nil fields are left untouched. BurnInUntil is always written
// by the applier so the cooldown commits with the mutation.
type Changes struct {
	DailyBudgetMicros *int64
	TargetCpaMicros   *int64
	TargetRoasBps     *int64
	Status            *string
	BurnInUntil       time.Time
}

type Repository interface {
	UpsertSync(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	ListByScope(ctx context.Context, customerIDs []string) ([]Campaign, error)
	ApplyChanges(ctx context.Context, id string, changes Changes) error
	DeleteByCustomerID(ctx context.Context, customerID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const campaignColumns = `
	id, user_id, customer_id, external_id, name, type, status,
	daily_budget_micros, target_cpa_micros, target_roas_bps,
	spend_micros, conversions_milli, conversion_value_micros,
	impressions, clicks, ctr_bps, avg_cpc_micros, conversion_rate_bps,
	burn_in_until, synced_at, created_at, updated_at`

// UpsertSync replaces identity, configuration and the trailing metrics
// snapshot wholesale. burn_in_until is engine-owned state and survives
// a sync untouched.
func (r *repository) UpsertSync(ctx context.Context, c *Campaign) error {
	query := `
		INSERT INTO campaigns (
			id, user_id, customer_id, external_id, name, type, status,
			daily_budget_micros, target_cpa_micros, target_roas_bps,
			spend_micros, conversions_milli, conversion_value_micros,
			impressions, clicks, ctr_bps, avg_cpc_micros,
			conversion_rate_bps, synced_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, NOW()
		)
		ON CONFLICT (customer_id, external_id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			status = EXCLUDED.status,
			daily_budget_micros = EXCLUDED.daily_budget_micros,
			target_cpa_micros = EXCLUDED.target_cpa_micros,
			target_roas_bps = EXCLUDED.target_roas_bps,
			spend_micros = EXCLUDED.spend_micros,
			conversions_milli = EXCLUDED.conversions_milli,
			conversion_value_micros = EXCLUDED.conversion_value_micros,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			ctr_bps = EXCLUDED.ctr_bps,
			avg_cpc_micros = EXCLUDED.avg_cpc_micros,
			conversion_rate_bps = EXCLUDED.conversion_rate_bps,
			synced_at = NOW(),
			updated_at = NOW()
		RETURNING id, burn_in_until, synced_at, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		c.ID, c.UserID, c.CustomerID, c.ExternalID, c.Name, c.Type, c.Status,
		c.DailyBudgetMicros, c.TargetCpaMicros, c.TargetRoasBps,
		c.SpendMicros, c.ConversionsMilli, c.ConversionValueMicros,
		c.Impressions, c.Clicks, c.CtrBps, c.AvgCpcMicros,
		c.ConversionRateBps,
	)

	err := row.Scan(&c.ID, &c.BurnInUntil, &c.SyncedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert campaign: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Campaign, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM campaigns WHERE id = $1`,
		campaignColumns,
	)

	var campaign Campaign
	err := r.db.GetContext(ctx, &campaign, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get campaign: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}

	return &campaign, nil
}

// ListByScope returns campaigns for the given customer ids, or every
// campaign when the list is empty (unfiltered scope).
func (r *repository) ListByScope(
	ctx context.Context,
	customerIDs []string,
) ([]Campaign, error) {
	var campaigns []Campaign

	if len(customerIDs) == 0 {
		query := fmt.Sprintf(
			`SELECT %s FROM campaigns ORDER BY customer_id, name`,
			campaignColumns,
		)
		if err := r.db.SelectContext(ctx, &campaigns, query); err != nil {
			return nil, fmt.Errorf("list campaigns: %w", err)
		}
		return campaigns, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(
		`SELECT %s FROM campaigns WHERE customer_id IN (?) ORDER BY customer_id, name`,
		campaignColumns,
	), customerIDs)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &campaigns, query, args...); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *repository) ApplyChanges(
	ctx context.Context,
	id string,
	changes Changes,
) error {
	query := `
		UPDATE campaigns
		SET daily_budget_micros = COALESCE($2, daily_budget_micros),
		    target_cpa_micros = COALESCE($3, target_cpa_micros),
		    target_roas_bps = COALESCE($4, target_roas_bps),
		    status = COALESCE($5, status),
		    burn_in_until = $6,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		id,
		changes.DailyBudgetMicros,
		changes.TargetCpaMicros,
		changes.TargetRoasBps,
		changes.Status,
		changes.BurnInUntil,
	)
	if err != nil {
		return fmt.Errorf("apply campaign changes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply campaign changes: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("apply campaign changes: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteByCustomerID(
	ctx context.Context,
	customerID string,
) error {
	query := `DELETE FROM campaigns WHERE customer_id = $1`

	if _, err := r.db.ExecContext(ctx, query, customerID); err != nil {
		return fmt.Errorf("delete campaigns by customer id: %w", err)
	}

	return nil
}
