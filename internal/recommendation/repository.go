// AngelaMos | 2026
// repository.go

package recommendation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type Repository interface {
	Create(ctx context.Context, rec *Recommendation) error
	GetByID(ctx context.Context, id string) (*Recommendation, error)
	ListPending(ctx context.Context, customerIDs []string) ([]PendingWithCampaign, error)
	SupersedePending(ctx context.Context, campaignID string) (int64, error)
	MarkApplied(ctx context.Context, id, userID string, at time.Time) error
	MarkDismissed(ctx context.Context, id, userID string) error
	CountPendingByType(ctx context.Context, customerIDs []string) (map[string]int, error)
	LastGeneratedAt(ctx context.Context, customerIDs []string) (*time.Time, error)
	DeleteByCustomerID(ctx context.Context, customerID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const recommendationColumns = `
	id, campaign_id, customer_id, type, priority, confidence, status,
	title, description, reasoning, model_id, potential_savings_micros,
	action_data, applied_at, resolved_by, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rec *Recommendation) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO recommendations (
			id, campaign_id, customer_id, type, priority, confidence,
			status, title, description, reasoning, model_id,
			potential_savings_micros, action_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		rec.ID,
		rec.CampaignID,
		rec.CustomerID,
		rec.Type,
		rec.Priority,
		rec.Confidence,
		rec.Status,
		rec.Title,
		rec.Description,
		rec.Reasoning,
		rec.ModelID,
		rec.PotentialSavingsMicros,
		rec.ActionData,
	)

	if err := row.Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("create recommendation: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Recommendation, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM recommendations WHERE id = $1`,
		recommendationColumns,
	)

	var rec Recommendation
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get recommendation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}

	return &rec, nil
}

func (r *repository) ListPending(
	ctx context.Context,
	customerIDs []string,
) ([]PendingWithCampaign, error) {
	base := `
		SELECT r.id, r.campaign_id, r.customer_id, r.type, r.priority,
		       r.confidence, r.status, r.title, r.description, r.reasoning,
		       r.model_id, r.potential_savings_micros, r.action_data,
		       r.applied_at, r.resolved_by, r.created_at, r.updated_at,
		       c.name AS campaign_name, c.type AS campaign_type
		FROM recommendations r
		JOIN campaigns c ON c.id = r.campaign_id
		WHERE r.status = 'pending'`

	var recs []PendingWithCampaign

	if len(customerIDs) == 0 {
		query := base + ` ORDER BY r.created_at DESC`
		if err := r.db.SelectContext(ctx, &recs, query); err != nil {
			return nil, fmt.Errorf("list pending recommendations: %w", err)
		}
		return recs, nil
	}

	query, args, err := sqlx.In(
		base+` AND r.customer_id IN (?) ORDER BY r.created_at DESC`,
		customerIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending recommendations: %w", err)
	}

	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list pending recommendations: %w", err)
	}

	return recs, nil
}

// SupersedePending soft-dismisses any pending recommendation for the
// campaign so a fresh one can take its place. Returns the number of rows
// superseded; the partial unique index on (campaign_id) WHERE pending
// keeps concurrent runs from racing past this.
func (r *repository) SupersedePending(
	ctx context.Context,
	campaignID string,
) (int64, error) {
	query := `
		UPDATE recommendations
		SET status = 'dismissed', resolved_by = 'superseded',
		    updated_at = NOW()
		WHERE campaign_id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, campaignID)
	if err != nil {
		return 0, fmt.Errorf("supersede pending: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("supersede pending: %w", err)
	}

	return rows, nil
}

func (r *repository) MarkApplied(
	ctx context.Context,
	id, userID string,
	at time.Time,
) error {
	query := `
		UPDATE recommendations
		SET status = 'applied', applied_at = $3, resolved_by = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, userID, at)
	if err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark applied: %w", core.ErrInvalidState)
	}

	return nil
}

func (r *repository) MarkDismissed(ctx context.Context, id, userID string) error {
	query := `
		UPDATE recommendations
		SET status = 'dismissed', resolved_by = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark dismissed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark dismissed: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark dismissed: %w", core.ErrInvalidState)
	}

	return nil
}

func (r *repository) CountPendingByType(
	ctx context.Context,
	customerIDs []string,
) (map[string]int, error) {
	type countRow struct {
		Type  string `db:"type"`
		Count int    `db:"count"`
	}

	var rows []countRow

	if len(customerIDs) == 0 {
		query := `
			SELECT type, COUNT(*) AS count FROM recommendations
			WHERE status = 'pending'
			GROUP BY type`
		if err := r.db.SelectContext(ctx, &rows, query); err != nil {
			return nil, fmt.Errorf("count pending by type: %w", err)
		}
	} else {
		query, args, err := sqlx.In(`
			SELECT type, COUNT(*) AS count FROM recommendations
			WHERE status = 'pending' AND customer_id IN (?)
			GROUP BY type`,
			customerIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("count pending by type: %w", err)
		}

		query = r.db.Rebind(query)
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("count pending by type: %w", err)
		}
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}

	return counts, nil
}

// LastGeneratedAt is derived state, not a stored timestamp, so concurrent
// generation runs cannot race over it.
func (r *repository) LastGeneratedAt(
	ctx context.Context,
	customerIDs []string,
) (*time.Time, error) {
	var last sql.NullTime

	if len(customerIDs) == 0 {
		query := `SELECT MAX(created_at) FROM recommendations`
		if err := r.db.GetContext(ctx, &last, query); err != nil {
			return nil, fmt.Errorf("last generated at: %w", err)
		}
	} else {
		query, args, err := sqlx.In(
			`SELECT MAX(created_at) FROM recommendations WHERE customer_id IN (?)`,
			customerIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("last generated at: %w", err)
		}

		query = r.db.Rebind(query)
		if err := r.db.GetContext(ctx, &last, query, args...); err != nil {
			return nil, fmt.Errorf("last generated at: %w", err)
		}
	}

	if !last.Valid {
		return nil, nil
	}

	t := last.Time
	return &t, nil
}

func (r *repository) DeleteByCustomerID(
	ctx context.Context,
	customerID string,
) error {
	query := `DELETE FROM recommendations WHERE customer_id = $1`

	if _, err := r.db.ExecContext(ctx, query, customerID); err != nil {
		return fmt.Errorf("delete recommendations by customer id: %w", err)
	}

	return nil
}

// Purger cascades recommendation deletion when an ads account is
// disconnected.
type Purger struct{}

func (Purger) DeleteByAccount(
	ctx context.Context,
	tx *sqlx.Tx,
	customerID string,
) error {
	return NewRepository(tx).DeleteByCustomerID(ctx, customerID)
}
