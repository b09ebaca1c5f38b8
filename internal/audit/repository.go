// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByCampaign(ctx context.Context, campaignID string, limit int) ([]Entry, error)
	List(ctx context.Context, customerIDs []string, limit, offset int) ([]Entry, int, error)
	RecentActionDetails(ctx context.Context, campaignID string, limit int) ([]string, error)
	DeleteByCustomerID(ctx context.Context, customerID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const auditColumns = `
	id, customer_id, campaign_id, recommendation_id, action,
	performed_by, performer_id, details, created_at`

func (r *repository) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO audit_logs (
			id, customer_id, campaign_id, recommendation_id, action,
			performed_by, performer_id, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &entry.CreatedAt, query,
		entry.ID,
		entry.CustomerID,
		entry.CampaignID,
		entry.RecommendationID,
		entry.Action,
		entry.PerformedBy,
		entry.PerformerID,
		entry.Details,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}

func (r *repository) ListByCampaign(
	ctx context.Context,
	campaignID string,
	limit int,
) ([]Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM audit_logs
		WHERE campaign_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		auditColumns,
	)

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, campaignID, limit); err != nil {
		return nil, fmt.Errorf("list audit entries by campaign: %w", err)
	}

	return entries, nil
}

func (r *repository) List(
	ctx context.Context,
	customerIDs []string,
	limit, offset int,
) ([]Entry, int, error) {
	var entries []Entry
	var total int

	if len(customerIDs) == 0 {
		countQuery := `SELECT COUNT(*) FROM audit_logs`
		if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
			return nil, 0, fmt.Errorf("count audit entries: %w", err)
		}

		query := fmt.Sprintf(`
			SELECT %s FROM audit_logs
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`,
			auditColumns,
		)
		if err := r.db.SelectContext(ctx, &entries, query, limit, offset); err != nil {
			return nil, 0, fmt.Errorf("list audit entries: %w", err)
		}

		return entries, total, nil
	}

	countQuery, countArgs, err := sqlx.In(
		`SELECT COUNT(*) FROM audit_logs WHERE customer_id IN (?)`,
		customerIDs,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}
	countQuery = r.db.Rebind(countQuery)
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query, args, err := sqlx.In(fmt.Sprintf(`
		SELECT %s FROM audit_logs
		WHERE customer_id IN (?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		auditColumns,
	), customerIDs, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, total, nil
}

// RecentActionDetails feeds the evaluation prompt with the latest applied
// changes on a campaign.
func (r *repository) RecentActionDetails(
	ctx context.Context,
	campaignID string,
	limit int,
) ([]string, error) {
	query := `
		SELECT details FROM audit_logs
		WHERE campaign_id = $1 AND action = $2
		ORDER BY created_at DESC
		LIMIT $3`

	var details []string
	err := r.db.SelectContext(
		ctx,
		&details,
		query,
		campaignID,
		ActionRecommendationApplied,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent action details: %w", err)
	}

	return details, nil
}

func (r *repository) DeleteByCustomerID(
	ctx context.Context,
	customerID string,
) error {
	query := `DELETE FROM audit_logs WHERE customer_id = $1`

	if _, err := r.db.ExecContext(ctx, query, customerID); err != nil {
		return fmt.Errorf("delete audit entries by customer id: %w", err)
	}

	return nil
}
