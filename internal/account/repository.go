// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByCustomerID(ctx context.Context, customerID string) (*Account, error)
	ListActive(ctx context.Context) ([]Account, error)
	ListByOwner(ctx context.Context, userID string) ([]Account, error)
	ListActiveCustomerIDs(ctx context.Context) ([]string, error)
	UpdateTokens(
		ctx context.Context,
		id, accessToken string,
		expiresAt sql.NullTime,
	) error
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const accountColumns = `
	id, user_id, customer_id, descriptive_name, refresh_token, access_token,
	token_expires_at, is_primary, parent_customer_id, is_active,
	connected_at, updated_at`

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO google_ads_accounts (
			id, user_id, customer_id, descriptive_name, refresh_token,
			access_token, token_expires_at, is_primary, parent_customer_id,
			is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING connected_at, updated_at`

	err := r.db.GetContext(ctx, account, query,
		account.ID,
		account.UserID,
		account.CustomerID,
		account.DescriptiveName,
		account.RefreshToken,
		account.AccessToken,
		account.TokenExpiresAt,
		account.IsPrimary,
		account.ParentCustomerID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM google_ads_accounts WHERE id = $1`,
		accountColumns,
	)

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByCustomerID(
	ctx context.Context,
	customerID string,
) (*Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM google_ads_accounts WHERE customer_id = $1`,
		accountColumns,
	)

	var account Account
	err := r.db.GetContext(ctx, &account, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by customer id: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by customer id: %w", err)
	}

	return &account, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM google_ads_accounts
		WHERE is_active = TRUE
		ORDER BY connected_at`,
		accountColumns,
	)

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}

	return accounts, nil
}

func (r *repository) ListByOwner(
	ctx context.Context,
	userID string,
) ([]Account, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM google_ads_accounts
		WHERE user_id = $1
		ORDER BY connected_at`,
		accountColumns,
	)

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("list accounts by owner: %w", err)
	}

	return accounts, nil
}

func (r *repository) ListActiveCustomerIDs(
	ctx context.Context,
) ([]string, error) {
	query := `
		SELECT customer_id FROM google_ads_accounts
		WHERE is_active = TRUE
		ORDER BY customer_id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list active customer ids: %w", err)
	}

	return ids, nil
}

func (r *repository) UpdateTokens(
	ctx context.Context,
	id, accessToken string,
	expiresAt sql.NullTime,
) error {
	query := `
		UPDATE google_ads_accounts
		SET access_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.ExecContext(ctx, query, id, accessToken, expiresAt)
	if err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update tokens: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE google_ads_accounts
		SET is_active = FALSE, access_token = '', refresh_token = '',
		    updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deactivate account: %w", core.ErrNotFound)
	}

	return nil
}
