// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// Purger removes all rows owned by a disconnected account. Each domain
// package wires its own implementation so disconnect can cascade without
// the account package importing them.
type Purger interface {
	DeleteByAccount(ctx context.Context, tx *sqlx.Tx, customerID string) error
}

type Service struct {
	db      *sqlx.DB
	repo    Repository
	purgers []Purger
	logger  *slog.Logger
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	logger *slog.Logger,
	purgers ...Purger,
) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		purgers: purgers,
		logger:  logger,
	}
}

// Connect registers a Google Ads account. Admin-only; the handler enforces
// the role, the service enforces customer id uniqueness.
func (s *Service) Connect(
	ctx context.Context,
	userID string,
	req ConnectAccountRequest,
) (*Account, error) {
	account := &Account{
		ID:               uuid.NewString(),
		UserID:           userID,
		CustomerID:       req.CustomerID,
		DescriptiveName:  req.DescriptiveName,
		RefreshToken:     req.RefreshToken,
		AccessToken:      req.AccessToken,
		IsPrimary:        req.IsPrimary,
		ParentCustomerID: req.ParentCustomerID,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("google ads account connected",
		"customer_id", account.CustomerID,
		"connected_by", userID,
	)

	return account, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.ListActive(ctx)
}

// RefreshAccessToken stores a newly minted access token for an account.
func (s *Service) RefreshAccessToken(
	ctx context.Context,
	id string,
	req RefreshTokenRequest,
) error {
	expiresAt := sql.NullTime{Time: req.TokenExpiresAt, Valid: true}
	return s.repo.UpdateTokens(ctx, id, req.AccessToken, expiresAt)
}

// Disconnect deactivates an account, wipes its stored credentials, and
// cascades deletion of every dependent row in a single transaction. The
// caller must have confirmed the operation; it is not reversible.
func (s *Service) Disconnect(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return core.BadRequestError("disconnect requires confirmation")
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return fmt.Errorf("disconnect account: %w", core.ErrInvalidState)
	}

	start := time.Now()
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, purger := range s.purgers {
			if err := purger.DeleteByAccount(ctx, tx, account.CustomerID); err != nil {
				return err
			}
		}

		txRepo := NewRepository(tx)
		return txRepo.Deactivate(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("disconnect account: %w", err)
	}

	s.logger.Info("google ads account disconnected",
		"customer_id", account.CustomerID,
		"duration", time.Since(start),
	)

	return nil
}

// ActiveCustomerIDs implements the AccountSource used by scope resolution.
func (s *Service) ActiveCustomerIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListActiveCustomerIDs(ctx)
}
