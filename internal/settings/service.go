// AngelaMos | 2026
// service.go

package settings

import (
	"context"
	"errors"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type Service struct {
	repo             Repository
	defaultThreshold int
}

// NewService builds the settings service. defaultThreshold seeds the
// confidence threshold for users without a stored row; zero falls back to
// the package default.
func NewService(repo Repository, defaultThreshold int) *Service {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultConfidenceThreshold
	}
	return &Service{repo: repo, defaultThreshold: defaultThreshold}
}

// Get returns the user's stored settings, falling back to defaults when no
// row exists yet. Callers always receive a usable settings value.
func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	stored, err := s.repo.Get(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		defaults := Defaults(userID)
		defaults.ConfidenceThreshold = s.defaultThreshold
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID string,
	req UpdateSettingsRequest,
) (*Settings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.AICadence != nil {
		current.AICadence = *req.AICadence
	}
	if req.ConfidenceThreshold != nil {
		current.ConfidenceThreshold = *req.ConfidenceThreshold
	}
	if req.OptimizationGoal != nil {
		current.OptimizationGoal = *req.OptimizationGoal
	}
	if req.NotifyEmail != nil {
		current.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifyInApp != nil {
		current.NotifyInApp = *req.NotifyInApp
	}

	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// UpdateSelectedAccounts replaces the master account selection. Updating the
// master list also clears any view filter so the two layers cannot drift into
// referencing accounts outside the master set.
func (s *Service) UpdateSelectedAccounts(
	ctx context.Context,
	userID string,
	accounts []string,
) (*Settings, error) {
	if err := s.repo.SetSelectedAccounts(ctx, userID, accounts); err != nil {
		return nil, err
	}

	if err := s.repo.SetViewAccounts(ctx, userID, nil); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// UpdateViewAccounts replaces the per-user view filter. An empty list clears
// the filter, falling back to the master selection.
func (s *Service) UpdateViewAccounts(
	ctx context.Context,
	userID string,
	accounts []string,
) (*Settings, error) {
	if err := s.repo.SetViewAccounts(ctx, userID, accounts); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// AccountSelection returns the two selection layers for scope resolution.
func (s *Service) AccountSelection(
	ctx context.Context,
	userID string,
) (master, view []string, err error) {
	stored, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return stored.SelectedAccounts, stored.ViewAccounts, nil
}

// OptimizationGoal returns the free-text account goal included with each
// model evaluation. Empty when the user never set one.
func (s *Service) OptimizationGoal(
	ctx context.Context,
	userID string,
) (string, error) {
	stored, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	return stored.OptimizationGoal, nil
}

// ConfidenceThreshold returns the user's minimum confidence for surfacing
// recommendations.
func (s *Service) ConfidenceThreshold(
	ctx context.Context,
	userID string,
) (int, error) {
	stored, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	return stored.ConfidenceThreshold, nil
}
