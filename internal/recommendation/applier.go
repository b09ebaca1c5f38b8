// AngelaMos | 2026
// applier.go

package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/audit"
	"github.com/carterperez-dev/adpilot/internal/campaign"
	"github.com/carterperez-dev/adpilot/internal/core"
)

// Applier executes apply/dismiss transitions. Apply commits the campaign
// mutation, the status change, the cooldown start and the audit entry as
// one transaction; none of them is ever observed alone.
type Applier struct {
	db     *sqlx.DB
	repo   Repository
	guard  *campaign.Guard
	logger *slog.Logger
}

func NewApplier(
	db *sqlx.DB,
	repo Repository,
	guard *campaign.Guard,
	logger *slog.Logger,
) *Applier {
	return &Applier{db: db, repo: repo, guard: guard, logger: logger}
}

func (a *Applier) Apply(
	ctx context.Context,
	recommendationID, actingUserID string,
) (*Recommendation, error) {
	rec, err := a.repo.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, err
	}

	if !rec.IsPending() {
		return nil, core.InvalidStateError(
			fmt.Sprintf("recommendation is already %s", rec.Status),
		)
	}

	if rec.Type != TypeActionable {
		return nil, core.InvalidStateError(
			fmt.Sprintf("%s recommendations cannot be applied", rec.Type),
		)
	}

	var change ActionChange
	if err := json.Unmarshal(rec.ActionData, &change); err != nil {
		return nil, fmt.Errorf("apply recommendation: decode action data: %w", err)
	}

	appliedAt := time.Now()

	err = core.InTx(ctx, a.db, func(tx *sqlx.Tx) error {
		campaignRepo := campaign.NewRepository(tx)

		target, err := campaignRepo.GetByID(ctx, rec.CampaignID)
		if err != nil {
			return err
		}

		// A prior apply may have started the cooldown after this
		// recommendation was generated.
		if !a.guard.IsEligible(target) {
			return core.InvalidStateError("campaign is in its burn-in window")
		}

		changes, before, after, err := buildChanges(target, change)
		if err != nil {
			return err
		}
		changes.BurnInUntil = a.guard.Deadline()

		if err := campaignRepo.ApplyChanges(ctx, target.ID, changes); err != nil {
			return err
		}

		txRepo := NewRepository(tx)
		if err := txRepo.MarkApplied(ctx, rec.ID, actingUserID, appliedAt); err != nil {
			return err
		}

		return audit.NewRepository(tx).Append(ctx, &audit.Entry{
			CustomerID:       rec.CustomerID,
			CampaignID:       &rec.CampaignID,
			RecommendationID: &rec.ID,
			Action:           audit.ActionRecommendationApplied,
			PerformedBy:      audit.PerformerUser,
			PerformerID:      actingUserID,
			Details: fmt.Sprintf(
				"applied %q: %s changed from %s to %s",
				rec.Title, change.Field, before, after,
			),
		})
	})
	if err != nil {
		return nil, err
	}

	rec.Status = StatusApplied
	rec.AppliedAt = &appliedAt
	rec.ResolvedBy = &actingUserID

	a.logger.Info("recommendation applied",
		"recommendation_id", rec.ID,
		"campaign_id", rec.CampaignID,
		"field", change.Field,
		"user_id", actingUserID,
	)

	return rec, nil
}

func (a *Applier) Dismiss(
	ctx context.Context,
	recommendationID, actingUserID string,
) (*Recommendation, error) {
	rec, err := a.repo.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, err
	}

	if !rec.IsPending() {
		return nil, core.InvalidStateError(
			fmt.Sprintf("recommendation is already %s", rec.Status),
		)
	}

	err = core.InTx(ctx, a.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)
		if err := txRepo.MarkDismissed(ctx, rec.ID, actingUserID); err != nil {
			return err
		}

		return audit.NewRepository(tx).Append(ctx, &audit.Entry{
			CustomerID:       rec.CustomerID,
			CampaignID:       &rec.CampaignID,
			RecommendationID: &rec.ID,
			Action:           audit.ActionRecommendationDismissed,
			PerformedBy:      audit.PerformerUser,
			PerformerID:      actingUserID,
			Details:          fmt.Sprintf("dismissed %q", rec.Title),
		})
	})
	if err != nil {
		return nil, err
	}

	rec.Status = StatusDismissed
	rec.ResolvedBy = &actingUserID

	a.logger.Info("recommendation dismissed",
		"recommendation_id", rec.ID,
		"campaign_id", rec.CampaignID,
		"user_id", actingUserID,
	)

	return rec, nil
}

// buildChanges translates an action payload into a campaign mutation and
// returns before/after values for the audit record.
func buildChanges(
	target *campaign.Campaign,
	change ActionChange,
) (campaign.Changes, string, string, error) {
	var changes campaign.Changes

	switch change.Field {
	case "daily_budget":
		micros, err := core.DecimalToMicros(change.NewValue)
		if err != nil {
			return changes, "", "", fmt.Errorf("invalid daily_budget value: %w", err)
		}
		changes.DailyBudgetMicros = &micros
		return changes,
			core.MicrosToDecimal(target.DailyBudgetMicros),
			core.MicrosToDecimal(micros),
			nil

	case "target_cpa":
		micros, err := core.DecimalToMicros(change.NewValue)
		if err != nil {
			return changes, "", "", fmt.Errorf("invalid target_cpa value: %w", err)
		}
		changes.TargetCpaMicros = &micros
		return changes,
			core.MicrosToDecimal(target.TargetCpaMicros),
			core.MicrosToDecimal(micros),
			nil

	case "target_roas":
		ratio, err := strconv.ParseFloat(change.NewValue, 64)
		if err != nil {
			return changes, "", "", fmt.Errorf("invalid target_roas value: %w", err)
		}
		bps := int64(ratio * core.BasisPoints)
		changes.TargetRoasBps = &bps
		return changes,
			core.BasisPointsToDecimal(target.TargetRoasBps),
			core.BasisPointsToDecimal(bps),
			nil

	case "status":
		switch change.NewValue {
		case campaign.StatusEnabled, campaign.StatusPaused:
		default:
			return changes, "", "", fmt.Errorf(
				"invalid status value %q", change.NewValue,
			)
		}
		status := change.NewValue
		changes.Status = &status
		return changes, target.Status, status, nil

	default:
		return changes, "", "", fmt.Errorf(
			"unsupported action field %q", change.Field,
		)
	}
}
