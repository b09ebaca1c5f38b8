// AngelaMos | 2026
// generator.go

package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/ai"
	"github.com/carterperez-dev/adpilot/internal/audit"
	"github.com/carterperez-dev/adpilot/internal/campaign"
	"github.com/carterperez-dev/adpilot/internal/core"
)

const (
	RunStatusOK             = "ok"
	RunStatusPartialFailure = "partial_failure"

	recentActionLimit = 5
)

// SummaryInvalidator drops cached dashboard summaries once a run has
// changed the pending-recommendation set. Implemented by the campaign
// service.
type SummaryInvalidator interface {
	InvalidateSummaries(ctx context.Context) error
}

// GoalSource supplies the user's free-text optimization goal for the
// evaluation prompt. Implemented by the settings service.
type GoalSource interface {
	OptimizationGoal(ctx context.Context, userID string) (string, error)
}

type CampaignFailure struct {
	CampaignID string `json:"campaign_id"`
	Reason     string `json:"reason"`
}

// RunSummary reports one generation run. Skipped counts campaigns held
// back before evaluation (cooling or inactive); Failed lists campaigns
// whose provider call or persistence failed.
type RunSummary struct {
	Status    string            `json:"status"`
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Failed    []CampaignFailure `json:"failed"`
	StartedAt time.Time         `json:"started_at"`
	Duration  string            `json:"duration"`
}

// Generator orchestrates a reasoning pass over every evaluable campaign
// in scope. Provider calls run concurrently up to a bounded parallelism;
// each resulting recommendation commits in its own transaction under the
// supersede-prior-pending rule.
type Generator struct {
	db          *sqlx.DB
	repo        Repository
	campaigns   campaign.Repository
	audits      audit.Repository
	provider    ai.Provider
	guard       *campaign.Guard
	resolver    *account.Resolver
	goals       GoalSource
	invalidator SummaryInvalidator
	lock        *runLock
	maxParallel int
	callTimeout time.Duration
	logger      *slog.Logger
}

type GeneratorConfig struct {
	MaxParallel int
	CallTimeout time.Duration
	RunLockTTL  time.Duration
}

func NewGenerator(
	db *sqlx.DB,
	repo Repository,
	campaigns campaign.Repository,
	audits audit.Repository,
	provider ai.Provider,
	guard *campaign.Guard,
	resolver *account.Resolver,
	goals GoalSource,
	invalidator SummaryInvalidator,
	redisClient *redis.Client,
	cfg GeneratorConfig,
	logger *slog.Logger,
) *Generator {
	maxParallel := cfg.MaxParallel
	if maxParallel < 1 {
		maxParallel = 1
	}

	return &Generator{
		db:          db,
		repo:        repo,
		campaigns:   campaigns,
		audits:      audits,
		provider:    provider,
		guard:       guard,
		resolver:    resolver,
		goals:       goals,
		invalidator: invalidator,
		lock:        newRunLock(redisClient, cfg.RunLockTTL),
		maxParallel: maxParallel,
		callTimeout: cfg.CallTimeout,
		logger:      logger,
	}
}

type evalResult struct {
	campaign *campaign.Campaign
	verdict  ai.Verdict
	err      error
}

// Run evaluates every eligible campaign in the caller's scope. A second
// run for the same user while one is in flight is rejected; a wholesale
// provider outage fails the run with no new recommendations.
func (g *Generator) Run(
	ctx context.Context,
	principal account.Principal,
	requested []string,
) (RunSummary, error) {
	startedAt := time.Now()

	token, err := g.lock.acquire(ctx, principal.UserID)
	if err != nil {
		return RunSummary{}, err
	}
	defer g.lock.release(ctx, principal.UserID, token)

	scope, err := g.resolver.Resolve(ctx, principal, requested)
	if err != nil {
		return RunSummary{}, err
	}

	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}

	campaigns, err := g.campaigns.ListByScope(ctx, ids)
	if err != nil {
		return RunSummary{}, fmt.Errorf("generation run: %w", err)
	}

	eligible := make([]*campaign.Campaign, 0, len(campaigns))
	skipped := 0
	for i := range campaigns {
		c := &campaigns[i]
		if c.Status == campaign.StatusRemoved || !g.guard.IsEligible(c) {
			skipped++
			continue
		}
		eligible = append(eligible, c)
	}

	goal := ""
	if g.goals != nil {
		goal, err = g.goals.OptimizationGoal(ctx, principal.UserID)
		if err != nil {
			// The goal is advisory context; a failed read never blocks
			// the run.
			g.logger.Warn("load optimization goal", "error", err)
			goal = ""
		}
	}

	results := g.evaluate(ctx, eligible, goal)

	summary := RunSummary{
		Status:    RunStatusOK,
		Skipped:   skipped,
		Failed:    []CampaignFailure{},
		StartedAt: startedAt,
	}

	unavailable := 0
	for _, result := range results {
		if result.err != nil {
			if errors.Is(result.err, ai.ErrUnavailable) {
				unavailable++
			}
			summary.Failed = append(summary.Failed, CampaignFailure{
				CampaignID: result.campaign.ID,
				Reason:     result.err.Error(),
			})
			continue
		}

		if err := g.persist(ctx, result); err != nil {
			summary.Failed = append(summary.Failed, CampaignFailure{
				CampaignID: result.campaign.ID,
				Reason:     err.Error(),
			})
			continue
		}

		summary.Generated++
	}

	// Every attempted call failed at the transport layer: treat the
	// provider as down for the whole run.
	if len(results) > 0 && summary.Generated == 0 && unavailable == len(results) {
		return RunSummary{}, core.ProviderUnavailableError()
	}

	if len(summary.Failed) > 0 {
		summary.Status = RunStatusPartialFailure
	}

	summary.Duration = time.Since(startedAt).Round(time.Millisecond).String()

	if summary.Generated > 0 && g.invalidator != nil {
		if err := g.invalidator.InvalidateSummaries(ctx); err != nil {
			g.logger.Warn("invalidate summary cache", "error", err)
		}
	}

	g.logger.Info("generation run complete",
		"user_id", principal.UserID,
		"generated", summary.Generated,
		"skipped", summary.Skipped,
		"failed", len(summary.Failed),
		"status", summary.Status,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (g *Generator) evaluate(
	ctx context.Context,
	eligible []*campaign.Campaign,
	goal string,
) []evalResult {
	results := make([]evalResult, len(eligible))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.maxParallel)

	for i, c := range eligible {
		i, c := i, c
		group.Go(func() error {
			verdict, err := g.evaluateOne(groupCtx, c, goal)
			results[i] = evalResult{campaign: c, verdict: verdict, err: err}
			// Per-campaign failures never abort the run.
			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (g *Generator) evaluateOne(
	ctx context.Context,
	c *campaign.Campaign,
	goal string,
) (ai.Verdict, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	recent, err := g.audits.RecentActionDetails(callCtx, c.ID, recentActionLimit)
	if err != nil {
		return ai.Verdict{}, err
	}

	req := ai.EvalRequest{
		CampaignID:      c.ID,
		CampaignName:    c.Name,
		CampaignType:    c.Type,
		Status:          c.Status,
		DailyBudget:     core.MicrosToDecimal(c.DailyBudgetMicros),
		TargetCpa:       core.MicrosToDecimal(c.TargetCpaMicros),
		TargetRoas:      core.BasisPointsToDecimal(c.TargetRoasBps),
		Spend:           core.MicrosToDecimal(c.SpendMicros),
		Conversions:     core.MilliToDecimal(c.ConversionsMilli),
		ConversionValue: core.MicrosToDecimal(c.ConversionValueMicros),
		Impressions:     c.Impressions,
		Clicks:          c.Clicks,
		Ctr:             core.BasisPointsToDecimal(c.CtrBps),
		AvgCpc:          core.MicrosToDecimal(c.AvgCpcMicros),
		ConversionRate:  core.BasisPointsToDecimal(c.ConversionRateBps),
		AccountGoal:     goal,
		RecentActions:   recent,
	}

	return g.provider.Evaluate(callCtx, req)
}

// persist commits one verdict: supersede the campaign's pending
// recommendation, insert the new one and append the audit entry, all in
// one transaction.
func (g *Generator) persist(ctx context.Context, result evalResult) error {
	verdict := result.verdict
	c := result.campaign

	rec := &Recommendation{
		CampaignID:  c.ID,
		CustomerID:  c.CustomerID,
		Type:        verdict.Type,
		Priority:    ai.DerivePriority(verdict),
		Confidence:  verdict.Confidence,
		Status:      StatusPending,
		Title:       verdict.Title,
		Description: verdict.Description,
		Reasoning:   verdict.Reasoning,
		ModelID:     g.provider.ModelID(),
		ActionData:  verdict.ActionData,
	}

	if verdict.PotentialSavings != "" {
		if micros, err := core.DecimalToMicros(verdict.PotentialSavings); err == nil {
			rec.PotentialSavingsMicros = &micros
		}
	}

	return core.InTx(ctx, g.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		superseded, err := txRepo.SupersedePending(ctx, c.ID)
		if err != nil {
			return err
		}

		if err := txRepo.Create(ctx, rec); err != nil {
			return err
		}

		details := fmt.Sprintf(
			"generated %s recommendation %q (confidence %d)",
			rec.Type, rec.Title, rec.Confidence,
		)
		if superseded > 0 {
			details += fmt.Sprintf(", superseded %d pending", superseded)
		}

		return audit.NewRepository(tx).Append(ctx, &audit.Entry{
			CustomerID:       c.CustomerID,
			CampaignID:       &c.ID,
			RecommendationID: &rec.ID,
			Action:           audit.ActionRecommendationGenerated,
			PerformedBy:      audit.PerformerAI,
			PerformerID:      g.provider.ModelID(),
			Details:          details,
		})
	})
}
