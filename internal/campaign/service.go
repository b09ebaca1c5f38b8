// AngelaMos | 2026
// service.go

package campaign

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/core"
)

// RecommendationCounter supplies the pending-recommendation breakdown for
// the dashboard summary. Implemented by the recommendation repository.
type RecommendationCounter interface {
	CountPendingByType(
		ctx context.Context,
		customerIDs []string,
	) (map[string]int, error)
}

type Service struct {
	db       *sqlx.DB
	repo     Repository
	counter  RecommendationCounter
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	counter RecommendationCounter,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		counter:  counter,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *Service) List(
	ctx context.Context,
	scope account.Scope,
) ([]Campaign, error) {
	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}
	return s.repo.ListByScope(ctx, ids)
}

func (s *Service) Get(ctx context.Context, id string) (*Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// Summary aggregates the scoped campaign set for [from, to). Results are
// cached briefly in redis; slightly stale reads are acceptable here.
func (s *Service) Summary(
	ctx context.Context,
	scope account.Scope,
	from, to time.Time,
) (Summary, error) {
	key := s.summaryCacheKey(ctx, scope, from, to)

	if cached, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return summary, nil
		}
	}

	campaigns, err := s.List(ctx, scope)
	if err != nil {
		return Summary{}, err
	}

	summary := Aggregate(campaigns, from, to)

	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}

	counts, err := s.counter.CountPendingByType(ctx, ids)
	if err != nil {
		return Summary{}, fmt.Errorf("summary recommendation counts: %w", err)
	}
	summary.RecommendationCounts = counts

	if data, err := json.Marshal(summary); err == nil {
		if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("cache summary", "error", err)
		}
	}

	return summary, nil
}

// Sync ingests a wholesale campaign snapshot for one account in a single
// transaction. The owning account must still be connected.
func (s *Service) Sync(
	ctx context.Context,
	ownerID string,
	req SyncCampaignsRequest,
) (int, error) {
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		for _, input := range req.Campaigns {
			c := &Campaign{
				ID:                    uuid.NewString(),
				UserID:                ownerID,
				CustomerID:            req.CustomerID,
				ExternalID:            input.ExternalID,
				Name:                  input.Name,
				Type:                  input.Type,
				Status:                input.Status,
				DailyBudgetMicros:     input.DailyBudgetMicros,
				TargetCpaMicros:       input.TargetCpaMicros,
				TargetRoasBps:         input.TargetRoasBps,
				SpendMicros:           input.SpendMicros,
				ConversionsMilli:      input.ConversionsMilli,
				ConversionValueMicros: input.ConversionValueMicros,
				Impressions:           input.Impressions,
				Clicks:                input.Clicks,
				CtrBps:                input.CtrBps,
				AvgCpcMicros:          input.AvgCpcMicros,
				ConversionRateBps:     input.ConversionRateBps,
			}

			if err := txRepo.UpsertSync(ctx, c); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sync campaigns: %w", err)
	}

	if err := s.InvalidateSummaries(ctx); err != nil {
		s.logger.Warn("invalidate summary cache", "error", err)
	}

	s.logger.Info("campaigns synced",
		"customer_id", req.CustomerID,
		"count", len(req.Campaigns),
	)

	return len(req.Campaigns), nil
}

const summaryVersionKey = "adpilot:summary:ver"

// InvalidateSummaries bumps the version embedded in every summary cache key,
// orphaning cached entries until their TTL expires.
func (s *Service) InvalidateSummaries(ctx context.Context) error {
	return s.redis.Incr(ctx, summaryVersionKey).Err()
}

func (s *Service) summaryCacheKey(
	ctx context.Context,
	scope account.Scope,
	from, to time.Time,
) string {
	version, err := s.redis.Get(ctx, summaryVersionKey).Result()
	if err != nil {
		version = "0"
	}

	ids := append([]string(nil), scope.CustomerIDs...)
	sort.Strings(ids)

	h := sha256.Sum256([]byte(fmt.Sprintf(
		"%s|%t|%s|%d|%d",
		version,
		scope.Filtered,
		strings.Join(ids, ","),
		from.Unix(),
		to.Unix(),
	)))

	return "adpilot:summary:" + hex.EncodeToString(h[:8])
}

// Purger cascades campaign deletion when an ads account is disconnected.
type Purger struct{}

func (Purger) DeleteByAccount(
	ctx context.Context,
	tx *sqlx.Tx,
	customerID string,
) error {
	return NewRepository(tx).DeleteByCustomerID(ctx, customerID)
}
