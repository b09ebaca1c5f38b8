// AngelaMos | 2026
// generator_test.go

package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/ai"
	"github.com/carterperez-dev/adpilot/internal/audit"
	"github.com/carterperez-dev/adpilot/internal/campaign"
	"github.com/carterperez-dev/adpilot/internal/core"
)

type fakeProvider struct {
	mu       sync.Mutex
	verdicts map[string]ai.Verdict
	errs     map[string]error
	calls    int
	lastGoal string
}

func (p *fakeProvider) Evaluate(_ context.Context, req ai.EvalRequest) (ai.Verdict, error) {
	p.mu.Lock()
	p.calls++
	p.lastGoal = req.AccountGoal
	p.mu.Unlock()
	if err, ok := p.errs[req.CampaignID]; ok {
		return ai.Verdict{}, err
	}
	if v, ok := p.verdicts[req.CampaignID]; ok {
		return v, nil
	}
	return ai.Verdict{Type: ai.TypeMonitor, Title: "hold", Confidence: 75}, nil
}

func (p *fakeProvider) ModelID() string { return "test-model" }

type fakeCampaignRepo struct {
	campaigns []campaign.Campaign
}

func (f *fakeCampaignRepo) UpsertSync(context.Context, *campaign.Campaign) error {
	return nil
}

func (f *fakeCampaignRepo) GetByID(context.Context, string) (*campaign.Campaign, error) {
	return nil, core.ErrNotFound
}

func (f *fakeCampaignRepo) ListByScope(context.Context, []string) ([]campaign.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeCampaignRepo) ApplyChanges(context.Context, string, campaign.Changes) error {
	return nil
}

func (f *fakeCampaignRepo) DeleteByCustomerID(context.Context, string) error {
	return nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Append(context.Context, *audit.Entry) error { return nil }

func (fakeAuditRepo) ListByCampaign(context.Context, string, int) ([]audit.Entry, error) {
	return nil, nil
}

func (fakeAuditRepo) List(context.Context, []string, int, int) ([]audit.Entry, int, error) {
	return nil, 0, nil
}

func (fakeAuditRepo) RecentActionDetails(context.Context, string, int) ([]string, error) {
	return nil, nil
}

func (fakeAuditRepo) DeleteByCustomerID(context.Context, string) error { return nil }

type openSettings struct{}

func (openSettings) AccountSelection(context.Context, string) ([]string, []string, error) {
	return nil, nil, nil
}

func (openSettings) OptimizationGoal(context.Context, string) (string, error) {
	return "maximize lead volume under a $40 CPA", nil
}

type openAccounts struct{}

func (openAccounts) ActiveCustomerIDs(context.Context) ([]string, error) {
	return []string{"1111111111"}, nil
}

func testCampaign(id string, burnInUntil *time.Time) campaign.Campaign {
	return campaign.Campaign{
		ID:          id,
		CustomerID:  "1111111111",
		Name:        "Campaign " + id,
		Type:        campaign.TypeSearch,
		Status:      campaign.StatusEnabled,
		SpendMicros: 100_000_000,
		BurnInUntil: burnInUntil,
		SyncedAt:    time.Now(),
	}
}

func newTestGenerator(
	t *testing.T,
	provider ai.Provider,
	campaigns []campaign.Campaign,
) (*Generator, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	rawDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	db := sqlx.NewDb(rawDB, "pgx")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	gen := NewGenerator(
		db,
		NewRepository(db),
		&fakeCampaignRepo{campaigns: campaigns},
		fakeAuditRepo{},
		provider,
		campaign.NewGuard(7*24*time.Hour),
		account.NewResolver(openSettings{}, openAccounts{}),
		openSettings{},
		nil,
		client,
		GeneratorConfig{
			MaxParallel: 2,
			CallTimeout: time.Second,
			RunLockTTL:  time.Minute,
		},
		slog.Default(),
	)

	return gen, mock, mr
}

func expectPersist(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE recommendations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO recommendations").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(now, now))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
}

func TestRunWholesaleOutageFailsRun(t *testing.T) {
	provider := &fakeProvider{
		errs: map[string]error{
			"c1": fmt.Errorf("connect: %w", ai.ErrUnavailable),
			"c2": fmt.Errorf("connect: %w", ai.ErrUnavailable),
		},
	}

	gen, mock, _ := newTestGenerator(t, provider, []campaign.Campaign{
		testCampaign("c1", nil),
		testCampaign("c2", nil),
	})

	_, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrProviderUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunPartialFailure(t *testing.T) {
	provider := &fakeProvider{
		verdicts: map[string]ai.Verdict{
			"c1": {Type: ai.TypeMonitor, Title: "hold", Confidence: 80},
			"c2": {
				Type:       ai.TypeActionable,
				Title:      "lower budget",
				Confidence: 90,
				ActionData: json.RawMessage(`{"field":"daily_budget","new_value":"30.00"}`),
			},
		},
		errs: map[string]error{
			"c3": context.DeadlineExceeded,
		},
	}

	gen, mock, _ := newTestGenerator(t, provider, []campaign.Campaign{
		testCampaign("c1", nil),
		testCampaign("c2", nil),
		testCampaign("c3", nil),
	})

	expectPersist(mock)
	expectPersist(mock)

	summary, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, RunStatusPartialFailure, summary.Status)
	assert.Equal(t, 2, summary.Generated)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "c3", summary.Failed[0].CampaignID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSkipsCoolingCampaigns(t *testing.T) {
	cooling := time.Now().Add(48 * time.Hour)
	provider := &fakeProvider{}

	gen, mock, _ := newTestGenerator(t, provider, []campaign.Campaign{
		testCampaign("c1", &cooling),
		testCampaign("c2", nil),
	})

	expectPersist(mock)

	summary, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, RunStatusOK, summary.Status)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, provider.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunThreadsAccountGoalIntoEvaluation(t *testing.T) {
	provider := &fakeProvider{}

	gen, mock, _ := newTestGenerator(t, provider, []campaign.Campaign{
		testCampaign("c1", nil),
	})

	expectPersist(mock)

	_, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, "maximize lead volume under a $40 CPA", provider.lastGoal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRejectedWhileAnotherRunHoldsLock(t *testing.T) {
	provider := &fakeProvider{}

	gen, _, mr := newTestGenerator(t, provider, []campaign.Campaign{
		testCampaign("c1", nil),
	})

	require.NoError(t, mr.Set(lockKey("u1"), "other-run"))

	_, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.Equal(t, 0, provider.calls)
}

func TestRunEmptyScopeNoCampaigns(t *testing.T) {
	provider := &fakeProvider{}

	gen, mock, _ := newTestGenerator(t, provider, nil)

	summary, err := gen.Run(
		context.Background(),
		account.Principal{UserID: "u1", Role: "admin"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, RunStatusOK, summary.Status)
	assert.Equal(t, 0, summary.Generated)
	assert.Empty(t, summary.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
