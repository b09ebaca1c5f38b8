// AngelaMos | 2026
// applier_test.go

package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/adpilot/internal/campaign"
	"github.com/carterperez-dev/adpilot/internal/core"
)

var recommendationCols = []string{
	"id", "campaign_id", "customer_id", "type", "priority", "confidence",
	"status", "title", "description", "reasoning", "model_id",
	"potential_savings_micros", "action_data", "applied_at", "resolved_by",
	"created_at", "updated_at",
}

var campaignCols = []string{
	"id", "user_id", "customer_id", "external_id", "name", "type", "status",
	"daily_budget_micros", "target_cpa_micros", "target_roas_bps",
	"spend_micros", "conversions_milli", "conversion_value_micros",
	"impressions", "clicks", "ctr_bps", "avg_cpc_micros",
	"conversion_rate_bps", "burn_in_until", "synced_at", "created_at",
	"updated_at",
}

func newTestApplier(t *testing.T) (*Applier, sqlmock.Sqlmock) {
	t.Helper()

	rawDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	db := sqlx.NewDb(rawDB, "pgx")

	applier := NewApplier(
		db,
		NewRepository(db),
		campaign.NewGuard(7*24*time.Hour),
		slog.Default(),
	)

	return applier, mock
}

func recommendationRow(status, recType string, actionData []byte) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(recommendationCols).AddRow(
		"r1", "c1", "1111111111", recType, PriorityHigh, 90, status,
		"Lower daily budget", "Budget exceeds returns", "CPA trending up",
		"test-model", nil, actionData, nil, nil, now, now,
	)
}

func campaignRow(burnInUntil any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(campaignCols).AddRow(
		"c1", "u1", "1111111111", "ext-1", "Brand Search", "search",
		"enabled", 50_000_000, 0, 0, 100_000_000, 5_000, 200_000_000,
		10_000, 500, 500, 200_000, 1_000, burnInUntil, now, now, now,
	)
}

func TestApplyActionableRecommendation(t *testing.T) {
	applier, mock := newTestApplier(t)

	actionData := []byte(`{"field":"daily_budget","new_value":"30.00"}`)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeActionable, actionData))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM campaigns WHERE id").
		WillReturnRows(campaignRow(nil))
	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE recommendations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	rec, err := applier.Apply(context.Background(), "r1", "admin-user")
	require.NoError(t, err)

	assert.Equal(t, StatusApplied, rec.Status)
	require.NotNil(t, rec.AppliedAt)
	require.NotNil(t, rec.ResolvedBy)
	assert.Equal(t, "admin-user", *rec.ResolvedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyCoolingCampaignFailsWithInvalidState(t *testing.T) {
	applier, mock := newTestApplier(t)

	actionData := []byte(`{"field":"daily_budget","new_value":"30.00"}`)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeActionable, actionData))

	// The campaign entered its burn-in window after this recommendation
	// was generated; the mutation must not go through.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM campaigns WHERE id").
		WillReturnRows(campaignRow(time.Now().Add(72 * time.Hour)))
	mock.ExpectRollback()

	_, err := applier.Apply(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyAlreadyAppliedFailsWithInvalidState(t *testing.T) {
	applier, mock := newTestApplier(t)

	actionData := []byte(`{"field":"daily_budget","new_value":"30.00"}`)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusApplied, TypeActionable, actionData))

	_, err := applier.Apply(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyClarificationFailsWithInvalidState(t *testing.T) {
	applier, mock := newTestApplier(t)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeClarification, nil))

	_, err := applier.Apply(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUnknownRecommendation(t *testing.T) {
	applier, mock := newTestApplier(t)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(sqlmock.NewRows(recommendationCols))

	_, err := applier.Apply(context.Background(), "missing", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestApplyRollsBackWhenAuditInsertFails(t *testing.T) {
	applier, mock := newTestApplier(t)

	actionData := []byte(`{"field":"daily_budget","new_value":"30.00"}`)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeActionable, actionData))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM campaigns WHERE id").
		WillReturnRows(campaignRow(nil))
	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE recommendations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnError(errors.New("audit insert failed"))
	mock.ExpectRollback()

	_, err := applier.Apply(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyConcurrentLoserRollsBack(t *testing.T) {
	applier, mock := newTestApplier(t)

	actionData := []byte(`{"field":"daily_budget","new_value":"30.00"}`)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeActionable, actionData))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM campaigns WHERE id").
		WillReturnRows(campaignRow(nil))
	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Another transaction already moved the row out of pending.
	mock.ExpectExec("UPDATE recommendations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := applier.Apply(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDismissPendingRecommendation(t *testing.T) {
	applier, mock := newTestApplier(t)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusPending, TypeClarification, nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE recommendations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	rec, err := applier.Dismiss(context.Background(), "r1", "admin-user")
	require.NoError(t, err)

	assert.Equal(t, StatusDismissed, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDismissAlreadyDismissedFailsWithInvalidState(t *testing.T) {
	applier, mock := newTestApplier(t)

	mock.ExpectQuery("FROM recommendations WHERE id").
		WillReturnRows(recommendationRow(StatusDismissed, TypeMonitor, nil))

	_, err := applier.Dismiss(context.Background(), "r1", "admin-user")

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}
