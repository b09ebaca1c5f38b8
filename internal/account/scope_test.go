// AngelaMos | 2026
// scope_test.go

package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/adpilot/internal/core"
)

type stubSettings struct {
	master []string
	view   []string
	err    error
}

func (s *stubSettings) AccountSelection(
	_ context.Context,
	_ string,
) ([]string, []string, error) {
	return s.master, s.view, s.err
}

type stubAccounts struct {
	ids []string
	err error
}

func (s *stubAccounts) ActiveCustomerIDs(_ context.Context) ([]string, error) {
	return s.ids, s.err
}

func TestResolveExplicitListWins(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{master: []string{"1111111111"}, view: []string{"2222222222"}},
		&stubAccounts{},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "admin"},
		[]string{"3333333333", "4444444444"},
	)
	require.NoError(t, err)

	assert.True(t, scope.Filtered)
	assert.Equal(t, []string{"3333333333", "4444444444"}, scope.CustomerIDs)
}

func TestResolveSubAccountSubsetAllowed(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{master: []string{"1111111111", "2222222222"}},
		&stubAccounts{},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "sub_account"},
		[]string{"2222222222"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"2222222222"}, scope.CustomerIDs)
}

func TestResolveSubAccountSupersetDenied(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{master: []string{"1111111111", "2222222222"}},
		&stubAccounts{},
	)

	_, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "sub_account"},
		[]string{"1111111111", "2222222222", "3333333333"},
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrForbidden))
}

func TestResolveSubAccountEmptyMasterDenied(t *testing.T) {
	resolver := NewResolver(&stubSettings{}, &stubAccounts{})

	_, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "sub_account"},
		[]string{"1111111111"},
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrForbidden))
}

func TestResolveViewFilterBeforeMaster(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{
			master: []string{"1111111111", "2222222222"},
			view:   []string{"1111111111"},
		},
		&stubAccounts{},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "sub_account"},
		nil,
	)
	require.NoError(t, err)

	assert.True(t, scope.Filtered)
	assert.Equal(t, []string{"1111111111"}, scope.CustomerIDs)
}

func TestResolveMasterWhenNoView(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{master: []string{"1111111111", "2222222222"}},
		&stubAccounts{},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "admin"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"1111111111", "2222222222"}, scope.CustomerIDs)
}

func TestResolveEmptySelectionsFallBackToAllAccounts(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{},
		&stubAccounts{ids: []string{"1111111111", "2222222222", "3333333333"}},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "sub_account"},
		nil,
	)
	require.NoError(t, err)

	assert.False(t, scope.Filtered)
	assert.Len(t, scope.CustomerIDs, 3)
	assert.True(t, scope.Contains("9999999999"))
}

func TestResolveDeduplicatesExplicitList(t *testing.T) {
	resolver := NewResolver(
		&stubSettings{master: []string{"1111111111"}},
		&stubAccounts{},
	)

	scope, err := resolver.Resolve(
		context.Background(),
		Principal{UserID: "u1", Role: "admin"},
		[]string{"1111111111", "1111111111"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"1111111111"}, scope.CustomerIDs)
}

func TestScopeContains(t *testing.T) {
	filtered := Scope{CustomerIDs: []string{"1111111111"}, Filtered: true}
	assert.True(t, filtered.Contains("1111111111"))
	assert.False(t, filtered.Contains("2222222222"))

	unfiltered := Scope{Filtered: false}
	assert.True(t, unfiltered.Contains("2222222222"))
}
