// AngelaMos | 2026
// scope.go

package account

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// Principal identifies the caller for scope resolution.
type Principal struct {
	UserID string
	Role   string
}

// Scope is the resolved set of customer ids a request's campaign and
// metric queries are filtered to. An empty CustomerIDs with Filtered=false
// means "no filter" (all accounts visible to the role).
type Scope struct {
	CustomerIDs []string
	Filtered    bool
}

func (s Scope) Contains(customerID string) bool {
	if !s.Filtered {
		return true
	}
	for _, id := range s.CustomerIDs {
		if id == customerID {
			return true
		}
	}
	return false
}

// SettingsSource provides the two account-selection layers stored in
// user settings: the admin-curated master list and the per-user view
// filter. Implemented by the settings service.
type SettingsSource interface {
	AccountSelection(ctx context.Context, userID string) (master, view []string, err error)
}

// AccountSource lists every connected, active customer id.
type AccountSource interface {
	ActiveCustomerIDs(ctx context.Context) ([]string, error)
}

// Resolver computes the effective account scope for a caller. Resolution
// precedence: explicit request list, then view filter, then master
// selection, then all active accounts (no filter). Sub-accounts may only
// request a subset of the master selection.
type Resolver struct {
	settings SettingsSource
	accounts AccountSource
}

func NewResolver(settings SettingsSource, accounts AccountSource) *Resolver {
	return &Resolver{settings: settings, accounts: accounts}
}

func (r *Resolver) Resolve(
	ctx context.Context,
	principal Principal,
	requested []string,
) (Scope, error) {
	master, view, err := r.settings.AccountSelection(ctx, principal.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("resolve scope: %w", err)
	}

	if len(requested) > 0 {
		if principal.Role != "admin" && !subset(requested, master) {
			return Scope{}, fmt.Errorf(
				"resolve scope: requested accounts outside permitted selection: %w",
				core.ErrForbidden,
			)
		}
		return Scope{CustomerIDs: dedupe(requested), Filtered: true}, nil
	}

	if len(view) > 0 {
		return Scope{CustomerIDs: dedupe(view), Filtered: true}, nil
	}

	if len(master) > 0 {
		return Scope{CustomerIDs: dedupe(master), Filtered: true}, nil
	}

	all, err := r.accounts.ActiveCustomerIDs(ctx)
	if err != nil {
		return Scope{}, fmt.Errorf("resolve scope: %w", err)
	}

	return Scope{CustomerIDs: all, Filtered: false}, nil
}

func subset(requested, allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	permitted := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		permitted[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := permitted[id]; !ok {
			return false
		}
	}
	return true
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
