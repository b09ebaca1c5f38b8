// AngelaMos | 2026
// burnin.go

package campaign

import (
	"time"
)

// Guard gates automated re-evaluation of a campaign after a mutating
// action. A campaign is Cooling while burn_in_until lies in the future
// and Evaluable otherwise; the transition back is purely time passing.
type Guard struct {
	window time.Duration
	now    func() time.Time
}

func NewGuard(window time.Duration) *Guard {
	return &Guard{window: window, now: time.Now}
}

// NewGuardAt pins the clock, for tests.
func NewGuardAt(window time.Duration, now func() time.Time) *Guard {
	return &Guard{window: window, now: now}
}

func (g *Guard) Window() time.Duration {
	return g.window
}

// IsEligible reports whether the campaign may receive a new automated
// evaluation or a campaign-mutating action.
func (g *Guard) IsEligible(c *Campaign) bool {
	if c.BurnInUntil == nil {
		return true
	}
	return !c.BurnInUntil.After(g.now())
}

// Deadline returns the burn_in_until value a cooldown beginning now
// should persist.
func (g *Guard) Deadline() time.Time {
	return g.now().Add(g.window)
}
