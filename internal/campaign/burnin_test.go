// AngelaMos | 2026
// burnin_test.go

package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuardEligibleWithoutBurnIn(t *testing.T) {
	guard := NewGuard(7 * 24 * time.Hour)

	assert.True(t, guard.IsEligible(&Campaign{}))
}

func TestGuardCoolingUntilDeadlinePasses(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	guard := NewGuardAt(7*24*time.Hour, func() time.Time { return clock })

	deadline := guard.Deadline()
	assert.Equal(t, now.Add(7*24*time.Hour), deadline)

	campaign := &Campaign{BurnInUntil: &deadline}

	assert.False(t, guard.IsEligible(campaign))

	clock = deadline.Add(-time.Minute)
	assert.False(t, guard.IsEligible(campaign))

	// Eligibility flips purely by time passing.
	clock = deadline
	assert.True(t, guard.IsEligible(campaign))

	clock = deadline.Add(time.Hour)
	assert.True(t, guard.IsEligible(campaign))
}

func TestGuardExpiredBurnInIsEligible(t *testing.T) {
	guard := NewGuard(7 * 24 * time.Hour)

	past := time.Now().Add(-time.Hour)
	assert.True(t, guard.IsEligible(&Campaign{BurnInUntil: &past}))
}
