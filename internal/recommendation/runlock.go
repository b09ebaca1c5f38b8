// AngelaMos | 2026
// runlock.go

package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/adpilot/internal/core"
)

// releaseScript deletes the lock only if this holder still owns it, so a
// slow run cannot release a lock a later run re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// runLock serializes generation runs per user. A second generate request
// while a run is in flight is rejected rather than queued.
type runLock struct {
	client *redis.Client
	ttl    time.Duration
}

func newRunLock(client *redis.Client, ttl time.Duration) *runLock {
	return &runLock{client: client, ttl: ttl}
}

func (l *runLock) acquire(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := lockKey(userID)

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire run lock: %w", err)
	}

	if !ok {
		return "", core.InvalidStateError("a generation run is already in progress")
	}

	return token, nil
}

func (l *runLock) release(ctx context.Context, userID, token string) {
	// Best effort; the TTL reclaims an unreleased lock.
	_ = releaseScript.Run(ctx, l.client, []string{lockKey(userID)}, token).Err()
}

func lockKey(userID string) string {
	return "adpilot:genrun:" + userID
}
