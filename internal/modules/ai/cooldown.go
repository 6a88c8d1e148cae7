package ai

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	redisc "github.com/researchhub/core/internal/pkg/redis"
)

const cooldownKeyPrefix = "rh:ai:cooldown"

// Cooldown tracks per-user, per-backend hold-off windows. With Redis
// available the window survives restarts and is shared across replicas;
// without it (dev mode) an in-process map carries the same semantics.
type Cooldown struct {
	rc *redisc.Client

	mu  sync.Mutex
	mem map[string]time.Time
}

func NewCooldown(rc *redisc.Client) *Cooldown {
	return &Cooldown{rc: rc, mem: make(map[string]time.Time)}
}

func cooldownKey(backendID, userID string) string {
	return fmt.Sprintf("%s:%s:%s", cooldownKeyPrefix, backendID, userID)
}

// Start opens a hold-off window of the given length.
func (c *Cooldown) Start(ctx context.Context, backendID, userID string, seconds int) {
	if seconds <= 0 {
		return
	}
	if c.rc != nil {
		_ = c.rc.Set(ctx, cooldownKey(backendID, userID), "1", time.Duration(seconds)*time.Second)
		return
	}
	c.mu.Lock()
	c.mem[cooldownKey(backendID, userID)] = time.Now().Add(time.Duration(seconds) * time.Second)
	c.mu.Unlock()
}

// Remaining returns the whole seconds left in the current window, zero
// when the user may call the backend now.
func (c *Cooldown) Remaining(ctx context.Context, backendID, userID string) int {
	if c.rc != nil {
		ttl, err := c.rc.TTL(ctx, cooldownKey(backendID, userID))
		if err != nil || ttl <= 0 {
			return 0
		}
		return int(math.Ceil(ttl.Seconds()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.mem[cooldownKey(backendID, userID)]
	if !ok {
		return 0
	}
	left := time.Until(until)
	if left <= 0 {
		delete(c.mem, cooldownKey(backendID, userID))
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
