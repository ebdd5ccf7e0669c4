package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents the current status of external services. Redis
// is nil when the session cache is disabled.
type HealthStatus struct {
	Redis     *bool     `json:"redis,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth   HealthStatus
	currentHealthMu sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	currentHealthMu.RLock()
	defer currentHealthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates the
// in-memory snapshot. Pass a nil client when the session cache is off.
func StartHealthMonitor(redisClient *redis.Client) {
	check := func(ctx context.Context) {
		status := HealthStatus{CheckedAt: time.Now()}
		if redisClient != nil {
			ok := redisClient.Ping(ctx).Err() == nil
			status.Redis = &ok
		}
		currentHealthMu.Lock()
		currentHealth = status
		currentHealthMu.Unlock()
	}

	check(context.Background())

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()
		for range ticker.C {
			check(ctx)
		}
	}()
}
