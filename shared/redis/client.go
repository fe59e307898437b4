// shared/redis/client.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a single-node client for one address and a cluster client
// for several, both behind redis.UniversalClient.
func NewRedisClient(addrs []string, password string, log *logger.Logger) (redis.UniversalClient, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no Redis addresses provided")
	}
	if log == nil {
		log = logger.Default()
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        addrs,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  6 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %v: %w", addrs, err)
	}
	log.Info("Successfully connected to Redis at %v.", addrs)
	return rdb, nil
}
