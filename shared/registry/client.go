package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/redis/go-redis/v9"
)

// RegistryClient reads the service registry so instances can discover their peers.
type RegistryClient struct {
	redisClient    redis.UniversalClient
	serviceTimeout time.Duration
	log            *logger.Logger
}

func NewRegistryClient(redisClient redis.UniversalClient, serviceTimeout time.Duration, log *logger.Logger) *RegistryClient {
	if log == nil {
		log = logger.Default()
	}
	return &RegistryClient{
		redisClient:    redisClient,
		serviceTimeout: serviceTimeout,
		log:            log,
	}
}

// GetActiveServices returns the instances of serviceType, keyed by instance ID,
// whose last heartbeat is within the service timeout.
func (rc *RegistryClient) GetActiveServices(ctx context.Context, serviceType string) (map[string]ServiceInfo, error) {
	results, err := rc.redisClient.HGetAll(ctx, hashKey(serviceType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get all services of type %s from Redis: %w", serviceType, err)
	}

	now := time.Now()
	active := make(map[string]ServiceInfo)
	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			rc.log.Warn("RegistryClient: Failed to unmarshal ServiceInfo for ID %s (type %s): %v", instanceID, serviceType, err)
			continue
		}
		if info.Alive(now, rc.serviceTimeout) {
			active[instanceID] = info
		}
	}
	return active, nil
}
