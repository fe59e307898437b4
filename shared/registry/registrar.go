package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/config"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ServiceRegistrar heartbeats one service instance into the Redis registry.
type ServiceRegistrar struct {
	redisClient redis.UniversalClient
	serviceType string
	cfg         *config.CommonConfig
	serviceID   string
	version     string
	log         *logger.Logger
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewServiceRegistrar(redisClient redis.UniversalClient, serviceType, version string, cfg *config.CommonConfig, log *logger.Logger) *ServiceRegistrar {
	if log == nil {
		log = logger.Default()
	}
	return &ServiceRegistrar{
		redisClient: redisClient,
		serviceType: serviceType,
		cfg:         cfg,
		serviceID:   fmt.Sprintf("%s-%s", serviceType, uuid.New().String()),
		version:     version,
		log:         log,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start begins registration and heartbeating in a goroutine.
func (sr *ServiceRegistrar) Start() {
	sr.log.Info("Starting service registrar for %s (ID: %s) at %s:%d",
		sr.serviceType, sr.serviceID, sr.cfg.ServiceIP, sr.cfg.ServicePort)
	go sr.run()
}

// Stop halts heartbeating and removes this instance from the registry.
func (sr *ServiceRegistrar) Stop() {
	close(sr.stopChan)
	<-sr.doneChan

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sr.redisClient.HDel(ctx, hashKey(sr.serviceType), sr.serviceID).Err(); err != nil {
		sr.log.Error("Failed to remove service %s (ID: %s) from Redis registry on shutdown: %v", sr.serviceType, sr.serviceID, err)
		return
	}
	sr.log.Info("Service %s (ID: %s) removed from Redis registry on shutdown.", sr.serviceType, sr.serviceID)
}

func (sr *ServiceRegistrar) run() {
	defer close(sr.doneChan)

	ticker := time.NewTicker(sr.cfg.HeartbeatInterval)
	defer ticker.Stop()

	sr.heartbeat()

	var cleanup <-chan time.Time
	if sr.cfg.RegistryCleanupInterval > 0 {
		t := time.NewTicker(sr.cfg.RegistryCleanupInterval)
		defer t.Stop()
		cleanup = t.C
	}

	for {
		select {
		case <-ticker.C:
			sr.heartbeat()
		case <-cleanup:
			sr.performCleanup()
		case <-sr.stopChan:
			return
		}
	}
}

func (sr *ServiceRegistrar) heartbeat() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	info := ServiceInfo{
		ServiceID:   sr.serviceID,
		ServiceType: sr.serviceType,
		IP:          sr.cfg.ServiceIP,
		Port:        sr.cfg.ServicePort,
		LastSeen:    time.Now().UnixMilli(),
		Metadata:    map[string]string{"version": sr.version, "env": sr.cfg.Env},
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		sr.log.Error("Failed to marshal ServiceInfo for %s (ID: %s): %v", sr.serviceType, sr.serviceID, err)
		return
	}

	if err := sr.redisClient.HSet(ctx, hashKey(sr.serviceType), sr.serviceID, infoJSON).Err(); err != nil {
		sr.log.Error("Failed to heartbeat service %s (ID: %s) to Redis: %v", sr.serviceType, sr.serviceID, err)
		return
	}
	sr.log.Debug("Service %s (ID: %s) heartbeated.", sr.serviceType, sr.serviceID)
}

// performCleanup removes entries that are corrupt or past the heartbeat TTL.
func (sr *ServiceRegistrar) performCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := hashKey(sr.serviceType)
	results, err := sr.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		sr.log.Error("Cleanup failed to get all services for type %s: %v", sr.serviceType, err)
		return
	}

	now := time.Now()
	var stale []string
	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			sr.log.Warn("Cleanup: corrupt ServiceInfo for ID %s (type %s): %v. Deleting.", instanceID, sr.serviceType, err)
			stale = append(stale, instanceID)
			continue
		}
		if !info.Alive(now, sr.cfg.HeartbeatTTL) {
			stale = append(stale, instanceID)
		}
	}
	if len(stale) == 0 {
		return
	}
	if err := sr.redisClient.HDel(ctx, key, stale...).Err(); err != nil {
		sr.log.Error("Cleanup: failed to delete stale services %v for type %s: %v", stale, sr.serviceType, err)
		return
	}
	sr.log.Info("Cleanup: removed %d stale %s instance(s) from registry.", len(stale), sr.serviceType)
}

func (sr *ServiceRegistrar) GetServiceID() string {
	return sr.serviceID
}

func (sr *ServiceRegistrar) GetServiceType() string {
	return sr.serviceType
}
