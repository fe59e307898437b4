// shared/cluster/assignment_manager.go
package cluster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/registry"
	"github.com/stathat/consistent"
)

// ServiceLister is the part of the registry client the manager needs.
type ServiceLister interface {
	GetActiveServices(ctx context.Context, serviceType string) (map[string]registry.ServiceInfo, error)
}

// Self identifies the running instance.
type Self interface {
	GetServiceID() string
	GetServiceType() string
}

// ServiceAssignmentManager decides, via consistent hashing over the live instances
// of a service type, whether this instance owns a given key (e.g. a periodic job).
type ServiceAssignmentManager struct {
	registryClient ServiceLister
	self           Self
	updateInterval time.Duration
	log            *logger.Logger

	chMux          sync.RWMutex
	consistentHash *consistent.Consistent

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServiceAssignmentManager(registryClient ServiceLister, self Self, updateInterval time.Duration, log *logger.Logger) *ServiceAssignmentManager {
	if log == nil {
		log = logger.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	sam := &ServiceAssignmentManager{
		registryClient: registryClient,
		self:           self,
		updateInterval: updateInterval,
		log:            log,
		consistentHash: consistent.New(),
		ctx:            ctx,
		cancel:         cancel,
	}
	// Own everything until the first ring refresh says otherwise.
	sam.consistentHash.Add(self.GetServiceID())

	log.Info("ServiceAssignmentManager initialized for '%s' (ID: %s), update interval %v",
		self.GetServiceType(), self.GetServiceID(), updateInterval)
	return sam
}

// Start refreshes the ring until Stop is called. Run it in a goroutine.
func (sam *ServiceAssignmentManager) Start() {
	ticker := time.NewTicker(sam.updateInterval)
	defer ticker.Stop()

	sam.Refresh()
	for {
		select {
		case <-sam.ctx.Done():
			sam.log.Info("ServiceAssignmentManager: ring updater for '%s' stopped.", sam.self.GetServiceType())
			return
		case <-ticker.C:
			sam.Refresh()
		}
	}
}

func (sam *ServiceAssignmentManager) Stop() {
	sam.cancel()
}

// Refresh rebuilds the ring when the set of live instances changed.
func (sam *ServiceAssignmentManager) Refresh() {
	active, err := sam.registryClient.GetActiveServices(sam.ctx, sam.self.GetServiceType())
	if err != nil {
		sam.log.Error("ServiceAssignmentManager: failed to list active '%s' services: %v", sam.self.GetServiceType(), err)
		return
	}

	members := make([]string, 0, len(active))
	for id := range active {
		members = append(members, id)
	}
	if len(members) == 0 {
		// Our own heartbeat may not have landed yet.
		members = append(members, sam.self.GetServiceID())
	}
	slices.Sort(members)

	sam.chMux.Lock()
	defer sam.chMux.Unlock()

	current := sam.consistentHash.Members()
	slices.Sort(current)
	if slices.Equal(members, current) {
		return
	}

	ring := consistent.New()
	ring.Set(members)
	sam.consistentHash = ring
	sam.log.Info("ServiceAssignmentManager: ring for '%s' updated, members: %v", sam.self.GetServiceType(), members)
}

// IsResponsible reports whether this instance owns key.
func (sam *ServiceAssignmentManager) IsResponsible(key string) (bool, error) {
	sam.chMux.RLock()
	defer sam.chMux.RUnlock()

	owner, err := sam.consistentHash.Get(key)
	if err != nil {
		return false, fmt.Errorf("failed to get responsible instance for '%s' (type %s): %w", key, sam.self.GetServiceType(), err)
	}
	return owner == sam.self.GetServiceID(), nil
}
