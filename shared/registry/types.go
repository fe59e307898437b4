// shared/registry/types.go
package registry

import "time"

// ServiceInfo is the registry entry for one service instance.
type ServiceInfo struct {
	ServiceID   string            `json:"serviceId"`
	ServiceType string            `json:"serviceType"`
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	LastSeen    int64             `json:"last_seen"` // unix millis
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Alive reports whether the last heartbeat happened within ttl of now.
func (s ServiceInfo) Alive(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(s.LastSeen)) <= ttl
}
