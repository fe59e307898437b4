package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceInfoAlive(t *testing.T) {
	// heartbeats are stored in whole milliseconds
	now := time.UnixMilli(time.Now().UnixMilli())
	tests := []struct {
		name     string
		lastSeen time.Time
		want     bool
	}{
		{name: "fresh", lastSeen: now.Add(-2 * time.Second), want: true},
		{name: "at ttl", lastSeen: now.Add(-15 * time.Second), want: true},
		{name: "one ms past ttl", lastSeen: now.Add(-15*time.Second - time.Millisecond), want: false},
		{name: "stale", lastSeen: now.Add(-16 * time.Second), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ServiceInfo{LastSeen: tt.lastSeen.UnixMilli()}
			assert.Equal(t, tt.want, info.Alive(now, 15*time.Second))
		})
	}
}
