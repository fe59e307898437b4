package cluster

import (
	"context"
	"errors"
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	ids []string
	err error
}

func (f *fakeLister) GetActiveServices(_ context.Context, serviceType string) (map[string]registry.ServiceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]registry.ServiceInfo{}
	for _, id := range f.ids {
		out[id] = registry.ServiceInfo{ServiceID: id, ServiceType: serviceType}
	}
	return out, nil
}

type fakeSelf string

func (f fakeSelf) GetServiceID() string   { return string(f) }
func (f fakeSelf) GetServiceType() string { return registry.ServiceTypeHuntWorker }

func TestSingleInstanceOwnsEverything(t *testing.T) {
	sam := NewServiceAssignmentManager(&fakeLister{}, fakeSelf("w1"), 0, logger.Discard())
	sam.Refresh()

	ok, err := sam.IsResponsible("scoreboard-sync")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExactlyOneInstanceOwnsAKey(t *testing.T) {
	ids := []string{"w1", "w2", "w3"}
	owners := 0
	for _, id := range ids {
		sam := NewServiceAssignmentManager(&fakeLister{ids: ids}, fakeSelf(id), 0, logger.Discard())
		sam.Refresh()
		ok, err := sam.IsResponsible("scoreboard-sync")
		require.NoError(t, err)
		if ok {
			owners++
		}
	}
	assert.Equal(t, 1, owners)
}

func TestRefreshErrorKeepsRing(t *testing.T) {
	lister := &fakeLister{err: errors.New("redis down")}
	sam := NewServiceAssignmentManager(lister, fakeSelf("w1"), 0, logger.Discard())
	sam.Refresh()

	ok, err := sam.IsResponsible("scoreboard-sync")
	require.NoError(t, err)
	assert.True(t, ok)
}
