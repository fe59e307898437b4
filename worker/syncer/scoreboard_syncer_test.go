package syncer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeFetcher) GetScoreboard(context.Context) (*models.Scoreboard, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Scoreboard{Teams: []models.TeamScoreEntry{{Rank: 1}}}, nil
}

type fakeAssigner struct {
	owns bool
	err  error
}

func (a fakeAssigner) IsResponsible(key string) (bool, error) {
	return a.owns && key == ScoreboardTaskKey, a.err
}

func TestSyncOnce(t *testing.T) {
	tests := []struct {
		name      string
		assigner  fakeAssigner
		fetchErr  error
		wantSync  bool
		wantErr   bool
		wantCalls int32
	}{
		{"owner syncs", fakeAssigner{owns: true}, nil, true, false, 1},
		{"non-owner skips", fakeAssigner{owns: false}, nil, false, false, 0},
		{"ring error", fakeAssigner{err: errors.New("ring empty")}, nil, false, true, 0},
		{"fetch error", fakeAssigner{owns: true}, errors.New("boom"), false, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{err: tt.fetchErr}
			s := NewScoreboardSyncer(f, tt.assigner, time.Minute, logger.Discard())

			synced, err := s.SyncOnce(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantSync, synced)
			assert.Equal(t, tt.wantCalls, f.calls.Load())
		})
	}
}

func TestStartStop(t *testing.T) {
	f := &fakeFetcher{}
	s := NewScoreboardSyncer(f, fakeAssigner{owns: true}, 10*time.Millisecond, logger.Discard())
	s.Start()

	assert.Eventually(t, func() bool { return f.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := f.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, f.calls.Load())
}
