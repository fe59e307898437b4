// worker/syncer/scoreboard_syncer.go
package syncer

import (
	"context"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

// ScoreboardTaskKey is the consistent-hash key for the rank sync job.
const ScoreboardTaskKey = "scoreboard-sync"

// ScoreboardFetcher builds the scoreboard. The hunt-api stores rank changes and
// notifies teams as a side effect.
type ScoreboardFetcher interface {
	GetScoreboard(ctx context.Context) (*models.Scoreboard, error)
}

// Assigner reports whether this instance owns a task key.
type Assigner interface {
	IsResponsible(key string) (bool, error)
}

// ScoreboardSyncer periodically asks the hunt-api for the scoreboard so rank
// changes are noticed even when nobody is looking at it. Only the instance the
// assignment ring picks for ScoreboardTaskKey does the work.
type ScoreboardSyncer struct {
	client   ScoreboardFetcher
	assigner Assigner
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScoreboardSyncer(client ScoreboardFetcher, assigner Assigner, interval time.Duration, log *logger.Logger) *ScoreboardSyncer {
	if log == nil {
		log = logger.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ScoreboardSyncer{
		client:   client,
		assigner: assigner,
		interval: interval,
		timeout:  30 * time.Second,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the sync loop in a goroutine until Stop is called.
func (s *ScoreboardSyncer) Start() {
	s.log.Info("Scoreboard syncer starting with interval %v", s.interval)
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.log.Info("Scoreboard syncer shutting down.")
				return
			case <-ticker.C:
				if _, err := s.SyncOnce(s.ctx); err != nil {
					s.log.Error("Scoreboard sync failed: %v", err)
				}
			}
		}
	}()
}

func (s *ScoreboardSyncer) Stop() {
	s.cancel()
	<-s.done
}

// SyncOnce fetches the scoreboard if this instance owns the task. It reports
// whether a sync was performed.
func (s *ScoreboardSyncer) SyncOnce(ctx context.Context) (bool, error) {
	leader, err := s.assigner.IsResponsible(ScoreboardTaskKey)
	if err != nil {
		return false, err
	}
	if !leader {
		s.log.Debug("Not responsible for %s; skipping.", ScoreboardTaskKey)
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	board, err := s.client.GetScoreboard(ctx)
	if err != nil {
		return false, err
	}
	s.log.Debug("Scoreboard synced: %d teams ranked.", len(board.Teams))
	return true, nil
}
