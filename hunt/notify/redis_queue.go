package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	redisu "github.com/Ftotnem/HUNT-SERVICES/shared/redis"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedisQueue pushes envelopes onto a Redis list for the worker to insert.
type RedisQueue struct {
	rdb redis.UniversalClient
	key string
}

func NewRedisQueue(rdb redis.UniversalClient) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: redisu.NotificationQueueKey}
}

func (q *RedisQueue) push(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode notification envelope: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}
	return nil
}

func (q *RedisQueue) NotifyUser(ctx context.Context, userID primitive.ObjectID, actor Actor, msg Message) error {
	return q.NotifyUsers(ctx, []primitive.ObjectID{userID}, actor, msg)
}

func (q *RedisQueue) NotifyUsers(ctx context.Context, userIDs []primitive.ObjectID, actor Actor, msg Message) error {
	if len(userIDs) == 0 {
		return nil
	}
	env := newEnvelope(actor, msg)
	env.Users = userIDs
	return q.push(ctx, env)
}

func (q *RedisQueue) NotifyTeam(ctx context.Context, teamID primitive.ObjectID, actor Actor, msg Message) error {
	env := newEnvelope(actor, msg)
	env.Team = &teamID
	return q.push(ctx, env)
}

// DecodeEnvelope parses a queued payload.
func DecodeEnvelope(raw string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed notification envelope: %w", err)
	}
	if len(env.Users) == 0 && env.Team == nil {
		return Envelope{}, errors.New("notification envelope has no recipient")
	}
	return env, nil
}

// Drainer moves queued envelopes into the notification store.
type Drainer struct {
	rdb      redis.UniversalClient
	direct   *Direct
	log      *logger.Logger
	timeout  time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewDrainer(rdb redis.UniversalClient, direct *Direct, blockTimeout time.Duration, log *logger.Logger) *Drainer {
	if blockTimeout <= 0 {
		blockTimeout = 5 * time.Second
	}
	return &Drainer{
		rdb:      rdb,
		direct:   direct,
		log:      log,
		timeout:  blockTimeout,
		stopChan: make(chan struct{}),
	}
}

// Start runs the drain loop in a goroutine until Stop is called.
func (d *Drainer) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.log.Info("Notification drainer started (block timeout %v).", d.timeout)
		for {
			select {
			case <-d.stopChan:
				d.log.Info("Notification drainer stopped.")
				return
			default:
			}
			if _, err := d.DrainOnce(context.Background()); err != nil {
				d.log.Error("Notification drainer: %v", err)
				// back off so a Redis outage does not spin
				select {
				case <-d.stopChan:
				case <-time.After(time.Second):
				}
			}
		}
	}()
}

func (d *Drainer) Stop() {
	close(d.stopChan)
	d.wg.Wait()
}

// DrainOnce blocks for one envelope and delivers it. It reports whether an envelope
// was taken off the queue.
func (d *Drainer) DrainOnce(ctx context.Context) (bool, error) {
	res, err := d.rdb.BLPop(ctx, d.timeout, redisu.NotificationQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pop notification: %w", err)
	}
	// BLPOP returns [key, value]
	raw := res[1]

	env, err := DecodeEnvelope(raw)
	if err == nil {
		insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = d.direct.Deliver(insertCtx, env)
		cancel()
	}
	if err != nil {
		d.log.Warn("Moving notification to dead letter list: %v", err)
		if dlErr := d.rdb.RPush(ctx, redisu.NotificationDeadLetterKey, raw).Err(); dlErr != nil {
			return true, fmt.Errorf("failed to dead-letter notification: %w", dlErr)
		}
	}
	return true, nil
}
