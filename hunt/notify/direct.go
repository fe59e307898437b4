package notify

import (
	"context"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inserter persists notification rows.
type Inserter interface {
	InsertMany(ctx context.Context, ns []models.Notification) error
}

// Direct inserts notifications synchronously within the calling request.
type Direct struct {
	store Inserter
}

func NewDirect(store Inserter) *Direct {
	return &Direct{store: store}
}

// Deliver writes every row the envelope expands to.
func (d *Direct) Deliver(ctx context.Context, env Envelope) error {
	rows := env.Notifications()
	if len(rows) == 0 {
		return nil
	}
	if err := d.store.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert %d notifications: %w", len(rows), err)
	}
	return nil
}

func (d *Direct) NotifyUser(ctx context.Context, userID primitive.ObjectID, actor Actor, msg Message) error {
	return d.NotifyUsers(ctx, []primitive.ObjectID{userID}, actor, msg)
}

func (d *Direct) NotifyUsers(ctx context.Context, userIDs []primitive.ObjectID, actor Actor, msg Message) error {
	if len(userIDs) == 0 {
		return nil
	}
	env := newEnvelope(actor, msg)
	env.Users = userIDs
	return d.Deliver(ctx, env)
}

func (d *Direct) NotifyTeam(ctx context.Context, teamID primitive.ObjectID, actor Actor, msg Message) error {
	env := newEnvelope(actor, msg)
	env.Team = &teamID
	return d.Deliver(ctx, env)
}
