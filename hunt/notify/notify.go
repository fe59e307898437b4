// Package notify is the outbound notification port. Business code calls a Notifier;
// whether rows are inserted inline or queued for the worker is a deployment choice.
package notify

import (
	"context"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is who caused a notification. The model is fixed by the constructor used,
// so it can never come from request input.
type Actor struct {
	model models.ActorModel
	id    *primitive.ObjectID
}

func UserActor(id primitive.ObjectID) Actor {
	return Actor{model: models.ActorUser, id: &id}
}

func TeamActor(id primitive.ObjectID) Actor {
	return Actor{model: models.ActorTeam, id: &id}
}

func SystemActor() Actor {
	return Actor{model: models.ActorSystem}
}

func (a Actor) Model() models.ActorModel {
	if a.model == "" {
		return models.ActorSystem
	}
	return a.model
}

func (a Actor) ID() *primitive.ObjectID { return a.id }

// Message is the text and optional deep link shown to the recipient.
type Message struct {
	Text string
	Link string
}

// Notifier delivers notifications to players or teams.
type Notifier interface {
	NotifyUser(ctx context.Context, userID primitive.ObjectID, actor Actor, msg Message) error
	NotifyUsers(ctx context.Context, userIDs []primitive.ObjectID, actor Actor, msg Message) error
	NotifyTeam(ctx context.Context, teamID primitive.ObjectID, actor Actor, msg Message) error
}

// Envelope is one fan-out request. It is the unit the Redis queue carries.
type Envelope struct {
	Users      []primitive.ObjectID `json:"users,omitempty"`
	Team       *primitive.ObjectID  `json:"team,omitempty"`
	ActorModel models.ActorModel    `json:"actorModel"`
	ActorID    *primitive.ObjectID  `json:"actorId,omitempty"`
	Message    string               `json:"message"`
	Link       string               `json:"link,omitempty"`
	QueuedAt   time.Time            `json:"queuedAt"`
}

func newEnvelope(actor Actor, msg Message) Envelope {
	return Envelope{
		ActorModel: actor.Model(),
		ActorID:    actor.ID(),
		Message:    msg.Text,
		Link:       msg.Link,
		QueuedAt:   time.Now().UTC(),
	}
}

// Notifications expands the envelope into one row per recipient.
func (e Envelope) Notifications() []models.Notification {
	base := models.Notification{
		Actor:      e.ActorID,
		ActorModel: e.ActorModel,
		Message:    e.Message,
		Link:       e.Link,
	}
	if base.ActorModel == "" {
		base.ActorModel = models.ActorSystem
	}

	out := make([]models.Notification, 0, len(e.Users)+1)
	for _, id := range e.Users {
		n := base
		uid := id
		n.User = &uid
		out = append(out, n)
	}
	if e.Team != nil {
		n := base
		tid := *e.Team
		n.Team = &tid
		out = append(out, n)
	}
	return out
}
