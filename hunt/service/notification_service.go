package service

import (
	"context"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationLimit caps list responses.
const NotificationLimit = 100

type NotificationService struct {
	stores   Stores
	notifier notify.Notifier
}

func NewNotificationService(stores Stores, notifier notify.Notifier) *NotificationService {
	return &NotificationService{stores: stores, notifier: notifier}
}

func (s *NotificationService) ListMine(ctx context.Context, user *models.User) ([]models.Notification, error) {
	ns, err := s.stores.Notifications.ListForUser(ctx, user.ID, NotificationLimit)
	return nonNil(ns), errors.Wrap(err, "list notifications")
}

func (s *NotificationService) ListTeam(ctx context.Context, user *models.User) ([]models.Notification, error) {
	if user.Team == nil {
		return nil, ErrNoTeam
	}
	ns, err := s.stores.Notifications.ListForTeam(ctx, *user.Team, NotificationLimit)
	return nonNil(ns), errors.Wrap(err, "list team notifications")
}

// MarkRead flags a notification addressed to the user or their team. Anyone else's
// notification reads as missing.
func (s *NotificationService) MarkRead(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.Notification, error) {
	n, err := s.stores.Notifications.MarkRead(ctx, id, recipient(user))
	return n, lookup(err, ErrNotification, "mark notification read")
}

func (s *NotificationService) MarkViewed(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.Notification, error) {
	n, err := s.stores.Notifications.MarkViewed(ctx, id, recipient(user))
	return n, lookup(err, ErrNotification, "mark notification viewed")
}

// Broadcast sends one System notification to every player and returns how many
// were addressed.
func (s *NotificationService) Broadcast(ctx context.Context, message, link string) (int, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, ValidationError("message", "message is required")
	}
	users, err := s.stores.Users.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list players")
	}
	ids := make([]primitive.ObjectID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	if err := s.notifier.NotifyUsers(ctx, ids, notify.SystemActor(), notify.Message{Text: message, Link: link}); err != nil {
		return 0, errors.Wrap(err, "broadcast")
	}
	return len(ids), nil
}

func recipient(user *models.User) store.Recipient {
	return store.Recipient{User: user.ID, Team: user.Team}
}

func nonNil(ns []models.Notification) []models.Notification {
	if ns == nil {
		return []models.Notification{}
	}
	return ns
}
