package service

import (
	"context"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScanService records scan events and tells teammates about them.
type ScanService struct {
	stores   Stores
	notifier notify.Notifier
	log      *logger.Logger
}

func NewScanService(stores Stores, notifier notify.Notifier, log *logger.Logger) *ScanService {
	return &ScanService{stores: stores, notifier: notifier, log: log}
}

// RecordScan appends one scan for user and notifies opted-in teammates. Anonymous
// scans are ignored. Failures are logged, never returned.
func (s *ScanService) RecordScan(ctx context.Context, itemType models.ItemType, itemID primitive.ObjectID, user *models.User, status, itemTitle string) {
	if user == nil {
		return
	}

	scan := &models.Scan{
		User:     user.ID,
		Team:     user.Team,
		ItemType: itemType,
		ItemID:   itemID,
		Status:   status,
	}
	if err := s.stores.Scans.Insert(ctx, scan); err != nil {
		s.log.Error("Failed to record %s scan of %s by %s: %v", itemType, itemID.Hex(), user.ID.Hex(), err)
		return
	}

	if user.Team == nil {
		return
	}
	mates, err := s.stores.Users.ListByTeam(ctx, *user.Team)
	if err != nil {
		s.log.Error("Failed to load teammates of %s for scan notification: %v", user.ID.Hex(), err)
		return
	}
	recipients := optedIn(mates, models.NotifyScans, user.ID)
	if len(recipients) == 0 {
		return
	}

	msg := notify.Message{Text: scanMessage(user, itemType, itemTitle, status), Link: ItemLink(itemType, itemID)}
	if err := s.notifier.NotifyUsers(ctx, recipients, notify.UserActor(user.ID), msg); err != nil {
		s.log.Error("Failed to notify teammates about scan by %s: %v", user.ID.Hex(), err)
	}
}

func scanMessage(user *models.User, itemType models.ItemType, title, status string) string {
	what := string(itemType)
	if itemType == models.ItemSideQuest {
		what = "side quest"
	}
	if title != "" {
		what = fmt.Sprintf("%s %q", what, title)
	}
	switch status {
	case models.ScanSolved:
		return fmt.Sprintf("%s solved the %s!", user.DisplayName(), what)
	case models.ScanAnswered:
		return fmt.Sprintf("%s answered the %s", user.DisplayName(), what)
	}
	return fmt.Sprintf("%s scanned the %s", user.DisplayName(), what)
}

// ItemLink is the client deep link for an item.
func ItemLink(itemType models.ItemType, id primitive.ObjectID) string {
	return "/" + string(itemType) + "/" + id.Hex()
}

// optedIn returns the ids of users who enabled category, skipping except.
func optedIn(users []models.User, category models.NotificationCategory, except primitive.ObjectID) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for i := range users {
		if users[i].ID == except || !users[i].NotificationPrefs.Wants(category) {
			continue
		}
		ids = append(ids, users[i].ID)
	}
	return ids
}
