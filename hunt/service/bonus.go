package service

import (
	"context"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BonusService completes bonus quests whose target a player just scanned.
type BonusService struct {
	stores     Stores
	sideQuests *SideQuestService
	log        *logger.Logger
}

func NewBonusService(stores Stores, sideQuests *SideQuestService, log *logger.Logger) *BonusService {
	return &BonusService{stores: stores, sideQuests: sideQuests, log: log}
}

// CheckBonusQuests completes every active bonus quest targeting the scanned item for
// user's team and returns the ids it completed. Errors are logged and swallowed.
func (b *BonusService) CheckBonusQuests(ctx context.Context, user *models.User, targetType models.TargetType, targetID primitive.ObjectID) []primitive.ObjectID {
	if user == nil || user.Team == nil {
		return nil
	}
	quests, err := b.stores.SideQuests.ListBonusForTarget(ctx, targetID)
	if err != nil {
		b.log.Error("Failed to load bonus quests for %s %s: %v", targetType, targetID.Hex(), err)
		return nil
	}

	var completed []primitive.ObjectID
	for i := range quests {
		q := &quests[i]
		if q.Target == nil || q.Target.Type != targetType {
			continue
		}
		ok, err := b.sideQuests.TryCompleteSideQuest(ctx, user, q, Evidence{})
		if err != nil {
			b.log.Error("Failed to complete bonus quest %s for team %s: %v", q.ID.Hex(), user.Team.Hex(), err)
			continue
		}
		if ok {
			b.log.Info("Team %s completed bonus quest %s by scanning %s %s", user.Team.Hex(), q.ID.Hex(), targetType, targetID.Hex())
			completed = append(completed, q.ID)
		}
	}
	return completed
}
