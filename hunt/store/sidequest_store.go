package store

import (
	"context"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SideQuestFilter narrows SideQuestStore.List. Zero value lists everything.
type SideQuestFilter struct {
	ActiveOnly bool
	CreatedBy  []primitive.ObjectID // player principals only
}

func (f SideQuestFilter) bson() bson.M {
	m := bson.M{}
	if f.ActiveOnly {
		m["active"] = true
	}
	if len(f.CreatedBy) > 0 {
		m["createdBy.kind"] = models.PrincipalUser
		m["createdBy.id"] = bson.M{"$in": f.CreatedBy}
	}
	return m
}

// Matches mirrors bson() for in-memory implementations.
func (f SideQuestFilter) Matches(sq *models.SideQuest) bool {
	if f.ActiveOnly && !sq.Active {
		return false
	}
	if len(f.CreatedBy) > 0 {
		if !sq.CreatedBy.IsUser() {
			return false
		}
		for _, id := range f.CreatedBy {
			if sq.CreatedBy.ID == id {
				return true
			}
		}
		return false
	}
	return true
}

type SideQuestStore struct {
	collection *mongo.Collection
}

func NewSideQuestStore(collection *mongo.Collection) *SideQuestStore {
	return &SideQuestStore{collection: collection}
}

func (s *SideQuestStore) Create(ctx context.Context, sq *models.SideQuest) error {
	ensureID(&sq.ID)
	ensureTime(&sq.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, sq); err != nil {
		return fmt.Errorf("failed to create side quest %s: %w", sq.Title, translate(err))
	}
	return nil
}

func (s *SideQuestStore) Get(ctx context.Context, id primitive.ObjectID) (*models.SideQuest, error) {
	var sq models.SideQuest
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&sq); err != nil {
		return nil, translate(err)
	}
	return &sq, nil
}

func (s *SideQuestStore) List(ctx context.Context, f SideQuestFilter) ([]models.SideQuest, error) {
	return s.find(ctx, f.bson())
}

// ListBonusForTarget returns active bonus quests whose target is the given entity.
func (s *SideQuestStore) ListBonusForTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.SideQuest, error) {
	return s.find(ctx, bson.M{"questType": models.QuestBonus, "active": true, "target.id": targetID})
}

func (s *SideQuestStore) find(ctx context.Context, filter bson.M) ([]models.SideQuest, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query side quests: %w", err)
	}
	var quests []models.SideQuest
	if err := cursor.All(ctx, &quests); err != nil {
		return nil, fmt.Errorf("failed to decode side quests: %w", err)
	}
	return quests, nil
}

func (s *SideQuestStore) Update(ctx context.Context, id primitive.ObjectID, patch SideQuestPatch) (*models.SideQuest, error) {
	update := patch.update()
	if len(update) == 0 {
		return s.Get(ctx, id)
	}
	var sq models.SideQuest
	if err := updateByID(ctx, s.collection, id, update, &sq); err != nil {
		return nil, err
	}
	return &sq, nil
}

func (s *SideQuestStore) SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error {
	return setQRCode(ctx, s.collection, id, data, baseURL)
}

func (s *SideQuestStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *SideQuestStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}
