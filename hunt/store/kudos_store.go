package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KudosStore persists kudos categories and the votes cast in them.
type KudosStore struct {
	categories *mongo.Collection
	votes      *mongo.Collection
}

func NewKudosStore(categories, votes *mongo.Collection) *KudosStore {
	return &KudosStore{categories: categories, votes: votes}
}

func (s *KudosStore) CreateCategory(ctx context.Context, c *models.KudosCategory) error {
	ensureID(&c.ID)
	ensureTime(&c.CreatedAt)
	if _, err := s.categories.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create kudos category %s: %w", c.Name, translate(err))
	}
	return nil
}

func (s *KudosStore) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.KudosCategory, error) {
	var c models.KudosCategory
	if err := s.categories.FindOne(ctx, byID(id)).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *KudosStore) ListCategories(ctx context.Context, activeOnly bool) ([]models.KudosCategory, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	cursor, err := s.categories.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query kudos categories: %w", err)
	}
	var cs []models.KudosCategory
	if err := cursor.All(ctx, &cs); err != nil {
		return nil, fmt.Errorf("failed to decode kudos categories: %w", err)
	}
	return cs, nil
}

func (s *KudosStore) UpdateCategory(ctx context.Context, id primitive.ObjectID, patch KudosCategoryPatch) (*models.KudosCategory, error) {
	set := patch.set()
	if len(set) == 0 {
		return s.GetCategory(ctx, id)
	}
	var c models.KudosCategory
	if err := updateByID(ctx, s.categories, id, bson.M{"$set": set}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory removes the category and its votes.
func (s *KudosStore) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteByID(ctx, s.categories, id); err != nil {
		return err
	}
	if _, err := s.votes.DeleteMany(ctx, bson.M{"category": id}); err != nil {
		return fmt.Errorf("failed to delete votes for kudos category %s: %w", id.Hex(), err)
	}
	return nil
}

// UpsertVote records the voter's nominee, replacing any earlier vote in the category.
func (s *KudosStore) UpsertVote(ctx context.Context, categoryID, voter, nominee primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{"category": categoryID, "voter": voter}
	update := bson.M{
		"$set":         bson.M{"nominee": nominee, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := s.votes.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && mongo.IsDuplicateKeyError(err) {
		_, err = s.votes.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("failed to upsert kudos vote: %w", err)
	}
	return nil
}

func (s *KudosStore) VoteOf(ctx context.Context, categoryID, voter primitive.ObjectID) (*models.KudosVote, error) {
	var v models.KudosVote
	if err := s.votes.FindOne(ctx, bson.M{"category": categoryID, "voter": voter}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// VotesBy returns all of a voter's votes, one per category at most.
func (s *KudosStore) VotesBy(ctx context.Context, voter primitive.ObjectID) ([]models.KudosVote, error) {
	cursor, err := s.votes.Find(ctx, bson.M{"voter": voter})
	if err != nil {
		return nil, fmt.Errorf("failed to query kudos votes: %w", err)
	}
	var vs []models.KudosVote
	if err := cursor.All(ctx, &vs); err != nil {
		return nil, fmt.Errorf("failed to decode kudos votes: %w", err)
	}
	return vs, nil
}

// TallyVotes returns the nominee with most votes in the category. Ties go to the
// smaller user id so the leader is deterministic. leader is nil with no votes.
func (s *KudosStore) TallyVotes(ctx context.Context, categoryID primitive.ObjectID) (*primitive.ObjectID, int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"category": categoryID}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$nominee"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}
	cursor, err := s.votes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to tally kudos votes: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return nil, 0, cursor.Err()
	}
	var result struct {
		Nominee primitive.ObjectID `bson:"_id"`
		Count   int                `bson:"count"`
	}
	if err := cursor.Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode kudos tally: %w", err)
	}
	return &result.Nominee, result.Count, nil
}

func (s *KudosStore) SetLeader(ctx context.Context, categoryID primitive.ObjectID, leader *primitive.ObjectID, count int) error {
	update := bson.M{"$set": bson.M{"leadingCount": count}}
	if leader != nil {
		update["$set"].(bson.M)["leadingUser"] = *leader
	} else {
		update["$unset"] = bson.M{"leadingUser": ""}
	}
	res, err := s.categories.UpdateOne(ctx, byID(categoryID), update)
	if err != nil {
		return fmt.Errorf("failed to set leader for kudos category %s: %w", categoryID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *KudosStore) DeleteAllVotes(ctx context.Context) error {
	if err := deleteAll(ctx, s.votes); err != nil {
		return err
	}
	_, err := s.categories.UpdateMany(ctx, bson.M{},
		bson.M{"$set": bson.M{"leadingCount": 0}, "$unset": bson.M{"leadingUser": ""}})
	if err != nil {
		return fmt.Errorf("failed to reset kudos leaders: %w", err)
	}
	return nil
}
