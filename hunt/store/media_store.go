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

// MediaStore persists uploaded media records.
type MediaStore struct {
	collection *mongo.Collection
}

func NewMediaStore(collection *mongo.Collection) *MediaStore {
	return &MediaStore{collection: collection}
}

func (s *MediaStore) Create(ctx context.Context, m *models.Media) error {
	ensureID(&m.ID)
	ensureTime(&m.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to create media record: %w", translate(err))
	}
	return nil
}

func (s *MediaStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	var m models.Media
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&m); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// List returns media newest first. Hidden items are skipped unless includeHidden.
func (s *MediaStore) List(ctx context.Context, includeHidden bool) ([]models.Media, error) {
	filter := bson.M{}
	if !includeHidden {
		filter["hidden"] = bson.M{"$ne": true}
	}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	var media []models.Media
	if err := cursor.All(ctx, &media); err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}
	return media, nil
}

func (s *MediaStore) SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) (*models.Media, error) {
	var m models.Media
	if err := updateByID(ctx, s.collection, id, bson.M{"$set": bson.M{"hidden": hidden}}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MediaStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *MediaStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// ReactionStore persists emoji reactions, unique per (media, user).
type ReactionStore struct {
	collection *mongo.Collection
}

func NewReactionStore(collection *mongo.Collection) *ReactionStore {
	return &ReactionStore{collection: collection}
}

// Upsert sets the user's reaction on a media item, creating it on first react.
func (s *ReactionStore) Upsert(ctx context.Context, mediaID, userID primitive.ObjectID, emoji string) (*models.Reaction, error) {
	now := time.Now().UTC()
	filter := bson.M{"media": mediaID, "user": userID}
	update := bson.M{
		"$set":         bson.M{"emoji": emoji, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var r models.Reaction
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&r)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race on the unique index; the row exists now.
		err = s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert reaction on media %s: %w", mediaID.Hex(), translate(err))
	}
	return &r, nil
}

func (s *ReactionStore) ListByMedia(ctx context.Context, mediaIDs ...primitive.ObjectID) ([]models.Reaction, error) {
	if len(mediaIDs) == 0 {
		return nil, nil
	}
	cursor, err := s.collection.Find(ctx, bson.M{"media": bson.M{"$in": mediaIDs}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	var rs []models.Reaction
	if err := cursor.All(ctx, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode reactions: %w", err)
	}
	return rs, nil
}

func (s *ReactionStore) DeleteByMedia(ctx context.Context, mediaID primitive.ObjectID) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"media": mediaID}); err != nil {
		return fmt.Errorf("failed to delete reactions for media %s: %w", mediaID.Hex(), err)
	}
	return nil
}

func (s *ReactionStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}
