// hunt/store/user_store.go
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

// UserStore persists players.
type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(collection *mongo.Collection) *UserStore {
	return &UserStore{collection: collection}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	ensureTime(&u.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Name, translate(err))
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, byID(id))
}

// GetByName matches the login name case-insensitively.
func (s *UserStore) GetByName(ctx context.Context, name string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"name": equalFold(name)})
}

// FindTeamLeaderByLastName returns a team leader with the given last name.
func (s *UserStore) FindTeamLeaderByLastName(ctx context.Context, lastName string) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"isAdmin":  true,
		"lastName": equalFold(lastName),
		"team":     bson.M{"$exists": true},
	})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

func (s *UserStore) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.User, error) {
	return s.find(ctx, bson.M{"team": teamID})
}

func (s *UserStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *UserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*models.User, error) {
	update := patch.update()
	if len(update) == 0 {
		return s.Get(ctx, id)
	}
	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.collection.FindOneAndUpdate(ctx, byID(id), update, opts).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error {
	return setQRCode(ctx, s.collection, id, data, baseURL)
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *UserStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// Shared helpers for the per-collection stores.

func setQRCode(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, data, baseURL string) error {
	res, err := c.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"qrCodeData": data, "qrBaseUrl": baseURL}})
	if err != nil {
		return fmt.Errorf("failed to cache QR code on %s %s: %w", c.Name(), id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	res, err := c.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.Name(), id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteAll(ctx context.Context, c *mongo.Collection) error {
	if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear %s: %w", c.Name(), err)
	}
	return nil
}

func updateByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, update bson.M, out interface{}) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := c.FindOneAndUpdate(ctx, byID(id), update, opts).Decode(out); err != nil {
		return translate(err)
	}
	return nil
}
