package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsStore holds the singleton settings document.
type SettingsStore struct {
	collection *mongo.Collection
}

func NewSettingsStore(collection *mongo.Collection) *SettingsStore {
	return &SettingsStore{collection: collection}
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	settings := models.DefaultSettings()
	err := s.collection.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&settings)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": models.SettingsID}, settings, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// AdminStore persists administrator accounts.
type AdminStore struct {
	collection *mongo.Collection
}

func NewAdminStore(collection *mongo.Collection) *AdminStore {
	return &AdminStore{collection: collection}
}

func (s *AdminStore) Create(ctx context.Context, a *models.Admin) error {
	ensureID(&a.ID)
	ensureTime(&a.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to create admin %s: %w", a.Username, translate(err))
	}
	return nil
}

func (s *AdminStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var a models.Admin
	if err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *AdminStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

// SetPassword replaces an admin's password hash.
func (s *AdminStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.collection.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"passwordHash": hash}})
	if err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
