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

// ClueStore persists clues, listed in hunt order.
type ClueStore struct {
	collection *mongo.Collection
}

func NewClueStore(collection *mongo.Collection) *ClueStore {
	return &ClueStore{collection: collection}
}

func (s *ClueStore) Create(ctx context.Context, c *models.Clue) error {
	ensureID(&c.ID)
	ensureTime(&c.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create clue %s: %w", c.Title, translate(err))
	}
	return nil
}

func (s *ClueStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Clue, error) {
	var c models.Clue
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *ClueStore) List(ctx context.Context) ([]models.Clue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query clues: %w", err)
	}
	var clues []models.Clue
	if err := cursor.All(ctx, &clues); err != nil {
		return nil, fmt.Errorf("failed to decode clues: %w", err)
	}
	return clues, nil
}

func (s *ClueStore) Count(ctx context.Context) (int, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count clues: %w", err)
	}
	return int(n), nil
}

func (s *ClueStore) Update(ctx context.Context, id primitive.ObjectID, patch ContentPatch) (*models.Clue, error) {
	set := patch.set()
	if len(set) == 0 {
		return s.Get(ctx, id)
	}
	var c models.Clue
	if err := updateByID(ctx, s.collection, id, bson.M{"$set": set}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClueStore) SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error {
	return setQRCode(ctx, s.collection, id, data, baseURL)
}

func (s *ClueStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *ClueStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// QuestionStore persists trivia questions.
type QuestionStore struct {
	collection *mongo.Collection
}

func NewQuestionStore(collection *mongo.Collection) *QuestionStore {
	return &QuestionStore{collection: collection}
}

func (s *QuestionStore) Create(ctx context.Context, q *models.Question) error {
	ensureID(&q.ID)
	ensureTime(&q.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, q); err != nil {
		return fmt.Errorf("failed to create question %s: %w", q.Title, translate(err))
	}
	return nil
}

func (s *QuestionStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var q models.Question
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *QuestionStore) List(ctx context.Context) ([]models.Question, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	var qs []models.Question
	if err := cursor.All(ctx, &qs); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return qs, nil
}

func (s *QuestionStore) Update(ctx context.Context, id primitive.ObjectID, patch ContentPatch) (*models.Question, error) {
	set := patch.set()
	delete(set, "order")
	if len(set) == 0 {
		return s.Get(ctx, id)
	}
	var q models.Question
	if err := updateByID(ctx, s.collection, id, bson.M{"$set": set}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuestionStore) SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error {
	return setQRCode(ctx, s.collection, id, data, baseURL)
}

func (s *QuestionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *QuestionStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}

// GameStore persists admin-managed game records.
type GameStore struct {
	collection *mongo.Collection
}

func NewGameStore(collection *mongo.Collection) *GameStore {
	return &GameStore{collection: collection}
}

func (s *GameStore) Create(ctx context.Context, g *models.Game) error {
	ensureID(&g.ID)
	ensureTime(&g.CreatedAt)
	if _, err := s.collection.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("failed to create game %s: %w", g.Title, translate(err))
	}
	return nil
}

func (s *GameStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var g models.Game
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&g); err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *GameStore) List(ctx context.Context) ([]models.Game, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

func (s *GameStore) Update(ctx context.Context, id primitive.ObjectID, patch GamePatch) (*models.Game, error) {
	set := patch.set()
	if len(set) == 0 {
		return s.Get(ctx, id)
	}
	var g models.Game
	if err := updateByID(ctx, s.collection, id, bson.M{"$set": set}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GameStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}
