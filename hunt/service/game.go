package service

import (
	"context"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GameService struct {
	stores Stores
}

func NewGameService(stores Stores) *GameService {
	return &GameService{stores: stores}
}

func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	gs, err := s.stores.Games.List(ctx)
	return gs, errors.Wrap(err, "list games")
}

func (s *GameService) Get(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	g, err := s.stores.Games.Get(ctx, id)
	return g, lookup(err, ErrGameNotFound, "load game")
}

func (s *GameService) Create(ctx context.Context, g *models.Game) (*models.Game, error) {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return nil, ValidationError("title", "title is required")
	}
	if err := checkWindow(g.StartsAt, g.EndsAt); err != nil {
		return nil, err
	}
	g.ID = primitive.NilObjectID
	if err := s.stores.Games.Create(ctx, g); err != nil {
		return nil, errors.Wrap(err, "create game")
	}
	return g, nil
}

func (s *GameService) Update(ctx context.Context, id primitive.ObjectID, patch store.GamePatch) (*models.Game, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ValidationError("title", "title cannot be empty")
	}
	if patch.StartsAt != nil || patch.EndsAt != nil {
		cur, err := s.stores.Games.Get(ctx, id)
		if err != nil {
			return nil, lookup(err, ErrGameNotFound, "load game")
		}
		starts, ends := cur.StartsAt, cur.EndsAt
		if patch.StartsAt != nil {
			starts = patch.StartsAt
		}
		if patch.EndsAt != nil {
			ends = patch.EndsAt
		}
		if err := checkWindow(starts, ends); err != nil {
			return nil, err
		}
	}
	g, err := s.stores.Games.Update(ctx, id, patch)
	return g, lookup(err, ErrGameNotFound, "update game")
}

func (s *GameService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return lookup(s.stores.Games.Delete(ctx, id), ErrGameNotFound, "delete game")
}

func checkWindow(starts, ends *time.Time) error {
	if starts != nil && ends != nil && ends.Before(*starts) {
		return ValidationError("endsAt", "endsAt must not be before startsAt")
	}
	return nil
}
