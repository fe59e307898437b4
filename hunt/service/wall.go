package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WallService runs the message walls on player and team pages.
type WallService struct {
	stores   Stores
	notifier notify.Notifier
	storage  media.Storage
	log      *logger.Logger
}

func NewWallService(stores Stores, notifier notify.Notifier, storage media.Storage, log *logger.Logger) *WallService {
	return &WallService{stores: stores, notifier: notifier, storage: storage, log: log}
}

// ParseWallTarget accepts "user" or "team".
func ParseWallTarget(s string) (models.WallTarget, error) {
	switch t := models.WallTarget(s); t {
	case models.WallUser, models.WallTeam:
		return t, nil
	}
	return "", ValidationError("type", "wall type must be user or team")
}

func (s *WallService) List(ctx context.Context, target models.WallTarget, id primitive.ObjectID) ([]models.WallPost, error) {
	if err := s.targetExists(ctx, target, id); err != nil {
		return nil, err
	}
	posts, err := s.stores.Walls.List(ctx, target, id)
	if err != nil {
		return nil, errors.Wrap(err, "list wall posts")
	}
	if posts == nil {
		posts = []models.WallPost{}
	}
	return posts, nil
}

// Post adds a message to a wall and tells the wall's owner(s), never the author.
func (s *WallService) Post(ctx context.Context, target models.WallTarget, id primitive.ObjectID, author *models.User, message string, image *media.Upload) (*models.WallPost, error) {
	message = strings.TrimSpace(message)
	if message == "" && image == nil {
		return nil, ValidationError("message", "message or image is required")
	}
	if err := s.targetExists(ctx, target, id); err != nil {
		return nil, err
	}

	p := &models.WallPost{
		TargetType: target,
		TargetID:   id,
		Author:     author.ID,
		AuthorName: author.DisplayName(),
		Message:    message,
	}
	row, err := saveUpload(ctx, s.stores, s.storage, image, "wall", models.Media{
		UploadedBy: models.UserPrincipal(author.ID),
		Team:       author.Team,
		Type:       models.MediaTypeOther,
		Tag:        "wall",
	})
	if err != nil {
		return nil, err
	}
	if row != nil {
		p.ImageURL = row.URL
	}
	if err := s.stores.Walls.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create wall post")
	}

	s.notifyOwners(ctx, p, author)
	return p, nil
}

func (s *WallService) notifyOwners(ctx context.Context, p *models.WallPost, author *models.User) {
	var owners []models.User
	link := fmt.Sprintf("/%s/%s", p.TargetType, p.TargetID.Hex())
	text := fmt.Sprintf("%s wrote on your wall", author.DisplayName())

	switch p.TargetType {
	case models.WallUser:
		u, err := s.stores.Users.Get(ctx, p.TargetID)
		if err != nil {
			s.log.Error("Failed to load wall owner %s: %v", p.TargetID.Hex(), err)
			return
		}
		owners = []models.User{*u}
	case models.WallTeam:
		members, err := s.stores.Users.ListByTeam(ctx, p.TargetID)
		if err != nil {
			s.log.Error("Failed to load members of team %s: %v", p.TargetID.Hex(), err)
			return
		}
		owners = members
		text = fmt.Sprintf("%s wrote on your team's wall", author.DisplayName())
	}

	ids := optedIn(owners, models.NotifyWall, author.ID)
	if len(ids) == 0 {
		return
	}
	if err := s.notifier.NotifyUsers(ctx, ids, notify.UserActor(author.ID), notify.Message{Text: text, Link: link}); err != nil {
		s.log.Error("Failed to notify wall owners of %s %s: %v", p.TargetType, p.TargetID.Hex(), err)
	}
}

func (s *WallService) targetExists(ctx context.Context, target models.WallTarget, id primitive.ObjectID) error {
	switch target {
	case models.WallUser:
		_, err := s.stores.Users.Get(ctx, id)
		return lookup(err, ErrUserNotFound, "load player")
	case models.WallTeam:
		_, err := s.stores.Teams.Get(ctx, id)
		return lookup(err, ErrTeamNotFound, "load team")
	}
	return ValidationError("type", "wall type must be user or team")
}
