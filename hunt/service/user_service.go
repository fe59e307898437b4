package service

import (
	"context"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is another player's public page.
type Profile struct {
	ID        primitive.ObjectID  `json:"id"`
	Name      string              `json:"name"`
	FirstName string              `json:"firstName,omitempty"`
	LastName  string              `json:"lastName,omitempty"`
	PhotoURL  string              `json:"photoUrl,omitempty"`
	Team      *primitive.ObjectID `json:"team,omitempty"`
	TeamName  string              `json:"teamName,omitempty"`
	IsLeader  bool                `json:"isLeader"`
}

type UpdateMeInput struct {
	FirstName         *string
	LastName          *string
	Email             *string
	NotificationPrefs *models.NotificationPrefs
	Selfie            *media.Upload
}

type UserService struct {
	stores  Stores
	scans   *ScanService
	bonus   *BonusService
	storage media.Storage
}

func NewUserService(stores Stores, scans *ScanService, bonus *BonusService, storage media.Storage) *UserService {
	return &UserService{stores: stores, scans: scans, bonus: bonus, storage: storage}
}

func (s *UserService) Me(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.stores.Users.Get(ctx, id)
	return u, lookup(err, ErrUserNotFound, "load player")
}

func (s *UserService) UpdateMe(ctx context.Context, me *models.User, in UpdateMeInput) (*models.User, error) {
	var patch store.UserPatch
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, ValidationError("firstName", "firstName cannot be empty")
		}
		patch.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, ValidationError("lastName", "lastName cannot be empty")
		}
		patch.LastName = &v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		patch.Email = &v
	}
	patch.NotificationPrefs = in.NotificationPrefs

	selfie, err := saveUpload(ctx, s.stores, s.storage, in.Selfie, "selfie", models.Media{
		UploadedBy: models.UserPrincipal(me.ID),
		Team:       me.Team,
		Type:       models.MediaTypeProfile,
		Tag:        "selfie",
	})
	if err != nil {
		return nil, err
	}
	if selfie != nil {
		patch.PhotoURL = &selfie.URL
	}

	u, err := s.stores.Users.Update(ctx, me.ID, patch)
	return u, lookup(err, ErrUserNotFound, "update player")
}

// GetProfile shows a player. A signed-in viewer scanning someone else's code
// records a FOUND scan and may complete bonus quests targeting that player.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID, viewer *models.User) (*Profile, error) {
	u, err := s.stores.Users.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrUserNotFound, "load player")
	}
	p := &Profile{
		ID:        u.ID,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
		Team:      u.Team,
		IsLeader:  u.IsAdmin,
	}
	if team, err := teamOf(ctx, s.stores, u); err != nil {
		return nil, err
	} else if team != nil {
		p.TeamName = team.Name
	}

	if viewer != nil && viewer.ID != u.ID {
		s.scans.RecordScan(ctx, models.ItemPlayer, u.ID, viewer, models.ScanFound, u.DisplayName())
		s.bonus.CheckBonusQuests(ctx, viewer, models.TargetPlayer, u.ID)
	}
	return p, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.stores.Users.List(ctx)
	return users, errors.Wrap(err, "list players")
}

// Update is the admin edit. Moving a player checks the destination team exists.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, patch store.UserPatch) (*models.User, error) {
	if patch.Name != nil {
		v := strings.TrimSpace(*patch.Name)
		if v == "" {
			return nil, ValidationError("name", "name cannot be empty")
		}
		patch.Name = &v
	}
	if patch.Team != nil {
		if _, err := s.stores.Teams.Get(ctx, *patch.Team); err != nil {
			return nil, lookup(err, ErrTeamNotFound, "load team")
		}
	}
	patch.PasswordHash = nil

	u, err := s.stores.Users.Update(ctx, id, patch)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrNameTaken
	}
	return u, lookup(err, ErrUserNotFound, "update player")
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return lookup(s.stores.Users.Delete(ctx, id), ErrUserNotFound, "delete player")
}
