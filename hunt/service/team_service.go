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

// TeamDetail is a team with its registered players.
type TeamDetail struct {
	models.Team
	Players []models.User `json:"players"`
}

type TeamService struct {
	stores  Stores
	storage media.Storage
}

func NewTeamService(stores Stores, storage media.Storage) *TeamService {
	return &TeamService{stores: stores, storage: storage}
}

func (s *TeamService) Get(ctx context.Context, id primitive.ObjectID) (*TeamDetail, error) {
	t, err := s.stores.Teams.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrTeamNotFound, "load team")
	}
	players, err := s.stores.Users.ListByTeam(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load team players")
	}
	if players == nil {
		players = []models.User{}
	}
	return &TeamDetail{Team: *t, Players: players}, nil
}

// SetColour changes the team's colours. Any member may do it.
func (s *TeamService) SetColour(ctx context.Context, id primitive.ObjectID, by *models.User, c models.ColourScheme) (*models.Team, error) {
	if !by.OnTeam(id) {
		return nil, ErrNotTeamMember
	}
	c.Primary, c.Secondary = strings.TrimSpace(c.Primary), strings.TrimSpace(c.Secondary)
	if c.Primary == "" {
		return nil, ValidationError("primary", "primary colour is required")
	}
	t, err := s.stores.Teams.Update(ctx, id, store.TeamPatch{ColourScheme: &c})
	return t, lookup(err, ErrTeamNotFound, "update team colours")
}

// AddMember adds a named member, optionally with an avatar. Only the leader may.
func (s *TeamService) AddMember(ctx context.Context, id primitive.ObjectID, by *models.User, name string, avatar *media.Upload) (*models.Team, error) {
	if !by.OnTeam(id) {
		return nil, ErrNotTeamMember
	}
	if !by.IsAdmin {
		return nil, ErrNotTeamLeader
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("name", "member name is required")
	}

	m := models.Member{Name: name}
	row, err := saveUpload(ctx, s.stores, s.storage, avatar, "avatar", models.Media{
		UploadedBy: models.UserPrincipal(by.ID),
		Team:       &id,
		Type:       models.MediaTypeProfile,
		Tag:        "avatar",
	})
	if err != nil {
		return nil, err
	}
	if row != nil {
		m.AvatarURL = row.URL
	}

	t, err := s.stores.Teams.AddMember(ctx, id, m)
	return t, lookup(err, ErrTeamNotFound, "add team member")
}

func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.stores.Teams.List(ctx)
	return teams, errors.Wrap(err, "list teams")
}

func (s *TeamService) Create(ctx context.Context, name string, colours models.ColourScheme) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("name", "name is required")
	}
	t := &models.Team{
		Name:              name,
		Members:           []models.Member{},
		CurrentClue:       1,
		CompletedClues:    []primitive.ObjectID{},
		SideQuestProgress: []models.SideQuestProgress{},
		QuestionAnswers:   []models.QuestionAnswer{},
		ColourScheme:      colours,
	}
	if _, err := s.stores.Teams.GetByName(ctx, name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "check team name")
	}
	if err := s.stores.Teams.Create(ctx, t); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrTeamNameTaken
		}
		return nil, errors.Wrap(err, "create team")
	}
	return t, nil
}

func (s *TeamService) Update(ctx context.Context, id primitive.ObjectID, patch store.TeamPatch) (*models.Team, error) {
	if patch.Name != nil {
		v := strings.TrimSpace(*patch.Name)
		if v == "" {
			return nil, ValidationError("name", "name cannot be empty")
		}
		patch.Name = &v
	}
	if patch.CurrentClue != nil && *patch.CurrentClue < 0 {
		return nil, ValidationError("currentClue", "currentClue cannot be negative")
	}
	t, err := s.stores.Teams.Update(ctx, id, patch)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrTeamNameTaken
	}
	return t, lookup(err, ErrTeamNotFound, "update team")
}

// Delete removes the team and detaches its players.
func (s *TeamService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.stores.Teams.Delete(ctx, id); err != nil {
		return lookup(err, ErrTeamNotFound, "delete team")
	}
	players, err := s.stores.Users.ListByTeam(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load team players")
	}
	leader := false
	for _, p := range players {
		if _, err := s.stores.Users.Update(ctx, p.ID, store.UserPatch{ClearTeam: true, IsAdmin: &leader}); err != nil {
			return errors.Wrapf(err, "detach player %s", p.ID.Hex())
		}
	}
	return nil
}
