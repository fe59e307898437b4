package service

import (
	"context"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamSummary is the public listing shown on the join screen.
type TeamSummary struct {
	ID           primitive.ObjectID  `json:"id"`
	Name         string              `json:"name"`
	PhotoURL     string              `json:"photoUrl,omitempty"`
	ColourScheme models.ColourScheme `json:"colourScheme"`
	MemberCount  int                 `json:"memberCount"`
}

type OnboardInput struct {
	FirstName      string
	LastName       string
	IsNewTeam      bool
	TeamName       string
	LeaderLastName string
	Selfie         *media.Upload
	TeamPhoto      *media.Upload
}

type OnboardResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
	Team  *models.Team `json:"team"`
}

// OnboardService creates password-less players straight into a team.
type OnboardService struct {
	stores  Stores
	storage media.Storage
	tokens  *auth.TokenManager
	log     *logger.Logger
}

func NewOnboardService(stores Stores, storage media.Storage, tokens *auth.TokenManager, log *logger.Logger) *OnboardService {
	return &OnboardService{stores: stores, storage: storage, tokens: tokens, log: log}
}

func (s *OnboardService) ListTeams(ctx context.Context) ([]TeamSummary, error) {
	teams, err := s.stores.Teams.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list teams")
	}
	out := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamSummary{
			ID:           t.ID,
			Name:         t.Name,
			PhotoURL:     t.PhotoURL,
			ColourScheme: t.ColourScheme,
			MemberCount:  len(t.Members),
		})
	}
	return out, nil
}

// Onboard creates the player, creates or joins a team and returns a signed token.
// A player creating a team becomes its leader.
func (s *OnboardService) Onboard(ctx context.Context, in OnboardInput) (*OnboardResult, error) {
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first == "" {
		return nil, ValidationError("firstName", "firstName is required")
	}
	if last == "" {
		return nil, ValidationError("lastName", "lastName is required")
	}

	team, err := s.resolveTeam(ctx, in)
	if err != nil {
		return nil, err
	}

	name := first + " " + last
	if _, err := s.stores.Users.GetByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "check player name")
	}

	if in.IsNewTeam {
		if err := s.stores.Teams.Create(ctx, team); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return nil, ErrTeamNameTaken
			}
			return nil, errors.Wrap(err, "create team")
		}
		s.log.Info("Team %q created by %s", team.Name, name)
	}

	teamID := team.ID
	u := &models.User{
		Name:              name,
		FirstName:         first,
		LastName:          last,
		Team:              &teamID,
		IsAdmin:           in.IsNewTeam,
		NotificationPrefs: models.DefaultNotificationPrefs(),
	}
	if err := s.stores.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, errors.Wrap(err, "create player")
	}

	selfie, err := saveUpload(ctx, s.stores, s.storage, in.Selfie, "selfie", models.Media{
		UploadedBy: models.UserPrincipal(u.ID),
		Team:       &teamID,
		Type:       models.MediaTypeProfile,
		Tag:        "selfie",
	})
	if err != nil {
		return nil, err
	}
	member := models.Member{Name: u.DisplayName()}
	if selfie != nil {
		u, err = s.stores.Users.Update(ctx, u.ID, store.UserPatch{PhotoURL: &selfie.URL})
		if err != nil {
			return nil, errors.Wrap(err, "set player photo")
		}
		member.AvatarURL = selfie.URL
	}

	if team, err = s.stores.Teams.AddMember(ctx, teamID, member); err != nil {
		return nil, lookup(err, ErrTeamNotFound, "add team member")
	}

	if in.IsNewTeam {
		photo, err := saveUpload(ctx, s.stores, s.storage, in.TeamPhoto, "team", models.Media{
			UploadedBy: models.UserPrincipal(u.ID),
			Team:       &teamID,
			Type:       models.MediaTypeOther,
			Tag:        "team",
		})
		if err != nil {
			return nil, err
		}
		if photo != nil {
			if team, err = s.stores.Teams.Update(ctx, teamID, store.TeamPatch{PhotoURL: &photo.URL}); err != nil {
				return nil, errors.Wrap(err, "set team photo")
			}
		}
	}

	token, err := s.tokens.IssuePlayer(u.ID, u.Team)
	if err != nil {
		return nil, err
	}
	s.log.Info("Player %s onboarded onto team %q", u.Name, team.Name)
	return &OnboardResult{Token: token, User: u, Team: team}, nil
}

// resolveTeam returns the new (unsaved) team or the existing team to join.
func (s *OnboardService) resolveTeam(ctx context.Context, in OnboardInput) (*models.Team, error) {
	teamName := strings.TrimSpace(in.TeamName)

	if in.IsNewTeam {
		if teamName == "" {
			return nil, ValidationError("teamName", "teamName is required when creating a team")
		}
		if _, err := s.stores.Teams.GetByName(ctx, teamName); err == nil {
			return nil, ErrTeamNameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(err, "check team name")
		}
		return &models.Team{
			Name:              teamName,
			Members:           []models.Member{},
			CurrentClue:       1,
			CompletedClues:    []primitive.ObjectID{},
			SideQuestProgress: []models.SideQuestProgress{},
			QuestionAnswers:   []models.QuestionAnswer{},
		}, nil
	}

	if teamName != "" {
		team, err := s.stores.Teams.GetByName(ctx, teamName)
		return team, lookup(err, ErrTeamNotFound, "load team")
	}

	leaderLast := strings.TrimSpace(in.LeaderLastName)
	if leaderLast == "" {
		return nil, ValidationError("teamName", "teamName or leaderLastName is required to join a team")
	}
	leader, err := s.stores.Users.FindTeamLeaderByLastName(ctx, leaderLast)
	if err != nil {
		return nil, lookup(err, ErrTeamNotFound, "find team leader")
	}
	team, err := s.stores.Teams.Get(ctx, *leader.Team)
	return team, lookup(err, ErrTeamNotFound, "load team")
}
