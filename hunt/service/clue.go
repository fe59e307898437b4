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

// ClueView is a sanitized clue with the viewer team's solve state.
type ClueView struct {
	models.Clue
	Solved bool `json:"solved"`
}

// ContentInput creates a clue or question.
type ContentInput struct {
	Title         string
	Text          string
	Options       []string
	CorrectAnswer string
	Order         *int // clues only
	Image         *media.Upload
}

// ClueAnswerResult is the response to a clue answer.
type ClueAnswerResult struct {
	Correct  bool `json:"correct"`
	NextClue int  `json:"nextClue"`
}

type ClueService struct {
	stores  Stores
	scans   *ScanService
	bonus   *BonusService
	storage media.Storage
}

func NewClueService(stores Stores, scans *ScanService, bonus *BonusService, storage media.Storage) *ClueService {
	return &ClueService{stores: stores, scans: scans, bonus: bonus, storage: storage}
}

// List returns clues in order, sanitized, flagged with the viewer team's progress.
func (s *ClueService) List(ctx context.Context, viewer *models.User) ([]ClueView, error) {
	clues, err := s.stores.Clues.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list clues")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	out := make([]ClueView, 0, len(clues))
	for _, c := range clues {
		out = append(out, ClueView{Clue: c.Sanitized(), Solved: team != nil && team.HasCompletedClue(c.ID)})
	}
	return out, nil
}

func (s *ClueService) ListAll(ctx context.Context) ([]models.Clue, error) {
	clues, err := s.stores.Clues.List(ctx)
	return clues, errors.Wrap(err, "list clues")
}

// Get returns a clue for a player, recording the scan and checking bonus quests.
func (s *ClueService) Get(ctx context.Context, id primitive.ObjectID, viewer *models.User) (*ClueView, error) {
	c, err := s.stores.Clues.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrClueNotFound, "load clue")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	v := &ClueView{Clue: c.Sanitized(), Solved: team != nil && team.HasCompletedClue(c.ID)}

	if viewer != nil {
		status := models.ScanNew
		if v.Solved {
			status = models.ScanSolved
		}
		s.scans.RecordScan(ctx, models.ItemClue, c.ID, viewer, status, c.Title)
		s.bonus.CheckBonusQuests(ctx, viewer, models.TargetClue, c.ID)
	}
	return v, nil
}

func (s *ClueService) GetRaw(ctx context.Context, id primitive.ObjectID) (*models.Clue, error) {
	c, err := s.stores.Clues.Get(ctx, id)
	return c, lookup(err, ErrClueNotFound, "load clue")
}

// Answer checks a team's answer. A correct answer completes the clue once and
// advances the team's current clue.
func (s *ClueService) Answer(ctx context.Context, id primitive.ObjectID, user *models.User, answer string) (*ClueAnswerResult, error) {
	if user.Team == nil {
		return nil, ErrNoTeam
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ValidationError("answer", "answer is required")
	}
	c, err := s.stores.Clues.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrClueNotFound, "load clue")
	}

	if !models.AnswersMatch(answer, c.CorrectAnswer) {
		team, err := s.stores.Teams.Get(ctx, *user.Team)
		if err != nil {
			return nil, lookup(err, ErrTeamNotFound, "load team")
		}
		s.scans.RecordScan(ctx, models.ItemClue, c.ID, user, models.ScanIncorrect, c.Title)
		return &ClueAnswerResult{Correct: false, NextClue: team.CurrentClue}, nil
	}

	team, _, err := s.stores.Teams.CompleteClue(ctx, *user.Team, c.ID)
	if err != nil {
		return nil, lookup(err, ErrTeamNotFound, "complete clue")
	}
	s.scans.RecordScan(ctx, models.ItemClue, c.ID, user, models.ScanSolved, c.Title)
	return &ClueAnswerResult{Correct: true, NextClue: team.CurrentClue}, nil
}

func (s *ClueService) Create(ctx context.Context, in ContentInput) (*models.Clue, error) {
	c := &models.Clue{
		Title:         strings.TrimSpace(in.Title),
		Text:          in.Text,
		Options:       in.Options,
		CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
	}
	if c.Title == "" {
		return nil, ValidationError("title", "title is required")
	}
	if in.Order != nil {
		c.Order = *in.Order
	} else {
		n, err := s.stores.Clues.Count(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "count clues")
		}
		c.Order = n + 1
	}
	url, err := storeOnly(ctx, s.storage, in.Image, "clue")
	if err != nil {
		return nil, err
	}
	c.ImageURL = url

	if err := s.stores.Clues.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create clue")
	}
	return c, nil
}

func (s *ClueService) Update(ctx context.Context, id primitive.ObjectID, patch store.ContentPatch, image *media.Upload) (*models.Clue, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ValidationError("title", "title cannot be empty")
	}
	if image != nil {
		url, err := storeOnly(ctx, s.storage, image, "clue")
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &url
	}
	c, err := s.stores.Clues.Update(ctx, id, patch)
	return c, lookup(err, ErrClueNotFound, "update clue")
}

func (s *ClueService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return lookup(s.stores.Clues.Delete(ctx, id), ErrClueNotFound, "delete clue")
}

// teamOf loads the viewer's team, or nil for anonymous or teamless viewers.
func teamOf(ctx context.Context, stores Stores, viewer *models.User) (*models.Team, error) {
	if viewer == nil || viewer.Team == nil {
		return nil, nil
	}
	team, err := stores.Teams.Get(ctx, *viewer.Team)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load team")
	}
	return team, nil
}
