package service

import (
	"context"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionView is a sanitized question with the viewer team's stored answer.
type QuestionView struct {
	models.Question
	Answered bool   `json:"answered"`
	Answer   string `json:"answer,omitempty"`
}

type QuestionAnswerResult struct {
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

type QuestionService struct {
	stores  Stores
	scans   *ScanService
	bonus   *BonusService
	storage media.Storage
	now     func() time.Time
}

func NewQuestionService(stores Stores, scans *ScanService, bonus *BonusService, storage media.Storage, now func() time.Time) *QuestionService {
	return &QuestionService{stores: stores, scans: scans, bonus: bonus, storage: storage, now: now}
}

// Get returns a question for a player, recording the scan and checking bonus quests.
func (s *QuestionService) Get(ctx context.Context, id primitive.ObjectID, viewer *models.User) (*QuestionView, error) {
	q, err := s.stores.Questions.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrQuestionNotFound, "load question")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	v := &QuestionView{Question: q.Sanitized()}
	if team != nil {
		if a, ok := team.AnswerFor(q.ID); ok {
			v.Answered, v.Answer = true, a.Answer
		}
	}

	if viewer != nil {
		s.scans.RecordScan(ctx, models.ItemQuestion, q.ID, viewer, models.ScanNew, q.Title)
		s.bonus.CheckBonusQuests(ctx, viewer, models.TargetQuestion, q.ID)
	}
	return v, nil
}

// Answer stores the team's answer. The first answer is final.
func (s *QuestionService) Answer(ctx context.Context, id primitive.ObjectID, user *models.User, answer string) (*QuestionAnswerResult, error) {
	if user.Team == nil {
		return nil, ErrNoTeam
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ValidationError("answer", "answer is required")
	}
	q, err := s.stores.Questions.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrQuestionNotFound, "load question")
	}

	ok, err := s.stores.Teams.AddQuestionAnswer(ctx, *user.Team, models.QuestionAnswer{
		Question: q.ID,
		Answer:   answer,
		ChosenAt: s.now().UTC(),
	})
	if err != nil {
		return nil, lookup(err, ErrTeamNotFound, "store answer")
	}
	if !ok {
		return nil, ErrAlreadyAnswered
	}

	s.scans.RecordScan(ctx, models.ItemQuestion, q.ID, user, models.ScanAnswered, q.Title)
	return &QuestionAnswerResult{Correct: models.AnswersMatch(answer, q.CorrectAnswer), Answer: answer}, nil
}

func (s *QuestionService) ListAll(ctx context.Context) ([]models.Question, error) {
	qs, err := s.stores.Questions.List(ctx)
	return qs, errors.Wrap(err, "list questions")
}

func (s *QuestionService) GetRaw(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	q, err := s.stores.Questions.Get(ctx, id)
	return q, lookup(err, ErrQuestionNotFound, "load question")
}

func (s *QuestionService) Create(ctx context.Context, in ContentInput) (*models.Question, error) {
	q := &models.Question{
		Title:         strings.TrimSpace(in.Title),
		Text:          in.Text,
		Options:       in.Options,
		CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
	}
	if q.Title == "" {
		return nil, ValidationError("title", "title is required")
	}
	if q.CorrectAnswer == "" {
		return nil, ValidationError("correctAnswer", "correctAnswer is required")
	}
	url, err := storeOnly(ctx, s.storage, in.Image, "question")
	if err != nil {
		return nil, err
	}
	q.ImageURL = url

	if err := s.stores.Questions.Create(ctx, q); err != nil {
		return nil, errors.Wrap(err, "create question")
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, id primitive.ObjectID, patch store.ContentPatch, image *media.Upload) (*models.Question, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ValidationError("title", "title cannot be empty")
	}
	patch.Order = nil
	if image != nil {
		url, err := storeOnly(ctx, s.storage, image, "question")
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &url
	}
	q, err := s.stores.Questions.Update(ctx, id, patch)
	return q, lookup(err, ErrQuestionNotFound, "update question")
}

func (s *QuestionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return lookup(s.stores.Questions.Delete(ctx, id), ErrQuestionNotFound, "delete question")
}
