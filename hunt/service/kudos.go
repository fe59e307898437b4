package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KudosView is a category with its leader's name and the viewer's vote.
type KudosView struct {
	models.KudosCategory
	LeaderName string              `json:"leaderName,omitempty"`
	MyVote     *primitive.ObjectID `json:"myVote,omitempty"`
}

type KudosService struct {
	stores   Stores
	notifier notify.Notifier
	log      *logger.Logger
}

func NewKudosService(stores Stores, notifier notify.Notifier, log *logger.Logger) *KudosService {
	return &KudosService{stores: stores, notifier: notifier, log: log}
}

// List returns active categories. viewer may be nil.
func (s *KudosService) List(ctx context.Context, viewer *models.User) ([]KudosView, error) {
	cats, err := s.stores.Kudos.ListCategories(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "list kudos categories")
	}
	return s.views(ctx, cats, viewer)
}

// ListAll is the admin view including inactive categories.
func (s *KudosService) ListAll(ctx context.Context) ([]KudosView, error) {
	cats, err := s.stores.Kudos.ListCategories(ctx, false)
	if err != nil {
		return nil, errors.Wrap(err, "list kudos categories")
	}
	return s.views(ctx, cats, nil)
}

func (s *KudosService) views(ctx context.Context, cats []models.KudosCategory, viewer *models.User) ([]KudosView, error) {
	var leaderIDs []primitive.ObjectID
	for _, c := range cats {
		if c.LeadingUser != nil {
			leaderIDs = append(leaderIDs, *c.LeadingUser)
		}
	}
	names := map[primitive.ObjectID]string{}
	if len(leaderIDs) > 0 {
		leaders, err := s.stores.Users.ListByIDs(ctx, leaderIDs)
		if err != nil {
			return nil, errors.Wrap(err, "load kudos leaders")
		}
		for i := range leaders {
			names[leaders[i].ID] = leaders[i].DisplayName()
		}
	}

	mine := map[primitive.ObjectID]primitive.ObjectID{}
	if viewer != nil {
		votes, err := s.stores.Kudos.VotesBy(ctx, viewer.ID)
		if err != nil {
			return nil, errors.Wrap(err, "load votes")
		}
		for _, v := range votes {
			mine[v.Category] = v.Nominee
		}
	}

	out := make([]KudosView, 0, len(cats))
	for _, c := range cats {
		v := KudosView{KudosCategory: c}
		if c.LeadingUser != nil {
			v.LeaderName = names[*c.LeadingUser]
		}
		if n, ok := mine[c.ID]; ok {
			n := n
			v.MyVote = &n
		}
		out = append(out, v)
	}
	return out, nil
}

// Vote records or replaces voter's nominee in the category and recomputes its leader.
func (s *KudosService) Vote(ctx context.Context, categoryID primitive.ObjectID, voter *models.User, nomineeID primitive.ObjectID) (*KudosView, error) {
	if nomineeID == voter.ID {
		return nil, ErrVoteForSelf
	}
	cat, err := s.stores.Kudos.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, lookup(err, ErrCategoryNotFound, "load kudos category")
	}
	if !cat.Active {
		return nil, badRequest("Voting in %q is closed", cat.Name)
	}
	nominee, err := s.stores.Users.Get(ctx, nomineeID)
	if err != nil {
		return nil, lookup(err, ErrUserNotFound, "load nominee")
	}

	previous, err := s.stores.Kudos.VoteOf(ctx, categoryID, voter.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "load previous vote")
	}
	if err := s.stores.Kudos.UpsertVote(ctx, categoryID, voter.ID, nomineeID); err != nil {
		return nil, errors.Wrap(err, "save vote")
	}

	leader, count, err := s.stores.Kudos.TallyVotes(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "tally votes")
	}
	if err := s.stores.Kudos.SetLeader(ctx, categoryID, leader, count); err != nil {
		return nil, lookup(err, ErrCategoryNotFound, "set kudos leader")
	}

	changed := previous == nil || previous.Nominee != nomineeID
	if changed && nominee.NotificationPrefs.Wants(models.NotifyKudos) {
		msg := notify.Message{
			Text: fmt.Sprintf("%s nominated you for %q", voter.DisplayName(), cat.Name),
			Link: "/kudos",
		}
		if err := s.notifier.NotifyUser(ctx, nominee.ID, notify.UserActor(voter.ID), msg); err != nil {
			s.log.Error("Failed to notify %s about kudos vote: %v", nominee.ID.Hex(), err)
		}
	}

	cat.LeadingUser, cat.LeadingCount = leader, count
	views, err := s.views(ctx, []models.KudosCategory{*cat}, voter)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *KudosService) Create(ctx context.Context, name, description string, active bool) (*models.KudosCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("name", "name is required")
	}
	c := &models.KudosCategory{Name: name, Description: strings.TrimSpace(description), Active: active}
	if err := s.stores.Kudos.CreateCategory(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create kudos category")
	}
	return c, nil
}

func (s *KudosService) Update(ctx context.Context, id primitive.ObjectID, patch store.KudosCategoryPatch) (*models.KudosCategory, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ValidationError("name", "name cannot be empty")
	}
	c, err := s.stores.Kudos.UpdateCategory(ctx, id, patch)
	return c, lookup(err, ErrCategoryNotFound, "update kudos category")
}

func (s *KudosService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return lookup(s.stores.Kudos.DeleteCategory(ctx, id), ErrCategoryNotFound, "delete kudos category")
}
