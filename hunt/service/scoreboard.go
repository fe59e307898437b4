package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreboardInput is everything BuildScoreboard reads.
type ScoreboardInput struct {
	Teams      []models.Team
	Questions  []models.Question
	SideQuests []models.SideQuest
	Users      []models.User
	Scans      []models.Scan // question and side quest scans
}

// BuildScoreboard scores and ranks every team. Ties are broken by team name so the
// order is total.
func BuildScoreboard(in ScoreboardInput, w models.ScoreWeights) []models.TeamScoreEntry {
	correct := make(map[primitive.ObjectID]string, len(in.Questions))
	for _, q := range in.Questions {
		correct[q.ID] = q.CorrectAnswer
	}
	userTeam := make(map[primitive.ObjectID]primitive.ObjectID, len(in.Users))
	for _, u := range in.Users {
		if u.Team != nil {
			userTeam[u.ID] = *u.Team
		}
	}
	created := make(map[primitive.ObjectID]int)
	for _, sq := range in.SideQuests {
		if !sq.CreatedBy.IsUser() {
			continue
		}
		if team, ok := userTeam[sq.CreatedBy.ID]; ok {
			created[team]++
		}
	}
	type found struct {
		questions, sideQuests map[primitive.ObjectID]struct{}
	}
	seen := make(map[primitive.ObjectID]*found)
	for _, s := range in.Scans {
		if s.Team == nil {
			continue
		}
		f := seen[*s.Team]
		if f == nil {
			f = &found{questions: map[primitive.ObjectID]struct{}{}, sideQuests: map[primitive.ObjectID]struct{}{}}
			seen[*s.Team] = f
		}
		switch s.ItemType {
		case models.ItemQuestion:
			f.questions[s.ItemID] = struct{}{}
		case models.ItemSideQuest:
			f.sideQuests[s.ItemID] = struct{}{}
		}
	}

	entries := make([]models.TeamScoreEntry, 0, len(in.Teams))
	for _, t := range in.Teams {
		e := models.TeamScoreEntry{
			TeamID:              t.ID,
			TeamName:            t.Name,
			PhotoURL:            t.PhotoURL,
			ColourScheme:        t.ColourScheme,
			PreviousRank:        t.LastRank,
			CluesCompleted:      len(t.CompletedClues),
			SideQuestsCompleted: len(t.SideQuestProgress),
			SideQuestsCreated:   created[t.ID],
		}
		for _, a := range t.QuestionAnswers {
			if expected, ok := correct[a.Question]; ok && models.AnswersMatch(a.Answer, expected) {
				e.CorrectAnswers++
			}
		}
		if f := seen[t.ID]; f != nil {
			e.QuestionsFound = len(f.questions)
			e.SideQuestsFound = len(f.sideQuests)
		}
		e.Score = w.CorrectAnswer*e.CorrectAnswers + w.SideQuestCompleted*e.SideQuestsCompleted + w.SideQuestCreated*e.SideQuestsCreated
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].TeamName != entries[j].TeamName {
			return entries[i].TeamName < entries[j].TeamName
		}
		return entries[i].TeamID.Hex() < entries[j].TeamID.Hex()
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ScoreboardService builds the scoreboard and persists rank changes.
type ScoreboardService struct {
	stores   Stores
	notifier notify.Notifier
	log      *logger.Logger
}

func NewScoreboardService(stores Stores, notifier notify.Notifier, log *logger.Logger) *ScoreboardService {
	return &ScoreboardService{stores: stores, notifier: notifier, log: log}
}

// GetScoreboard loads every input, ranks teams with the configured weights, stores
// changed ranks and notifies opted-in members. Any load or persist failure fails
// the whole call.
func (s *ScoreboardService) GetScoreboard(ctx context.Context) (*models.Scoreboard, error) {
	settings, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entries := BuildScoreboard(in, settings.Scoring)
	for _, e := range entries {
		if e.Rank == e.PreviousRank {
			continue
		}
		if err := s.stores.Teams.SetLastRank(ctx, e.TeamID, e.Rank); err != nil {
			return nil, errors.Wrapf(err, "store rank of team %s", e.TeamID.Hex())
		}
		s.notifyRankChange(ctx, in.Users, e)
	}
	return &models.Scoreboard{Teams: entries, Weights: settings.Scoring}, nil
}

func (s *ScoreboardService) load(ctx context.Context) (ScoreboardInput, error) {
	var in ScoreboardInput
	var err error
	if in.Teams, err = s.stores.Teams.List(ctx); err != nil {
		return in, errors.Wrap(err, "load teams")
	}
	if in.Questions, err = s.stores.Questions.List(ctx); err != nil {
		return in, errors.Wrap(err, "load questions")
	}
	if in.SideQuests, err = s.stores.SideQuests.List(ctx, store.SideQuestFilter{}); err != nil {
		return in, errors.Wrap(err, "load side quests")
	}
	if in.Users, err = s.stores.Users.List(ctx); err != nil {
		return in, errors.Wrap(err, "load players")
	}
	questionScans, err := s.stores.Scans.ListByItemType(ctx, models.ItemQuestion)
	if err != nil {
		return in, errors.Wrap(err, "load question scans")
	}
	questScans, err := s.stores.Scans.ListByItemType(ctx, models.ItemSideQuest)
	if err != nil {
		return in, errors.Wrap(err, "load side quest scans")
	}
	in.Scans = append(questionScans, questScans...)
	return in, nil
}

func (s *ScoreboardService) notifyRankChange(ctx context.Context, users []models.User, e models.TeamScoreEntry) {
	var members []models.User
	for _, u := range users {
		if u.OnTeam(e.TeamID) {
			members = append(members, u)
		}
	}
	recipients := optedIn(members, models.NotifyRank, primitive.NilObjectID)
	if len(recipients) == 0 {
		return
	}

	var text string
	switch {
	case e.PreviousRank == 0:
		text = fmt.Sprintf("%s entered the scoreboard at #%d", e.TeamName, e.Rank)
	case e.Rank > e.PreviousRank:
		text = fmt.Sprintf("%s dropped from #%d to #%d on the scoreboard", e.TeamName, e.PreviousRank, e.Rank)
	default:
		text = fmt.Sprintf("%s climbed from #%d to #%d on the scoreboard", e.TeamName, e.PreviousRank, e.Rank)
	}
	msg := notify.Message{Text: text, Link: "/scoreboard"}
	if err := s.notifier.NotifyUsers(ctx, recipients, notify.SystemActor(), msg); err != nil {
		s.log.Error("Failed to send rank change notification to team %s: %v", e.TeamID.Hex(), err)
	}
}
