package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SideQuestView is a player-safe side quest with the viewer team's completion.
type SideQuestView struct {
	models.SideQuest
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type SideQuestInput struct {
	Title             string
	Text              string
	QuestType         models.QuestType
	RequiredMediaType models.MediaKind
	Target            *models.Target
	Passcode          string
	Options           []string
	CorrectOption     string
	TimeLimitSeconds  int
	Active            *bool
	Image             *media.Upload
}

// SubmitProofInput is what a player sends to complete a quest.
type SubmitProofInput struct {
	Passcode string
	Answer   string
	File     *media.Upload
}

type SubmitProofResult struct {
	Completed   bool                `json:"completed"`
	CompletedAt time.Time           `json:"completedAt"`
	Media       *models.Media       `json:"media,omitempty"`
	SideQuest   primitive.ObjectID  `json:"sideQuest"`
	Team        *primitive.ObjectID `json:"team,omitempty"`
}

// Evidence is the optional proof attached to a completion.
type Evidence struct {
	Media *primitive.ObjectID
}

// SideQuestService owns side quest CRUD and the single completion primitive.
type SideQuestService struct {
	stores   Stores
	scans    *ScanService
	notifier notify.Notifier
	storage  media.Storage
	log      *logger.Logger
	now      func() time.Time
}

func NewSideQuestService(stores Stores, scans *ScanService, notifier notify.Notifier, storage media.Storage, log *logger.Logger, now func() time.Time) *SideQuestService {
	return &SideQuestService{stores: stores, scans: scans, notifier: notifier, storage: storage, log: log, now: now}
}

// List returns active quests, sanitized, with completion for the viewer's team.
func (s *SideQuestService) List(ctx context.Context, viewer *models.User) ([]SideQuestView, error) {
	quests, err := s.stores.SideQuests.List(ctx, store.SideQuestFilter{ActiveOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "list side quests")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	return views(quests, team), nil
}

// ListForTeam returns the quests created by members of teamID.
func (s *SideQuestService) ListForTeam(ctx context.Context, teamID primitive.ObjectID, viewer *models.User) ([]SideQuestView, error) {
	if _, err := s.stores.Teams.Get(ctx, teamID); err != nil {
		return nil, lookup(err, ErrTeamNotFound, "load team")
	}
	members, err := s.stores.Users.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "load team members")
	}
	if len(members) == 0 {
		return []SideQuestView{}, nil
	}
	ids := make([]primitive.ObjectID, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	quests, err := s.stores.SideQuests.List(ctx, store.SideQuestFilter{CreatedBy: ids})
	if err != nil {
		return nil, errors.Wrap(err, "list team side quests")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	return views(quests, team), nil
}

// ListAll is the admin view: every quest, unsanitized.
func (s *SideQuestService) ListAll(ctx context.Context) ([]models.SideQuest, error) {
	quests, err := s.stores.SideQuests.List(ctx, store.SideQuestFilter{})
	return quests, errors.Wrap(err, "list side quests")
}

// Get returns one quest for a player. Authenticated viewers record a scan.
func (s *SideQuestService) Get(ctx context.Context, id primitive.ObjectID, viewer *models.User) (*SideQuestView, error) {
	q, err := s.stores.SideQuests.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrSideQuestNotFound, "load side quest")
	}
	team, err := teamOf(ctx, s.stores, viewer)
	if err != nil {
		return nil, err
	}
	v := views([]models.SideQuest{*q}, team)[0]
	if viewer != nil && !v.Completed {
		s.scans.RecordScan(ctx, models.ItemSideQuest, q.ID, viewer, models.ScanNew, q.Title)
	}
	return &v, nil
}

// GetRaw returns the unsanitized quest for admins.
func (s *SideQuestService) GetRaw(ctx context.Context, id primitive.ObjectID) (*models.SideQuest, error) {
	q, err := s.stores.SideQuests.Get(ctx, id)
	return q, lookup(err, ErrSideQuestNotFound, "load side quest")
}

func views(quests []models.SideQuest, team *models.Team) []SideQuestView {
	out := make([]SideQuestView, 0, len(quests))
	for _, q := range quests {
		v := SideQuestView{SideQuest: q.Sanitized()}
		if team != nil {
			if entry := team.SideQuestEntry(q.ID); entry != nil {
				at := entry.CompletedAt
				v.Completed, v.CompletedAt = true, &at
			}
		}
		out = append(out, v)
	}
	return out
}

// Create adds a quest authored by by (a player or an admin).
func (s *SideQuestService) Create(ctx context.Context, by models.Principal, in SideQuestInput) (*models.SideQuest, error) {
	q := &models.SideQuest{
		Title:             strings.TrimSpace(in.Title),
		Text:              strings.TrimSpace(in.Text),
		QuestType:         in.QuestType,
		RequiredMediaType: in.RequiredMediaType,
		CreatedBy:         by,
		Target:            in.Target,
		Passcode:          strings.TrimSpace(in.Passcode),
		Options:           in.Options,
		CorrectOption:     strings.TrimSpace(in.CorrectOption),
		TimeLimitSeconds:  in.TimeLimitSeconds,
		Active:            true,
	}
	if in.Active != nil {
		q.Active = *in.Active
	}
	if err := s.validate(ctx, q); err != nil {
		return nil, err
	}

	url, err := storeOnly(ctx, s.storage, in.Image, "sidequest")
	if err != nil {
		return nil, err
	}
	q.ImageURL = url

	if err := s.stores.SideQuests.Create(ctx, q); err != nil {
		return nil, errors.Wrap(err, "create side quest")
	}
	return q, nil
}

// Update edits a quest. Players may only edit their own.
func (s *SideQuestService) Update(ctx context.Context, by models.Principal, id primitive.ObjectID, patch store.SideQuestPatch, image *media.Upload) (*models.SideQuest, error) {
	existing, err := s.stores.SideQuests.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrSideQuestNotFound, "load side quest")
	}
	if by.IsUser() && existing.CreatedBy != by {
		return nil, ErrNotOwner
	}

	merged := *existing
	patch.Apply(&merged)
	if merged.QuestType != models.QuestBonus && merged.Target != nil {
		patch.Target, patch.ClearTarget = nil, true
		merged.Target = nil
	}
	if err := s.validate(ctx, &merged); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := storeOnly(ctx, s.storage, image, "sidequest")
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &url
	}
	updated, err := s.stores.SideQuests.Update(ctx, id, patch)
	return updated, lookup(err, ErrSideQuestNotFound, "update side quest")
}

// Delete removes a quest and every team's progress on it.
func (s *SideQuestService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.stores.SideQuests.Delete(ctx, id); err != nil {
		return lookup(err, ErrSideQuestNotFound, "delete side quest")
	}
	return errors.Wrap(s.stores.Teams.RemoveSideQuestProgress(ctx, id), "remove side quest progress")
}

func (s *SideQuestService) validate(ctx context.Context, q *models.SideQuest) error {
	if q.Title == "" {
		return ValidationError("title", "title is required")
	}
	if !q.QuestType.Valid() {
		return ValidationError("questType", "questType must be one of bonus, meetup, photo, race, passcode, trivia")
	}
	if q.RequiredMediaType != "" && q.RequiredMediaType != models.MediaPhoto && q.RequiredMediaType != models.MediaVideo {
		return ValidationError("requiredMediaType", "requiredMediaType must be photo or video")
	}
	if q.TimeLimitSeconds < 0 {
		return ValidationError("timeLimitSeconds", "timeLimitSeconds cannot be negative")
	}

	switch q.QuestType {
	case models.QuestBonus:
		if q.Target == nil || !q.Target.Type.Valid() || q.Target.ID.IsZero() {
			return ValidationError("target", "bonus quests need a target clue, question or player")
		}
		if err := s.targetExists(ctx, *q.Target); err != nil {
			return err
		}
	case models.QuestPasscode:
		if strings.TrimSpace(q.Passcode) == "" {
			return ValidationError("passcode", "passcode quests need a passcode")
		}
	case models.QuestTrivia:
		if len(q.Options) < 2 {
			return ValidationError("options", "trivia quests need at least two options")
		}
		found := false
		for _, o := range q.Options {
			if models.AnswersMatch(o, q.CorrectOption) {
				found = true
				break
			}
		}
		if !found {
			return ValidationError("correctOption", "correctOption must be one of the options")
		}
	}
	if q.QuestType != models.QuestBonus {
		q.Target = nil
	}
	return nil
}

func (s *SideQuestService) targetExists(ctx context.Context, t models.Target) error {
	var err error
	switch t.Type {
	case models.TargetClue:
		_, err = s.stores.Clues.Get(ctx, t.ID)
	case models.TargetQuestion:
		_, err = s.stores.Questions.Get(ctx, t.ID)
	case models.TargetPlayer:
		_, err = s.stores.Users.Get(ctx, t.ID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return ValidationError("target", "bonus quest target does not exist")
	}
	return errors.Wrap(err, "load bonus target")
}

// SubmitProof validates a player's proof and completes the quest for their team.
func (s *SideQuestService) SubmitProof(ctx context.Context, id primitive.ObjectID, user *models.User, in SubmitProofInput) (*SubmitProofResult, error) {
	if user.Team == nil {
		return nil, ErrNoTeam
	}
	q, err := s.stores.SideQuests.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrSideQuestNotFound, "load side quest")
	}
	if !q.Active {
		return nil, ErrQuestInactive
	}
	team, err := s.stores.Teams.Get(ctx, *user.Team)
	if err != nil {
		return nil, lookup(err, ErrTeamNotFound, "load team")
	}
	if team.HasCompletedSideQuest(q.ID) {
		return nil, ErrAlreadyCompleted
	}

	switch q.QuestType {
	case models.QuestPasscode:
		if !models.AnswersMatch(in.Passcode, q.Passcode) {
			return nil, ErrIncorrectPasscode
		}
	case models.QuestTrivia:
		if !models.AnswersMatch(in.Answer, q.CorrectOption) {
			return nil, ErrIncorrectAnswer
		}
	}
	if q.RequiredMediaType != "" {
		if in.File == nil {
			return nil, ErrProofRequired
		}
		kind, err := in.File.Kind()
		if err != nil || kind != q.RequiredMediaType {
			return nil, ErrMediaMismatch
		}
	}

	row := models.Media{
		UploadedBy: models.UserPrincipal(user.ID),
		Team:       user.Team,
		SideQuest:  &q.ID,
		Type:       models.MediaTypeSideQuest,
		Tag:        "submission",
	}
	saved, err := saveUpload(ctx, s.stores, s.storage, in.File, "sidequest", row)
	if err != nil {
		return nil, err
	}
	var ev Evidence
	if saved != nil {
		ev.Media = &saved.ID
	}

	completedAt, ok, err := s.complete(ctx, user, q, ev)
	if err != nil {
		return nil, err
	}
	if !ok {
		// another submission from the team won the race
		return nil, ErrAlreadyCompleted
	}
	return &SubmitProofResult{Completed: true, CompletedAt: completedAt, Media: saved, SideQuest: q.ID, Team: user.Team}, nil
}

// TryCompleteSideQuest marks quest complete for user's team. It reports false when
// the team had already completed it. Both proof submission and bonus scans use it.
func (s *SideQuestService) TryCompleteSideQuest(ctx context.Context, user *models.User, quest *models.SideQuest, ev Evidence) (bool, error) {
	_, ok, err := s.complete(ctx, user, quest, ev)
	return ok, err
}

func (s *SideQuestService) complete(ctx context.Context, user *models.User, quest *models.SideQuest, ev Evidence) (time.Time, bool, error) {
	if user == nil || user.Team == nil {
		return time.Time{}, false, ErrNoTeam
	}
	now := s.now().UTC()
	scannedBy := user.ID
	progress := models.SideQuestProgress{
		SideQuest:   quest.ID,
		CompletedAt: now,
		CompletedBy: &scannedBy,
		Media:       ev.Media,
	}
	ok, err := s.stores.Teams.AddSideQuestProgress(ctx, *user.Team, progress)
	if err != nil {
		return time.Time{}, false, lookup(err, ErrTeamNotFound, "record side quest completion")
	}
	if !ok {
		return time.Time{}, false, nil
	}

	s.scans.RecordScan(ctx, models.ItemSideQuest, quest.ID, user, models.ScanSolved, quest.Title)
	s.notifyCreatorTeam(ctx, user, quest)
	return now, true, nil
}

// notifyCreatorTeam tells a player-creator's team that another team finished their quest.
func (s *SideQuestService) notifyCreatorTeam(ctx context.Context, user *models.User, quest *models.SideQuest) {
	if !quest.CreatedBy.IsUser() {
		return
	}
	creator, err := s.stores.Users.Get(ctx, quest.CreatedBy.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("Failed to load creator of side quest %s: %v", quest.ID.Hex(), err)
		}
		return
	}
	if creator.Team == nil || *creator.Team == *user.Team {
		return
	}

	members, err := s.stores.Users.ListByTeam(ctx, *creator.Team)
	if err != nil {
		s.log.Error("Failed to load members of team %s: %v", creator.Team.Hex(), err)
		return
	}
	recipients := optedIn(members, models.NotifySideQuests, primitive.NilObjectID)
	if len(recipients) == 0 {
		return
	}

	teamName := "Another team"
	if t, err := s.stores.Teams.Get(ctx, *user.Team); err == nil {
		teamName = t.Name
	}
	msg := notify.Message{
		Text: fmt.Sprintf("%s completed your side quest %q", teamName, quest.Title),
		Link: ItemLink(models.ItemSideQuest, quest.ID),
	}
	if err := s.notifier.NotifyUsers(ctx, recipients, notify.TeamActor(*user.Team), msg); err != nil {
		s.log.Error("Failed to notify creator team of side quest %s: %v", quest.ID.Hex(), err)
	}
}
