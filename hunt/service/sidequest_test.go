package service_test

import (
	"sync"
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var gameMaster = models.AdminPrincipal(primitive.NewObjectID())

func TestSubmitProofTwiceKeepsOneEntry(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	q, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{Title: "High five", QuestType: models.QuestMeetup})
	require.NoError(t, err)

	res, err := f.svc.SideQuests.SubmitProof(f.ctx, q.ID, p, service.SubmitProofInput{})
	require.NoError(t, err)
	assert.True(t, res.Completed)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, p, service.SubmitProofInput{})
	requireKind(t, service.KindBadRequest, err)
	assert.Equal(t, service.ErrAlreadyCompleted, err)

	assert.Len(t, f.reloadTeam(t, team).SideQuestProgress, 1)
}

func TestConcurrentCompletionFirstWriteWins(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	q, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{Title: "Race", QuestType: models.QuestRace})
	require.NoError(t, err)

	var players []*models.User
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		players = append(players, f.player(t, name, team))
	}

	var mu sync.Mutex
	wins := 0
	var wg sync.WaitGroup
	for _, p := range players {
		wg.Add(1)
		go func(p *models.User) {
			defer wg.Done()
			ok, err := f.svc.SideQuests.TryCompleteSideQuest(f.ctx, p, q, service.Evidence{})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Len(t, f.reloadTeam(t, team).SideQuestProgress, 1)
}

func TestSubmitProofAnswerMatching(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)

	passcode, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Secret", QuestType: models.QuestPasscode, Passcode: "paris",
	})
	require.NoError(t, err)
	trivia, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Capital", QuestType: models.QuestTrivia, Options: []string{"Paris", "Lyon"}, CorrectOption: "paris",
	})
	require.NoError(t, err)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, passcode.ID, p, service.SubmitProofInput{Passcode: "london"})
	assert.Equal(t, service.ErrIncorrectPasscode, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, trivia.ID, p, service.SubmitProofInput{Answer: "Lyon"})
	assert.Equal(t, service.ErrIncorrectAnswer, err)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, passcode.ID, p, service.SubmitProofInput{Passcode: " Paris "})
	require.NoError(t, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, trivia.ID, p, service.SubmitProofInput{Answer: " Paris "})
	require.NoError(t, err)

	assert.Len(t, f.reloadTeam(t, team).SideQuestProgress, 2)
}

func TestSubmitProofRequiredMedia(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)

	photo, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Statue selfie", QuestType: models.QuestPhoto, RequiredMediaType: models.MediaPhoto,
	})
	require.NoError(t, err)
	video, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Dance", QuestType: models.QuestPhoto, RequiredMediaType: models.MediaVideo,
	})
	require.NoError(t, err)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, photo.ID, p, service.SubmitProofInput{})
	assert.Equal(t, service.ErrProofRequired, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, video.ID, p, service.SubmitProofInput{File: pngUpload(t)})
	assert.Equal(t, service.ErrMediaMismatch, err)

	res, err := f.svc.SideQuests.SubmitProof(f.ctx, photo.ID, p, service.SubmitProofInput{File: pngUpload(t)})
	require.NoError(t, err)
	require.NotNil(t, res.Media)
	assert.Equal(t, "submission", res.Media.Tag)
	assert.Equal(t, models.MediaTypeSideQuest, res.Media.Type)
	assert.Equal(t, models.UserPrincipal(p.ID), res.Media.UploadedBy)

	entry := f.reloadTeam(t, team).SideQuestEntry(photo.ID)
	require.NotNil(t, entry)
	require.NotNil(t, entry.Media)
	assert.Equal(t, res.Media.ID, *entry.Media)
}

func TestSubmitProofPreconditions(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	loner := f.player(t, "Solo", nil)
	inactive := false
	q, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{Title: "Later", QuestType: models.QuestRace, Active: &inactive})
	require.NoError(t, err)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, loner, service.SubmitProofInput{})
	assert.Equal(t, service.ErrNoTeam, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, p, service.SubmitProofInput{})
	assert.Equal(t, service.ErrQuestInactive, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, primitive.NewObjectID(), p, service.SubmitProofInput{})
	requireKind(t, service.KindNotFound, err)
}

func TestCompletionNotifiesCreatorTeam(t *testing.T) {
	f := newFixture(t)
	owls, foxes := f.team(t, "Owls"), f.team(t, "Foxes")
	author := f.player(t, "Fay", foxes)
	teammate := f.player(t, "Finn", foxes)
	solver := f.player(t, "Ann", owls)

	q, err := f.svc.SideQuests.Create(f.ctx, models.UserPrincipal(author.ID), service.SideQuestInput{Title: "Find our flag", QuestType: models.QuestMeetup})
	require.NoError(t, err)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, solver, service.SubmitProofInput{})
	require.NoError(t, err)

	for _, u := range []*models.User{author, teammate} {
		ns := f.notificationsFor(t, u)
		require.Len(t, ns, 1, u.Name)
		assert.Equal(t, models.ActorTeam, ns[0].ActorModel)
		assert.Equal(t, owls.ID, *ns[0].Actor)
		assert.Equal(t, service.ItemLink(models.ItemSideQuest, q.ID), ns[0].Link)
	}

	// same-team completions stay quiet
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, teammate, service.SubmitProofInput{})
	require.NoError(t, err)
	assert.Len(t, f.notificationsFor(t, author), 2, "teammate scan notification only")
}

func TestPlayersEditOnlyTheirOwnQuests(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	author := f.player(t, "Ann", team)
	other := f.player(t, "Bob", team)
	q, err := f.svc.SideQuests.Create(f.ctx, models.UserPrincipal(author.ID), service.SideQuestInput{Title: "Mine", QuestType: models.QuestMeetup})
	require.NoError(t, err)

	title := "Renamed"
	_, err = f.svc.SideQuests.Update(f.ctx, models.UserPrincipal(other.ID), q.ID, store.SideQuestPatch{Title: &title}, nil)
	assert.Equal(t, service.ErrNotOwner, err)

	updated, err := f.svc.SideQuests.Update(f.ctx, models.UserPrincipal(author.ID), q.ID, store.SideQuestPatch{Title: &title}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = f.svc.SideQuests.Update(f.ctx, gameMaster, q.ID, store.SideQuestPatch{Title: &title}, nil)
	assert.NoError(t, err)
}

func TestSideQuestValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		in    service.SideQuestInput
		field string
	}{
		{"missing title", service.SideQuestInput{QuestType: models.QuestRace}, "title"},
		{"unknown type", service.SideQuestInput{Title: "x", QuestType: "heist"}, "questType"},
		{"passcode without code", service.SideQuestInput{Title: "x", QuestType: models.QuestPasscode}, "passcode"},
		{"trivia answer not an option", service.SideQuestInput{Title: "x", QuestType: models.QuestTrivia, Options: []string{"a", "b"}, CorrectOption: "c"}, "correctOption"},
		{"bonus without target", service.SideQuestInput{Title: "x", QuestType: models.QuestBonus}, "target"},
		{"bonus with missing target", service.SideQuestInput{Title: "x", QuestType: models.QuestBonus,
			Target: &models.Target{Type: models.TargetClue, ID: primitive.NewObjectID()}}, "target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SideQuests.Create(f.ctx, gameMaster, tt.in)
			requireKind(t, service.KindBadRequest, err)
			var e *service.Error
			require.ErrorAs(t, err, &e)
			assert.Contains(t, e.Fields, tt.field)
		})
	}
}

func TestSideQuestViewsHideSecrets(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	q, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{Title: "Secret", QuestType: models.QuestPasscode, Passcode: "open"})
	require.NoError(t, err)

	list, err := f.svc.SideQuests.List(f.ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Passcode)

	raw, err := f.svc.SideQuests.GetRaw(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", raw.Passcode)
}

func TestDeleteSideQuestRemovesProgress(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	q, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{Title: "Gone", QuestType: models.QuestMeetup})
	require.NoError(t, err)
	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, p, service.SubmitProofInput{})
	require.NoError(t, err)

	require.NoError(t, f.svc.SideQuests.Delete(f.ctx, q.ID))
	assert.Empty(t, f.reloadTeam(t, team).SideQuestProgress)
	assert.Equal(t, service.ErrSideQuestNotFound, f.svc.SideQuests.Delete(f.ctx, q.ID))
}
