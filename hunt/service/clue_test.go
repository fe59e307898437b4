package service_test

import (
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClueAnswerAdvancesTeam(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Team A")
	p1 := f.player(t, "P1", team)
	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Sky", Text: "Look up", CorrectAnswer: "blue"})
	require.NoError(t, err)
	assert.Equal(t, 1, clue.Order)

	before := f.reloadTeam(t, team).CurrentClue

	res, err := f.svc.Clues.Answer(f.ctx, clue.ID, p1, "BLUE")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, before+1, res.NextClue)

	after := f.reloadTeam(t, team)
	assert.Equal(t, before+1, after.CurrentClue)
	assert.Equal(t, []primitive.ObjectID{clue.ID}, after.CompletedClues)

	// a repeat answer does not advance twice
	res, err = f.svc.Clues.Answer(f.ctx, clue.ID, p1, "blue")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, before+1, f.reloadTeam(t, team).CurrentClue)
}

func TestClueAnswerTrimsAndIgnoresCase(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Capital", CorrectAnswer: "paris"})
	require.NoError(t, err)

	res, err := f.svc.Clues.Answer(f.ctx, clue.ID, p, "London")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Empty(t, f.reloadTeam(t, team).CompletedClues)

	res, err = f.svc.Clues.Answer(f.ctx, clue.ID, p, " Paris ")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	scans, err := f.stores.Scans.ListByItemType(f.ctx, models.ItemClue)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, models.ScanIncorrect, scans[0].Status)
	assert.Equal(t, models.ScanSolved, scans[1].Status)
}

func TestClueGetRecordsScanAndHidesAnswer(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	mate := f.player(t, "Bea", team)
	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Tower", CorrectAnswer: "eiffel"})
	require.NoError(t, err)

	v, err := f.svc.Clues.Get(f.ctx, clue.ID, p)
	require.NoError(t, err)
	assert.Empty(t, v.CorrectAnswer)
	assert.False(t, v.Solved)

	ns := f.notificationsFor(t, mate)
	require.Len(t, ns, 1)
	assert.Equal(t, models.ActorUser, ns[0].ActorModel)
	assert.Equal(t, "/clue/"+clue.ID.Hex(), ns[0].Link)
	assert.Empty(t, f.notificationsFor(t, p), "the scanner is not notified")

	// anonymous views record nothing
	_, err = f.svc.Clues.Get(f.ctx, clue.ID, nil)
	require.NoError(t, err)
	scans, err := f.stores.Scans.ListByItemType(f.ctx, models.ItemClue)
	require.NoError(t, err)
	assert.Len(t, scans, 1)
}

func TestClueOrderDefaultsToNext(t *testing.T) {
	f := newFixture(t)
	order := 7
	_, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Seventh", Order: &order})
	require.NoError(t, err)
	second, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Next"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	list, err := f.svc.Clues.List(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Next", list[0].Title)
}

func TestQuestionAnswerIsFinal(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	ann := f.player(t, "Ann", team)
	bea := f.player(t, "Bea", team)
	q, err := f.svc.Questions.Create(f.ctx, service.ContentInput{Title: "Capital", Options: []string{"Paris", "Rome"}, CorrectAnswer: "paris"})
	require.NoError(t, err)

	res, err := f.svc.Questions.Answer(f.ctx, q.ID, ann, " Paris ")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "Paris", res.Answer)

	_, err = f.svc.Questions.Answer(f.ctx, q.ID, bea, "Rome")
	assert.Equal(t, service.ErrAlreadyAnswered, err)

	v, err := f.svc.Questions.Get(f.ctx, q.ID, bea)
	require.NoError(t, err)
	assert.True(t, v.Answered)
	assert.Equal(t, "Paris", v.Answer)
	assert.Empty(t, v.CorrectAnswer)
	assert.Len(t, f.reloadTeam(t, team).QuestionAnswers, 1)
}

func TestBonusQuestCompletesOnScan(t *testing.T) {
	f := newFixture(t)
	owls, foxes := f.team(t, "Owls"), f.team(t, "Foxes")
	scanner := f.player(t, "Ann", owls)
	target := f.player(t, "Fay", foxes)

	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Hidden", CorrectAnswer: "x"})
	require.NoError(t, err)
	question, err := f.svc.Questions.Create(f.ctx, service.ContentInput{Title: "Trivia", CorrectAnswer: "y"})
	require.NoError(t, err)

	clueBonus, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Find the hidden clue", QuestType: models.QuestBonus,
		Target: &models.Target{Type: models.TargetClue, ID: clue.ID},
	})
	require.NoError(t, err)
	questionBonus, err := f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Find the trivia", QuestType: models.QuestBonus,
		Target: &models.Target{Type: models.TargetQuestion, ID: question.ID},
	})
	require.NoError(t, err)
	playerBonus, err := f.svc.SideQuests.Create(f.ctx, models.UserPrincipal(target.ID), service.SideQuestInput{
		Title: "Find Fay", QuestType: models.QuestBonus,
		Target: &models.Target{Type: models.TargetPlayer, ID: target.ID},
	})
	require.NoError(t, err)

	_, err = f.svc.Clues.Get(f.ctx, clue.ID, scanner)
	require.NoError(t, err)
	_, err = f.svc.Questions.Get(f.ctx, question.ID, scanner)
	require.NoError(t, err)
	profile, err := f.svc.Users.GetProfile(f.ctx, target.ID, scanner)
	require.NoError(t, err)
	assert.Equal(t, "Foxes", profile.TeamName)

	team := f.reloadTeam(t, owls)
	for _, q := range []*models.SideQuest{clueBonus, questionBonus, playerBonus} {
		assert.True(t, team.HasCompletedSideQuest(q.ID), q.Title)
	}

	// scanning again is idempotent
	assert.Empty(t, f.svc.Bonus.CheckBonusQuests(f.ctx, scanner, models.TargetClue, clue.ID))
	assert.Len(t, f.reloadTeam(t, owls).SideQuestProgress, 3)

	// Fay's team heard about their quest
	ns := f.notificationsFor(t, target)
	require.NotEmpty(t, ns)
	assert.Equal(t, models.ActorTeam, ns[0].ActorModel)
}

func TestBonusQuestIgnoresMismatchedTargetType(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "Hidden"})
	require.NoError(t, err)
	_, err = f.svc.SideQuests.Create(f.ctx, gameMaster, service.SideQuestInput{
		Title: "Find it", QuestType: models.QuestBonus,
		Target: &models.Target{Type: models.TargetClue, ID: clue.ID},
	})
	require.NoError(t, err)

	assert.Empty(t, f.svc.Bonus.CheckBonusQuests(f.ctx, p, models.TargetQuestion, clue.ID))
	assert.Empty(t, f.svc.Bonus.CheckBonusQuests(f.ctx, nil, models.TargetClue, clue.ID))
	assert.Len(t, f.svc.Bonus.CheckBonusQuests(f.ctx, p, models.TargetClue, clue.ID), 1)
}
