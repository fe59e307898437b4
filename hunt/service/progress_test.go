package service_test

import (
	"testing"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildItemProgressSideQuestStatus(t *testing.T) {
	team := models.Team{ID: primitive.NewObjectID(), Name: "Owls"}
	other := models.Team{ID: primitive.NewObjectID(), Name: "Foxes"}
	ann := models.User{ID: primitive.NewObjectID(), FirstName: "Ann", LastName: "Lee", Team: &team.ID}
	bob := models.User{ID: primitive.NewObjectID(), Name: "bob", Team: &other.ID}

	untouched := primitive.NewObjectID()
	seen := primitive.NewObjectID()
	solved := primitive.NewObjectID()

	scan := func(u models.User, item primitive.ObjectID, status string) models.Scan {
		return models.Scan{User: u.ID, Team: u.Team, ItemType: models.ItemSideQuest, ItemID: item, Status: status}
	}
	tests := []struct {
		name  string
		item  primitive.ObjectID
		scans []models.Scan
		want  string
	}{
		{"no team scans", untouched, []models.Scan{scan(bob, untouched, models.ScanSolved)}, service.StatusNew},
		{"only NEW scans", seen, []models.Scan{scan(ann, seen, models.ScanNew), scan(ann, seen, models.ScanNew)}, service.StatusIncomplete},
		{"SOLVED scan", solved, []models.Scan{scan(ann, solved, models.ScanNew), scan(ann, solved, models.ScanSolved)}, service.StatusDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.BuildItemProgress(service.ProgressInput{
				ItemType:      models.ItemSideQuest,
				Items:         []service.ProgressItem{{ID: tt.item, Title: "quest"}},
				Scans:         tt.scans,
				Users:         []models.User{ann, bob},
				Teams:         []models.Team{team, other},
				RequesterTeam: &team.ID,
			})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Status)
		})
	}
}

func TestBuildItemProgressScanners(t *testing.T) {
	team := models.Team{ID: primitive.NewObjectID(), Name: "Owls"}
	ann := models.User{ID: primitive.NewObjectID(), FirstName: "Ann", LastName: "Lee", Team: &team.ID}
	cat := models.User{ID: primitive.NewObjectID(), Name: "cat", Team: &team.ID}
	ghost := primitive.NewObjectID()
	clue := primitive.NewObjectID()

	got := service.BuildItemProgress(service.ProgressInput{
		ItemType: models.ItemClue,
		Items:    []service.ProgressItem{{ID: clue, Title: "First"}, {ID: primitive.NewObjectID(), Title: "Second"}},
		Scans: []models.Scan{
			{User: ann.ID, Team: &team.ID, ItemID: clue, Status: models.ScanNew},
			{User: cat.ID, Team: &team.ID, ItemID: clue, Status: models.ScanIncorrect},
			{User: ann.ID, Team: &team.ID, ItemID: clue, Status: models.ScanSolved},
			{User: ghost, Team: &team.ID, ItemID: clue, Status: models.ScanNew},
		},
		Users:         []models.User{ann, cat},
		Teams:         []models.Team{team},
		RequesterTeam: &team.ID,
	})

	require.Len(t, got, 2)
	assert.Equal(t, models.ScanNew, got[0].Status, "latest team scan wins, even from a deleted player")
	assert.Equal(t, "Ann Lee", got[0].ScannedBy)
	assert.Equal(t, "Ann Lee", got[0].LastScannedBy, "deleted players are skipped")
	assert.Equal(t, 2, got[0].TotalScans)
	assert.Equal(t, service.StatusNotFound, got[1].Status)
	assert.Zero(t, got[1].TotalScans)
}

func TestBuildItemProgressSideQuestDetails(t *testing.T) {
	mine := models.Team{ID: primitive.NewObjectID(), Name: "Owls"}
	theirs := models.Team{ID: primitive.NewObjectID(), Name: "Foxes"}
	me := models.User{ID: primitive.NewObjectID(), Name: "me", Team: &mine.ID}
	author := models.User{ID: primitive.NewObjectID(), FirstName: "Fay", LastName: "Fox", Team: &theirs.ID}

	playerQuest := primitive.NewObjectID()
	adminQuest := primitive.NewObjectID()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mine.SideQuestProgress = []models.SideQuestProgress{{SideQuest: playerQuest, CompletedAt: at, CompletedBy: &me.ID}}

	byAuthor := models.UserPrincipal(author.ID)
	byAdmin := models.AdminPrincipal(primitive.NewObjectID())
	got := service.BuildItemProgress(service.ProgressInput{
		ItemType: models.ItemSideQuest,
		Items: []service.ProgressItem{
			{ID: playerQuest, Title: "Selfie", QuestType: models.QuestPhoto, CreatedBy: &byAuthor},
			{ID: adminQuest, Title: "Race", QuestType: models.QuestRace, CreatedBy: &byAdmin},
		},
		Users:         []models.User{me, author},
		Teams:         []models.Team{mine, theirs},
		RequesterTeam: &mine.ID,
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Fay Fox", got[0].SetBy)
	assert.Equal(t, "Foxes", got[0].SetByTeam)
	require.NotNil(t, got[0].CompletedAt)
	assert.True(t, at.Equal(*got[0].CompletedAt))
	assert.Equal(t, "me", got[0].CompletedBy)
	assert.Equal(t, models.QuestPhoto, got[0].QuestType)

	assert.Equal(t, "Game Master", got[1].SetBy)
	assert.Nil(t, got[1].CompletedAt)
}

func TestGetItemScanStatsRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Progress.GetItemScanStats(f.ctx, "treasure", nil)
	requireKind(t, service.KindBadRequest, err)
}

func TestGetItemScanStatsAfterSolve(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	q, err := f.svc.SideQuests.Create(f.ctx, models.AdminPrincipal(primitive.NewObjectID()), service.SideQuestInput{
		Title: "Meet a stranger", QuestType: models.QuestMeetup,
	})
	require.NoError(t, err)

	_, err = f.svc.SideQuests.Get(f.ctx, q.ID, p)
	require.NoError(t, err)
	rows, err := f.svc.Progress.GetItemScanStats(f.ctx, "sidequest", p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, service.StatusIncomplete, rows[0].Status)

	_, err = f.svc.SideQuests.SubmitProof(f.ctx, q.ID, p, service.SubmitProofInput{})
	require.NoError(t, err)
	rows, err = f.svc.Progress.GetItemScanStats(f.ctx, "sidequest", p)
	require.NoError(t, err)
	assert.Equal(t, service.StatusDone, rows[0].Status)
	assert.Equal(t, "Ann Tester", rows[0].CompletedBy)
}
