package service_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Auth.Register(f.ctx, service.RegisterInput{Name: "ann", Password: "secret1", Email: "ann@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.True(t, res.User.NotificationPrefs.Wants(models.NotifyScans))

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, res.User.ID.Hex(), claims.Subject)

	_, err = f.svc.Auth.Register(f.ctx, service.RegisterInput{Name: "ANN", Password: "another"})
	assert.Equal(t, service.ErrNameTaken, err)
	_, err = f.svc.Auth.Register(f.ctx, service.RegisterInput{Name: "bob", Password: "123"})
	requireKind(t, service.KindBadRequest, err)

	_, err = f.svc.Auth.Login(f.ctx, "ann", "secret1")
	require.NoError(t, err)
	_, err = f.svc.Auth.Login(f.ctx, "ann", "wrong")
	assert.Equal(t, service.ErrInvalidCredentials, err)
	_, err = f.svc.Auth.Login(f.ctx, "nobody", "secret1")
	assert.Equal(t, service.ErrInvalidCredentials, err)
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.CreateAdmin(f.ctx, "gm", "long-enough")
	require.NoError(t, err)
	_, err = f.svc.Auth.CreateAdmin(f.ctx, "gm", "long-enough")
	assert.Equal(t, service.ErrUsernameTaken, err)

	res, err := f.svc.Auth.AdminLogin(f.ctx, "gm", "long-enough")
	require.NoError(t, err)
	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	_, err = f.svc.Auth.AdminLogin(f.ctx, "gm", "nope")
	assert.Equal(t, service.ErrInvalidCredentials, err)
}

func TestOnboardCreatesAndJoinsTeams(t *testing.T) {
	f := newFixture(t)

	leader, err := f.svc.Onboard.Onboard(f.ctx, service.OnboardInput{
		FirstName: "Lena", LastName: "Stone", IsNewTeam: true, TeamName: "Rockets",
		Selfie: pngUpload(t), TeamPhoto: pngUpload(t),
	})
	require.NoError(t, err)
	assert.True(t, leader.User.IsAdmin)
	assert.NotEmpty(t, leader.User.PhotoURL)
	assert.NotEmpty(t, leader.Team.PhotoURL)
	require.Len(t, leader.Team.Members, 1)
	assert.Equal(t, "Lena Stone", leader.Team.Members[0].Name)

	claims, err := f.tokens.Parse(leader.Token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin, "team leaders are not game admins")
	assert.Equal(t, leader.Team.ID.Hex(), claims.Team)

	byName, err := f.svc.Onboard.Onboard(f.ctx, service.OnboardInput{FirstName: "Max", LastName: "Moe", TeamName: "rockets"})
	require.NoError(t, err)
	assert.False(t, byName.User.IsAdmin)
	assert.Equal(t, leader.Team.ID, byName.Team.ID)

	byLeader, err := f.svc.Onboard.Onboard(f.ctx, service.OnboardInput{FirstName: "Ida", LastName: "Ray", LeaderLastName: "stone"})
	require.NoError(t, err)
	assert.Equal(t, leader.Team.ID, byLeader.Team.ID)
	assert.Len(t, byLeader.Team.Members, 3)

	_, err = f.svc.Onboard.Onboard(f.ctx, service.OnboardInput{FirstName: "Zed", LastName: "Z", IsNewTeam: true, TeamName: "Rockets"})
	assert.Equal(t, service.ErrTeamNameTaken, err)
	_, err = f.svc.Onboard.Onboard(f.ctx, service.OnboardInput{FirstName: "Zed", LastName: "Z", LeaderLastName: "Moe"})
	assert.Equal(t, service.ErrTeamNotFound, err, "Moe is not a leader")

	teams, err := f.svc.Onboard.ListTeams(f.ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, 3, teams[0].MemberCount)

	gallery, err := f.svc.Gallery.ListAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, gallery, 2)
}

func TestTeamPermissions(t *testing.T) {
	f := newFixture(t)
	owls, foxes := f.team(t, "Owls"), f.team(t, "Foxes")
	member := f.player(t, "Ann", owls)
	outsider := f.player(t, "Fay", foxes)
	leader := f.player(t, "Lee", owls)
	yes := true
	leader, err := f.svc.Users.Update(f.ctx, leader.ID, store.UserPatch{IsAdmin: &yes})
	require.NoError(t, err)

	_, err = f.svc.Teams.SetColour(f.ctx, owls.ID, outsider, models.ColourScheme{Primary: "#fff"})
	assert.Equal(t, service.ErrNotTeamMember, err)
	team, err := f.svc.Teams.SetColour(f.ctx, owls.ID, member, models.ColourScheme{Primary: "#fff", Secondary: "#000"})
	require.NoError(t, err)
	assert.Equal(t, "#fff", team.ColourScheme.Primary)

	_, err = f.svc.Teams.AddMember(f.ctx, owls.ID, member, "Kid", nil)
	assert.Equal(t, service.ErrNotTeamLeader, err)
	team, err = f.svc.Teams.AddMember(f.ctx, owls.ID, leader, "Kid", pngUpload(t))
	require.NoError(t, err)
	require.Len(t, team.Members, 1)
	assert.NotEmpty(t, team.Members[0].AvatarURL)

	detail, err := f.svc.Teams.Get(f.ctx, owls.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Players, 2)

	require.NoError(t, f.svc.Teams.Delete(f.ctx, owls.ID))
	me, err := f.svc.Users.Me(f.ctx, leader.ID)
	require.NoError(t, err)
	assert.Nil(t, me.Team)
	assert.False(t, me.IsAdmin)
}

func TestSettingsUpdate(t *testing.T) {
	f := newFixture(t)
	title := "Summer Hunt"
	base := "https://play.example/"
	st, err := f.svc.Settings.Update(f.ctx, service.SettingsUpdate{
		GameTitle: &title,
		QRBaseURL: &base,
		Scoring:   &models.ScoreWeights{CorrectAnswer: 3, SideQuestCompleted: 2, SideQuestCreated: 1},
		Logo:      pngUpload(t),
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer Hunt", st.GameTitle)
	assert.Equal(t, "https://play.example", st.QRBaseURL)
	assert.NotEmpty(t, st.LogoURL)

	board, err := f.svc.Scoreboard.GetScoreboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, board.Weights.CorrectAnswer)

	_, err = f.svc.Settings.Update(f.ctx, service.SettingsUpdate{Scoring: &models.ScoreWeights{CorrectAnswer: -1}})
	requireKind(t, service.KindBadRequest, err)
}

func TestMasterReset(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	p := f.player(t, "Ann", team)
	_, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "c"})
	require.NoError(t, err)
	_, err = f.svc.Notifications.Broadcast(f.ctx, "hi", "")
	require.NoError(t, err)
	cat, err := f.svc.Kudos.Create(f.ctx, "Best", "", true)
	require.NoError(t, err)
	other := f.player(t, "Bea", team)
	_, err = f.svc.Kudos.Vote(f.ctx, cat.ID, p, other.ID)
	require.NoError(t, err)
	title := "Kept"
	_, err = f.svc.Settings.Update(f.ctx, service.SettingsUpdate{GameTitle: &title})
	require.NoError(t, err)

	assert.Equal(t, service.ErrResetNotConfirmed, f.svc.Settings.MasterReset(f.ctx, "yes"))
	require.NoError(t, f.svc.Settings.MasterReset(f.ctx, service.ResetConfirmation))

	users, err := f.stores.Users.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	teams, err := f.stores.Teams.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)
	clues, err := f.stores.Clues.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, clues)
	assert.Empty(t, f.notificationsFor(t, p))
	votes, err := f.stores.Kudos.VotesBy(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)

	st, err := f.svc.Settings.Get(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kept", st.GameTitle)
}

func TestQRCodesAreCachedPerBaseURL(t *testing.T) {
	f := newFixture(t)
	clue, err := f.svc.Clues.Create(f.ctx, service.ContentInput{Title: "c"})
	require.NoError(t, err)

	code, err := f.svc.QR.Clue(f.ctx, clue.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://hunt.example/clue/"+clue.ID.Hex(), code.URL)
	assert.True(t, strings.HasPrefix(code.DataURL, "data:image/png;base64,"))

	stored, err := f.stores.Clues.Get(f.ctx, clue.ID)
	require.NoError(t, err)
	assert.Equal(t, code.DataURL, stored.QRCodeData)
	assert.Equal(t, "https://hunt.example", stored.QRBaseURL)

	base := "https://other.example"
	_, err = f.svc.Settings.Update(f.ctx, service.SettingsUpdate{QRBaseURL: &base})
	require.NoError(t, err)
	again, err := f.svc.QR.Clue(f.ctx, clue.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/clue/"+clue.ID.Hex(), again.URL)
	assert.NotEqual(t, code.DataURL, again.DataURL)

	p := f.player(t, "Ann", nil)
	pc, err := f.svc.QR.Player(f.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, bytes.Contains([]byte(pc.URL), []byte("/player/")))
}

func TestGameWindowValidation(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, err := f.svc.Games.Create(f.ctx, &models.Game{Title: "Backwards", StartsAt: &start, EndsAt: &end})
	requireKind(t, service.KindBadRequest, err)

	g, err := f.svc.Games.Create(f.ctx, &models.Game{Title: "Summer", StartsAt: &start})
	require.NoError(t, err)
	_, err = f.svc.Games.Update(f.ctx, g.ID, store.GamePatch{EndsAt: &end})
	requireKind(t, service.KindBadRequest, err)

	later := start.Add(8 * time.Hour)
	updated, err := f.svc.Games.Update(f.ctx, g.ID, store.GamePatch{EndsAt: &later})
	require.NoError(t, err)
	assert.True(t, later.Equal(*updated.EndsAt))
}
