package service_test

import (
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBroadcastReachesEveryPlayer(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	players := []*models.User{f.player(t, "Ann", team), f.player(t, "Bea", team), f.player(t, "Solo", nil)}

	// opting out of broadcasts does not skip an admin broadcast
	prefs := models.NotificationPrefs{}
	_, err := f.svc.Users.UpdateMe(f.ctx, players[2], service.UpdateMeInput{NotificationPrefs: &prefs})
	require.NoError(t, err)

	n, err := f.svc.Notifications.Broadcast(f.ctx, "Game starts now", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, p := range players {
		ns := f.notificationsFor(t, p)
		require.Len(t, ns, 1, p.Name)
		assert.Equal(t, "Game starts now", ns[0].Message)
		assert.Equal(t, models.ActorSystem, ns[0].ActorModel)
		assert.Nil(t, ns[0].Actor)
	}

	_, err = f.svc.Notifications.Broadcast(f.ctx, "   ", "")
	requireKind(t, service.KindBadRequest, err)
}

func TestMarkNotificationOwnerOnly(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	ann := f.player(t, "Ann", team)
	bea := f.player(t, "Bea", team)
	_, err := f.svc.Notifications.Broadcast(f.ctx, "hello", "/")
	require.NoError(t, err)

	mine, err := f.svc.Notifications.ListMine(f.ctx, ann)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = f.svc.Notifications.MarkRead(f.ctx, mine[0].ID, bea)
	assert.Equal(t, service.ErrNotification, err)

	n, err := f.svc.Notifications.MarkRead(f.ctx, mine[0].ID, ann)
	require.NoError(t, err)
	assert.True(t, n.Read)
	n, err = f.svc.Notifications.MarkViewed(f.ctx, mine[0].ID, ann)
	require.NoError(t, err)
	assert.True(t, n.Viewed)
}

func TestKudosVoteUpserts(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	voter := f.player(t, "Ann", team)
	first := f.player(t, "Bea", team)
	second := f.player(t, "Cal", team)

	cat, err := f.svc.Kudos.Create(f.ctx, "Best costume", "", true)
	require.NoError(t, err)

	v, err := f.svc.Kudos.Vote(f.ctx, cat.ID, voter, first.ID)
	require.NoError(t, err)
	require.NotNil(t, v.LeadingUser)
	assert.Equal(t, first.ID, *v.LeadingUser)
	assert.Equal(t, "Bea Tester", v.LeaderName)

	v, err = f.svc.Kudos.Vote(f.ctx, cat.ID, voter, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *v.LeadingUser)
	assert.Equal(t, 1, v.LeadingCount)
	require.NotNil(t, v.MyVote)
	assert.Equal(t, second.ID, *v.MyVote)

	votes, err := f.stores.Kudos.VotesBy(f.ctx, voter.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)

	// the nominee hears once per changed vote
	assert.Len(t, f.notificationsFor(t, first), 1)
	_, err = f.svc.Kudos.Vote(f.ctx, cat.ID, voter, second.ID)
	require.NoError(t, err)
	assert.Len(t, f.notificationsFor(t, second), 1)

	list, err := f.svc.Kudos.List(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].MyVote)
}

func TestKudosVoteRules(t *testing.T) {
	f := newFixture(t)
	team := f.team(t, "Owls")
	voter := f.player(t, "Ann", team)
	other := f.player(t, "Bea", team)
	open, err := f.svc.Kudos.Create(f.ctx, "Open", "", true)
	require.NoError(t, err)
	closed, err := f.svc.Kudos.Create(f.ctx, "Closed", "", false)
	require.NoError(t, err)

	_, err = f.svc.Kudos.Vote(f.ctx, open.ID, voter, voter.ID)
	assert.Equal(t, service.ErrVoteForSelf, err)
	_, err = f.svc.Kudos.Vote(f.ctx, closed.ID, voter, other.ID)
	requireKind(t, service.KindBadRequest, err)
	_, err = f.svc.Kudos.Vote(f.ctx, open.ID, voter, primitive.NewObjectID())
	assert.Equal(t, service.ErrUserNotFound, err)
	_, err = f.svc.Kudos.Vote(f.ctx, primitive.NewObjectID(), voter, other.ID)
	assert.Equal(t, service.ErrCategoryNotFound, err)
}

func TestWallPostNotifiesOwners(t *testing.T) {
	f := newFixture(t)
	owls, foxes := f.team(t, "Owls"), f.team(t, "Foxes")
	author := f.player(t, "Ann", owls)
	fay := f.player(t, "Fay", foxes)
	finn := f.player(t, "Finn", foxes)

	_, err := f.svc.Wall.Post(f.ctx, models.WallUser, fay.ID, author, "Nice hat", nil)
	require.NoError(t, err)
	assert.Len(t, f.notificationsFor(t, fay), 1)
	assert.Empty(t, f.notificationsFor(t, finn))

	post, err := f.svc.Wall.Post(f.ctx, models.WallTeam, foxes.ID, fay, "Go Foxes", pngUpload(t))
	require.NoError(t, err)
	assert.NotEmpty(t, post.ImageURL)
	assert.Equal(t, "Fay Tester", post.AuthorName)
	assert.Len(t, f.notificationsFor(t, finn), 1)
	assert.Len(t, f.notificationsFor(t, fay), 1, "authors are not notified about their own posts")

	posts, err := f.svc.Wall.List(f.ctx, models.WallTeam, foxes.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = f.svc.Wall.Post(f.ctx, models.WallUser, primitive.NewObjectID(), author, "hi", nil)
	assert.Equal(t, service.ErrUserNotFound, err)
	_, err = f.svc.Wall.Post(f.ctx, models.WallUser, fay.ID, author, " ", nil)
	requireKind(t, service.KindBadRequest, err)
	_, err = service.ParseWallTarget("planet")
	requireKind(t, service.KindBadRequest, err)
}
