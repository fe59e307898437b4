package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store/inmem"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	stores service.Stores
	svc    *service.Services
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	storage, err := media.NewLocalStorage(t.TempDir(), "/uploads", logger.Discard())
	require.NoError(t, err)

	f := &fixture{
		ctx:    context.Background(),
		stores: inmem.NewDB().Stores(),
		tokens: auth.NewTokenManager("test-secret", time.Hour),
	}
	f.svc = service.New(service.Deps{
		Stores:        f.stores,
		Media:         storage,
		Tokens:        f.tokens,
		Log:           logger.Discard(),
		PublicBaseURL: "https://hunt.example",
	})
	return f
}

func (f *fixture) team(t *testing.T, name string) *models.Team {
	t.Helper()
	team, err := f.svc.Teams.Create(f.ctx, name, models.ColourScheme{Primary: "#112233"})
	require.NoError(t, err)
	return team
}

// player creates a player directly in the store, optionally on team.
func (f *fixture) player(t *testing.T, first string, team *models.Team) *models.User {
	t.Helper()
	u := &models.User{
		Name:              first + " Tester",
		FirstName:         first,
		LastName:          "Tester",
		NotificationPrefs: models.DefaultNotificationPrefs(),
	}
	if team != nil {
		id := team.ID
		u.Team = &id
	}
	require.NoError(t, f.stores.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) reloadTeam(t *testing.T, team *models.Team) *models.Team {
	t.Helper()
	got, err := f.stores.Teams.Get(f.ctx, team.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) notificationsFor(t *testing.T, u *models.User) []models.Notification {
	t.Helper()
	ns, err := f.stores.Notifications.ListForUser(f.ctx, u.ID, 0)
	require.NoError(t, err)
	return ns
}

func pngUpload(t *testing.T) *media.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	up, err := media.NewUpload("proof.png", "image/png", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return up
}

func requireKind(t *testing.T, want service.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, service.KindOf(err), "unexpected error: %v", err)
}
