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

func (f *fixture) media(t *testing.T, by *models.User) *models.Media {
	t.Helper()
	m := &models.Media{URL: "/uploads/x.png", UploadedBy: models.UserPrincipal(by.ID), Team: by.Team, Type: models.MediaTypeOther}
	require.NoError(t, f.stores.Media.Create(f.ctx, m))
	return m
}

func TestReactTwiceReplacesEmoji(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "Ann", f.team(t, "Owls"))
	m := f.media(t, p)

	_, err := f.svc.Gallery.React(f.ctx, m.ID, p, "👍")
	require.NoError(t, err)
	_, err = f.svc.Gallery.React(f.ctx, m.ID, p, "😂")
	require.NoError(t, err)

	rs, err := f.svc.Gallery.Reactions(f.ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "😂", rs[0].Emoji)
}

func TestGalleryBestCountsReactions(t *testing.T) {
	f := newFixture(t)
	owl := f.player(t, "Ann", f.team(t, "Owls"))
	fox := f.player(t, "Fay", f.team(t, "Foxes"))

	popular := f.media(t, owl)
	quiet := f.media(t, fox)

	_, err := f.svc.Gallery.React(f.ctx, popular.ID, owl, "🔥")
	require.NoError(t, err)
	_, err = f.svc.Gallery.React(f.ctx, popular.ID, fox, "👍")
	require.NoError(t, err)

	items, err := f.svc.Gallery.List(f.ctx, service.SortBest, owl)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, popular.ID, items[0].ID)
	assert.Equal(t, 2, items[0].TotalReactions)
	assert.Equal(t, map[string]int{"🔥": 1, "👍": 1}, items[0].EmojiCounts)
	assert.Equal(t, "🔥", items[0].MyReaction)

	assert.Equal(t, quiet.ID, items[1].ID)
	assert.Zero(t, items[1].TotalReactions)
	assert.Empty(t, items[1].EmojiCounts)
}

func TestSortGallery(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	item := func(name string, age time.Duration, total int) service.GalleryItem {
		return service.GalleryItem{
			Media:          models.Media{ID: primitive.NewObjectID(), Tag: name, CreatedAt: now.Add(-age)},
			TotalReactions: total,
		}
	}
	tags := func(items []service.GalleryItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Tag)
		}
		return out
	}

	items := []service.GalleryItem{item("old-loved", 48*time.Hour, 9), item("new", time.Minute, 0), item("mid", time.Hour, 3)}

	service.SortGallery(items, service.SortNewest)
	assert.Equal(t, []string{"new", "mid", "old-loved"}, tags(items))

	service.SortGallery(items, service.SortBest)
	assert.Equal(t, []string{"old-loved", "mid", "new"}, tags(items))

	service.SortGallery(items, "bogus")
	assert.Equal(t, []string{"new", "mid", "old-loved"}, tags(items))
}

func TestGalleryHottestUsesRecentReactions(t *testing.T) {
	f := newFixture(t)
	owl := f.player(t, "Ann", f.team(t, "Owls"))
	fox := f.player(t, "Fay", f.team(t, "Foxes"))
	older := f.media(t, owl)
	newer := f.media(t, fox)

	_, err := f.svc.Gallery.React(f.ctx, older.ID, fox, "🔥")
	require.NoError(t, err)

	items, err := f.svc.Gallery.List(f.ctx, service.SortHottest, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ID)
	assert.Equal(t, newer.ID, items[1].ID)
}

func TestHiddenMediaLeavesGallery(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "Ann", f.team(t, "Owls"))
	m := f.media(t, p)

	_, err := f.svc.Gallery.SetHidden(f.ctx, m.ID, true)
	require.NoError(t, err)

	items, err := f.svc.Gallery.List(f.ctx, service.SortNewest, p)
	require.NoError(t, err)
	assert.Empty(t, items)

	all, err := f.svc.Gallery.ListAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.Gallery.React(f.ctx, m.ID, p, "👍")
	assert.Equal(t, service.ErrMediaNotFound, err)

	require.NoError(t, f.svc.Gallery.Delete(f.ctx, m.ID))
	_, err = f.svc.Gallery.Reactions(f.ctx, m.ID)
	assert.Equal(t, service.ErrMediaNotFound, err)
}
