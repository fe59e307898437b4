package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gallery sort orders.
const (
	SortNewest  = "newest"
	SortBest    = "best"
	SortHottest = "hottest"
)

// HotWindow is how far back reactions count towards "hottest".
const HotWindow = 6 * time.Hour

// GalleryItem is a media row with its reaction summary.
type GalleryItem struct {
	models.Media
	TotalReactions int            `json:"totalReactions"`
	EmojiCounts    map[string]int `json:"emojiCounts"`
	MyReaction     string         `json:"myReaction,omitempty"`
	recent         int
}

type GalleryService struct {
	stores Stores
	now    func() time.Time
}

func NewGalleryService(stores Stores, now func() time.Time) *GalleryService {
	return &GalleryService{stores: stores, now: now}
}

// List returns visible media in the requested order. Unknown orders fall back to newest.
func (s *GalleryService) List(ctx context.Context, order string, viewer *models.User) ([]GalleryItem, error) {
	return s.list(ctx, false, order, viewer)
}

// ListAll is the moderation view including hidden media, newest first.
func (s *GalleryService) ListAll(ctx context.Context) ([]GalleryItem, error) {
	return s.list(ctx, true, SortNewest, nil)
}

func (s *GalleryService) list(ctx context.Context, includeHidden bool, order string, viewer *models.User) ([]GalleryItem, error) {
	rows, err := s.stores.Media.List(ctx, includeHidden)
	if err != nil {
		return nil, errors.Wrap(err, "list media")
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var reactions []models.Reaction
	if len(ids) > 0 {
		if reactions, err = s.stores.Reactions.ListByMedia(ctx, ids...); err != nil {
			return nil, errors.Wrap(err, "list reactions")
		}
	}

	items := summarize(rows, reactions, viewer, s.now().Add(-HotWindow))
	SortGallery(items, order)
	return items, nil
}

func summarize(rows []models.Media, reactions []models.Reaction, viewer *models.User, hotSince time.Time) []GalleryItem {
	index := make(map[primitive.ObjectID]int, len(rows))
	items := make([]GalleryItem, len(rows))
	for i := range rows {
		items[i] = GalleryItem{Media: rows[i], EmojiCounts: map[string]int{}}
		index[rows[i].ID] = i
	}
	for _, r := range reactions {
		i, ok := index[r.Media]
		if !ok {
			continue
		}
		it := &items[i]
		it.TotalReactions++
		it.EmojiCounts[r.Emoji]++
		if reactedAt(r).After(hotSince) {
			it.recent++
		}
		if viewer != nil && r.User == viewer.ID {
			it.MyReaction = r.Emoji
		}
	}
	return items
}

func reactedAt(r models.Reaction) time.Time {
	if r.UpdatedAt.After(r.CreatedAt) {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// SortGallery orders items in place. Every order breaks ties by newest first.
func SortGallery(items []GalleryItem, order string) {
	newer := func(a, b *GalleryItem) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() > b.ID.Hex()
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		switch order {
		case SortBest:
			if a.TotalReactions != b.TotalReactions {
				return a.TotalReactions > b.TotalReactions
			}
		case SortHottest:
			if a.recent != b.recent {
				return a.recent > b.recent
			}
		}
		return newer(a, b)
	})
}

// React sets the viewer's single reaction on a media item, replacing any earlier emoji.
func (s *GalleryService) React(ctx context.Context, mediaID primitive.ObjectID, user *models.User, emoji string) (*models.Reaction, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, ValidationError("emoji", "emoji is required")
	}
	m, err := s.stores.Media.Get(ctx, mediaID)
	if err != nil {
		return nil, lookup(err, ErrMediaNotFound, "load media")
	}
	if m.Hidden {
		return nil, ErrMediaNotFound
	}
	r, err := s.stores.Reactions.Upsert(ctx, mediaID, user.ID, emoji)
	return r, errors.Wrap(err, "save reaction")
}

// Reactions lists every reaction on one media item.
func (s *GalleryService) Reactions(ctx context.Context, mediaID primitive.ObjectID) ([]models.Reaction, error) {
	if _, err := s.stores.Media.Get(ctx, mediaID); err != nil {
		return nil, lookup(err, ErrMediaNotFound, "load media")
	}
	rs, err := s.stores.Reactions.ListByMedia(ctx, mediaID)
	if err != nil {
		return nil, errors.Wrap(err, "list reactions")
	}
	if rs == nil {
		rs = []models.Reaction{}
	}
	return rs, nil
}

func (s *GalleryService) SetHidden(ctx context.Context, mediaID primitive.ObjectID, hidden bool) (*models.Media, error) {
	m, err := s.stores.Media.SetHidden(ctx, mediaID, hidden)
	return m, lookup(err, ErrMediaNotFound, "update media")
}

// Delete removes the media row and its reactions. The stored file is kept.
func (s *GalleryService) Delete(ctx context.Context, mediaID primitive.ObjectID) error {
	if err := s.stores.Media.Delete(ctx, mediaID); err != nil {
		return lookup(err, ErrMediaNotFound, "delete media")
	}
	return errors.Wrap(s.stores.Reactions.DeleteByMedia(ctx, mediaID), "delete reactions")
}
