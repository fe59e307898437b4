package inmem

import (
	"context"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mediaRepository struct {
	db *DB
}

func (r *mediaRepository) Create(_ context.Context, m *models.Media) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&m.ID)
	stamp(&m.CreatedAt)
	cp := *m
	r.db.media.put(m.ID, &cp)
	return nil
}

func (r *mediaRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Media, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if m, ok := r.db.media.get(id); ok {
		cp := *m
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *mediaRepository) List(_ context.Context, includeHidden bool) ([]models.Media, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := r.db.media.all()
	out := make([]models.Media, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Hidden && !includeHidden {
			continue
		}
		out = append(out, *all[i])
	}
	return out, nil
}

func (r *mediaRepository) SetHidden(_ context.Context, id primitive.ObjectID, hidden bool) (*models.Media, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.media.get(id)
	if !ok {
		return nil, errNotFound
	}
	m.Hidden = hidden
	cp := *m
	return &cp, nil
}

func (r *mediaRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.media.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *mediaRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.media.clear()
	return nil
}

type reactionRepository struct {
	db *DB
}

func (r *reactionRepository) Upsert(_ context.Context, mediaID, userID primitive.ObjectID, emoji string) (*models.Reaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range r.db.reactions.all() {
		if existing.Media == mediaID && existing.User == userID {
			existing.Emoji = emoji
			existing.UpdatedAt = now
			cp := *existing
			return &cp, nil
		}
	}
	row := &models.Reaction{ID: primitive.NewObjectID(), Media: mediaID, User: userID, Emoji: emoji, CreatedAt: now, UpdatedAt: now}
	r.db.reactions.put(row.ID, row)
	cp := *row
	return &cp, nil
}

func (r *reactionRepository) ListByMedia(_ context.Context, mediaIDs ...primitive.ObjectID) ([]models.Reaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(mediaIDs))
	for _, id := range mediaIDs {
		want[id] = true
	}
	var out []models.Reaction
	for _, rx := range r.db.reactions.all() {
		if want[rx.Media] {
			out = append(out, *rx)
		}
	}
	return out, nil
}

func (r *reactionRepository) DeleteByMedia(_ context.Context, mediaID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, rx := range r.db.reactions.all() {
		if rx.Media == mediaID {
			r.db.reactions.remove(rx.ID)
		}
	}
	return nil
}

func (r *reactionRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.reactions.clear()
	return nil
}

type scanRepository struct {
	db *DB
}

func (r *scanRepository) Insert(_ context.Context, scan *models.Scan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&scan.ID)
	stamp(&scan.CreatedAt)
	cp := *scan
	r.db.scans.put(scan.ID, &cp)
	return nil
}

func (r *scanRepository) ListByItemType(_ context.Context, itemType models.ItemType) ([]models.Scan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.Scan
	for _, s := range r.db.scans.all() {
		if s.ItemType == itemType {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *scanRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.scans.clear()
	return nil
}

type notificationRepository struct {
	db *DB
}

func (r *notificationRepository) InsertMany(_ context.Context, ns []models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range ns {
		newID(&ns[i].ID)
		stamp(&ns[i].CreatedAt)
		cp := ns[i]
		r.db.notifications.put(cp.ID, &cp)
	}
	return nil
}

func (r *notificationRepository) list(match func(*models.Notification) bool, limit int) []models.Notification {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.Notification
	all := r.db.notifications.all()
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if match(all[i]) {
			out = append(out, *all[i])
		}
	}
	return out
}

func (r *notificationRepository) ListForUser(_ context.Context, userID primitive.ObjectID, limit int) ([]models.Notification, error) {
	return r.list(func(n *models.Notification) bool { return n.User != nil && *n.User == userID }, limit), nil
}

func (r *notificationRepository) ListForTeam(_ context.Context, teamID primitive.ObjectID, limit int) ([]models.Notification, error) {
	return r.list(func(n *models.Notification) bool { return n.Team != nil && *n.Team == teamID }, limit), nil
}

func (r *notificationRepository) mark(id primitive.ObjectID, rc store.Recipient, read bool) (*models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notifications.get(id)
	if !ok {
		return nil, errNotFound
	}
	owns := (n.User != nil && *n.User == rc.User) || (n.Team != nil && rc.Team != nil && *n.Team == *rc.Team)
	if !owns {
		return nil, errNotFound
	}
	n.Viewed = true
	if read {
		n.Read = true
	}
	cp := *n
	return &cp, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id primitive.ObjectID, rc store.Recipient) (*models.Notification, error) {
	return r.mark(id, rc, true)
}

func (r *notificationRepository) MarkViewed(_ context.Context, id primitive.ObjectID, rc store.Recipient) (*models.Notification, error) {
	return r.mark(id, rc, false)
}

func (r *notificationRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.notifications.clear()
	return nil
}

type wallRepository struct {
	db *DB
}

func (r *wallRepository) Create(_ context.Context, p *models.WallPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&p.ID)
	stamp(&p.CreatedAt)
	cp := *p
	r.db.walls.put(p.ID, &cp)
	return nil
}

func (r *wallRepository) List(_ context.Context, targetType models.WallTarget, targetID primitive.ObjectID) ([]models.WallPost, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.WallPost
	all := r.db.walls.all()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].TargetType == targetType && all[i].TargetID == targetID {
			out = append(out, *all[i])
		}
	}
	return out, nil
}

func (r *wallRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.walls.clear()
	return nil
}
