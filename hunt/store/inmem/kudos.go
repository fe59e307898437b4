package inmem

import (
	"context"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type kudosRepository struct {
	db *DB
}

func (r *kudosRepository) CreateCategory(_ context.Context, c *models.KudosCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&c.ID)
	stamp(&c.CreatedAt)
	cp := *c
	r.db.kudosCats.put(c.ID, &cp)
	return nil
}

func (r *kudosRepository) GetCategory(_ context.Context, id primitive.ObjectID) (*models.KudosCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.kudosCats.get(id); ok {
		cp := *c
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *kudosRepository) ListCategories(_ context.Context, activeOnly bool) ([]models.KudosCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.KudosCategory
	for _, c := range r.db.kudosCats.all() {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *kudosRepository) UpdateCategory(_ context.Context, id primitive.ObjectID, patch store.KudosCategoryPatch) (*models.KudosCategory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.kudosCats.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.Apply(c)
	cp := *c
	return &cp, nil
}

func (r *kudosRepository) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.kudosCats.remove(id) {
		return errNotFound
	}
	for _, v := range r.db.kudosVotes.all() {
		if v.Category == id {
			r.db.kudosVotes.remove(v.ID)
		}
	}
	return nil
}

func (r *kudosRepository) UpsertVote(_ context.Context, categoryID, voter, nominee primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	for _, v := range r.db.kudosVotes.all() {
		if v.Category == categoryID && v.Voter == voter {
			v.Nominee = nominee
			v.UpdatedAt = now
			return nil
		}
	}
	row := &models.KudosVote{ID: primitive.NewObjectID(), Category: categoryID, Voter: voter, Nominee: nominee, CreatedAt: now, UpdatedAt: now}
	r.db.kudosVotes.put(row.ID, row)
	return nil
}

func (r *kudosRepository) VoteOf(_ context.Context, categoryID, voter primitive.ObjectID) (*models.KudosVote, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, v := range r.db.kudosVotes.all() {
		if v.Category == categoryID && v.Voter == voter {
			cp := *v
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *kudosRepository) VotesBy(_ context.Context, voter primitive.ObjectID) ([]models.KudosVote, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.KudosVote
	for _, v := range r.db.kudosVotes.all() {
		if v.Voter == voter {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *kudosRepository) TallyVotes(_ context.Context, categoryID primitive.ObjectID) (*primitive.ObjectID, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := map[primitive.ObjectID]int{}
	for _, v := range r.db.kudosVotes.all() {
		if v.Category == categoryID {
			counts[v.Nominee]++
		}
	}
	var leader *primitive.ObjectID
	best := 0
	for id, n := range counts {
		if n > best || (n == best && leader != nil && id.Hex() < leader.Hex()) {
			id := id
			leader, best = &id, n
		}
	}
	return leader, best, nil
}

func (r *kudosRepository) SetLeader(_ context.Context, categoryID primitive.ObjectID, leader *primitive.ObjectID, count int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.kudosCats.get(categoryID)
	if !ok {
		return errNotFound
	}
	c.LeadingUser, c.LeadingCount = nil, count
	if leader != nil {
		id := *leader
		c.LeadingUser = &id
	}
	return nil
}

func (r *kudosRepository) DeleteAllVotes(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.kudosVotes.clear()
	for _, c := range r.db.kudosCats.all() {
		c.LeadingUser, c.LeadingCount = nil, 0
	}
	return nil
}

type settingsRepository struct {
	db *DB
}

func (r *settingsRepository) Get(_ context.Context) (*models.Settings, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if r.db.settings == nil {
		s := models.DefaultSettings()
		return &s, nil
	}
	cp := *r.db.settings
	return &cp, nil
}

func (r *settingsRepository) Save(_ context.Context, s *models.Settings) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s.ID = models.SettingsID
	cp := *s
	r.db.settings = &cp
	return nil
}
