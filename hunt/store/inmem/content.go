package inmem

import (
	"context"
	"sort"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type clueRepository struct {
	db *DB
}

func (r *clueRepository) Create(_ context.Context, c *models.Clue) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&c.ID)
	stamp(&c.CreatedAt)
	cp := *c
	r.db.clues.put(c.ID, &cp)
	return nil
}

func (r *clueRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Clue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.clues.get(id); ok {
		cp := *c
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *clueRepository) List(_ context.Context) ([]models.Clue, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Clue, 0, len(r.db.clues.order))
	for _, c := range r.db.clues.all() {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *clueRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.clues.order), nil
}

func (r *clueRepository) Update(_ context.Context, id primitive.ObjectID, patch store.ContentPatch) (*models.Clue, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.clues.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.ApplyClue(c)
	cp := *c
	return &cp, nil
}

func (r *clueRepository) SetQRCode(_ context.Context, id primitive.ObjectID, data, baseURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.clues.get(id)
	if !ok {
		return errNotFound
	}
	c.QRCodeData, c.QRBaseURL = data, baseURL
	return nil
}

func (r *clueRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.clues.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *clueRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.clues.clear()
	return nil
}

type questionRepository struct {
	db *DB
}

func (r *questionRepository) Create(_ context.Context, q *models.Question) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&q.ID)
	stamp(&q.CreatedAt)
	cp := *q
	r.db.questions.put(q.ID, &cp)
	return nil
}

func (r *questionRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if q, ok := r.db.questions.get(id); ok {
		cp := *q
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *questionRepository) List(_ context.Context) ([]models.Question, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Question, 0, len(r.db.questions.order))
	for _, q := range r.db.questions.all() {
		out = append(out, *q)
	}
	return out, nil
}

func (r *questionRepository) Update(_ context.Context, id primitive.ObjectID, patch store.ContentPatch) (*models.Question, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	q, ok := r.db.questions.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.ApplyQuestion(q)
	cp := *q
	return &cp, nil
}

func (r *questionRepository) SetQRCode(_ context.Context, id primitive.ObjectID, data, baseURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	q, ok := r.db.questions.get(id)
	if !ok {
		return errNotFound
	}
	q.QRCodeData, q.QRBaseURL = data, baseURL
	return nil
}

func (r *questionRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.questions.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *questionRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.questions.clear()
	return nil
}

type sideQuestRepository struct {
	db *DB
}

func (r *sideQuestRepository) Create(_ context.Context, sq *models.SideQuest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&sq.ID)
	stamp(&sq.CreatedAt)
	cp := *sq
	r.db.sideQuests.put(sq.ID, &cp)
	return nil
}

func (r *sideQuestRepository) Get(_ context.Context, id primitive.ObjectID) (*models.SideQuest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if sq, ok := r.db.sideQuests.get(id); ok {
		cp := *sq
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *sideQuestRepository) filter(match func(*models.SideQuest) bool) []models.SideQuest {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.SideQuest
	all := r.db.sideQuests.all()
	// newest first, matching the Mongo store
	for i := len(all) - 1; i >= 0; i-- {
		if match(all[i]) {
			out = append(out, *all[i])
		}
	}
	return out
}

func (r *sideQuestRepository) List(_ context.Context, f store.SideQuestFilter) ([]models.SideQuest, error) {
	return r.filter(f.Matches), nil
}

func (r *sideQuestRepository) ListBonusForTarget(_ context.Context, targetID primitive.ObjectID) ([]models.SideQuest, error) {
	return r.filter(func(sq *models.SideQuest) bool {
		return sq.QuestType == models.QuestBonus && sq.Active && sq.Target != nil && sq.Target.ID == targetID
	}), nil
}

func (r *sideQuestRepository) Update(_ context.Context, id primitive.ObjectID, patch store.SideQuestPatch) (*models.SideQuest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sq, ok := r.db.sideQuests.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.Apply(sq)
	cp := *sq
	return &cp, nil
}

func (r *sideQuestRepository) SetQRCode(_ context.Context, id primitive.ObjectID, data, baseURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sq, ok := r.db.sideQuests.get(id)
	if !ok {
		return errNotFound
	}
	sq.QRCodeData, sq.QRBaseURL = data, baseURL
	return nil
}

func (r *sideQuestRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.sideQuests.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *sideQuestRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sideQuests.clear()
	return nil
}

type gameRepository struct {
	db *DB
}

func (r *gameRepository) Create(_ context.Context, g *models.Game) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&g.ID)
	stamp(&g.CreatedAt)
	cp := *g
	r.db.games.put(g.ID, &cp)
	return nil
}

func (r *gameRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if g, ok := r.db.games.get(id); ok {
		cp := *g
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *gameRepository) List(_ context.Context) ([]models.Game, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := r.db.games.all()
	out := make([]models.Game, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, *all[i])
	}
	return out, nil
}

func (r *gameRepository) Update(_ context.Context, id primitive.ObjectID, patch store.GamePatch) (*models.Game, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	g, ok := r.db.games.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.Apply(g)
	cp := *g
	return &cp, nil
}

func (r *gameRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.games.remove(id) {
		return errNotFound
	}
	return nil
}
