package inmem

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type teamRepository struct {
	db *DB
}

// cloneTeam copies the team including its slices so callers never alias stored state.
func cloneTeam(t *models.Team) *models.Team {
	cp := *t
	cp.Members = slices.Clone(t.Members)
	cp.CompletedClues = slices.Clone(t.CompletedClues)
	cp.SideQuestProgress = slices.Clone(t.SideQuestProgress)
	cp.QuestionAnswers = slices.Clone(t.QuestionAnswers)
	return &cp
}

func (r *teamRepository) Create(_ context.Context, t *models.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.teams.all() {
		if strings.EqualFold(existing.Name, t.Name) {
			return store.ErrDuplicate
		}
	}
	newID(&t.ID)
	stamp(&t.CreatedAt)
	r.db.teams.put(t.ID, cloneTeam(t))
	return nil
}

func (r *teamRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if t, ok := r.db.teams.get(id); ok {
		return cloneTeam(t), nil
	}
	return nil, errNotFound
}

func (r *teamRepository) GetByName(_ context.Context, name string) (*models.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, t := range r.db.teams.all() {
		if strings.EqualFold(t.Name, name) {
			return cloneTeam(t), nil
		}
	}
	return nil, errNotFound
}

func (r *teamRepository) List(_ context.Context) ([]models.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Team, 0, len(r.db.teams.order))
	for _, t := range r.db.teams.all() {
		out = append(out, *cloneTeam(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *teamRepository) mutate(id primitive.ObjectID, fn func(t *models.Team) bool) (*models.Team, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.teams.get(id)
	if !ok {
		return nil, false, errNotFound
	}
	applied := fn(t)
	return cloneTeam(t), applied, nil
}

func (r *teamRepository) Update(_ context.Context, id primitive.ObjectID, patch store.TeamPatch) (*models.Team, error) {
	t, _, err := r.mutate(id, func(t *models.Team) bool { patch.Apply(t); return true })
	return t, err
}

func (r *teamRepository) AddMember(_ context.Context, id primitive.ObjectID, m models.Member) (*models.Team, error) {
	t, _, err := r.mutate(id, func(t *models.Team) bool { t.Members = append(t.Members, m); return true })
	return t, err
}

func (r *teamRepository) CompleteClue(_ context.Context, teamID, clueID primitive.ObjectID) (*models.Team, bool, error) {
	return r.mutate(teamID, func(t *models.Team) bool {
		if t.HasCompletedClue(clueID) {
			return false
		}
		t.CompletedClues = append(t.CompletedClues, clueID)
		t.CurrentClue++
		return true
	})
}

func (r *teamRepository) AddSideQuestProgress(_ context.Context, teamID primitive.ObjectID, p models.SideQuestProgress) (bool, error) {
	_, applied, err := r.mutate(teamID, func(t *models.Team) bool {
		if t.HasCompletedSideQuest(p.SideQuest) {
			return false
		}
		t.SideQuestProgress = append(t.SideQuestProgress, p)
		return true
	})
	return applied, err
}

func (r *teamRepository) AddQuestionAnswer(_ context.Context, teamID primitive.ObjectID, a models.QuestionAnswer) (bool, error) {
	_, applied, err := r.mutate(teamID, func(t *models.Team) bool {
		if _, answered := t.AnswerFor(a.Question); answered {
			return false
		}
		t.QuestionAnswers = append(t.QuestionAnswers, a)
		return true
	})
	return applied, err
}

func (r *teamRepository) SetLastRank(_ context.Context, teamID primitive.ObjectID, rank int) error {
	_, _, err := r.mutate(teamID, func(t *models.Team) bool { t.LastRank = rank; return true })
	return err
}

func (r *teamRepository) RemoveSideQuestProgress(_ context.Context, questID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, t := range r.db.teams.all() {
		t.SideQuestProgress = slices.DeleteFunc(t.SideQuestProgress, func(p models.SideQuestProgress) bool {
			return p.SideQuest == questID
		})
	}
	return nil
}

func (r *teamRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.teams.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *teamRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.teams.clear()
	return nil
}
