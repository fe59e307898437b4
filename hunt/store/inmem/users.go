package inmem

import (
	"context"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	db *DB
}

func (r *userRepository) Create(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	newID(&u.ID)
	stamp(&u.CreatedAt)
	cp := *u
	r.db.users.put(u.ID, &cp)
	return nil
}

func (r *userRepository) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users.get(id); ok {
		cp := *u
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *userRepository) first(match func(*models.User) bool) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users.all() {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *userRepository) GetByName(_ context.Context, name string) (*models.User, error) {
	return r.first(func(u *models.User) bool { return strings.EqualFold(u.Name, name) })
}

func (r *userRepository) FindTeamLeaderByLastName(_ context.Context, lastName string) (*models.User, error) {
	return r.first(func(u *models.User) bool {
		return u.IsAdmin && u.Team != nil && strings.EqualFold(u.LastName, lastName)
	})
}

func (r *userRepository) filter(match func(*models.User) bool) []models.User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []models.User
	for _, u := range r.db.users.all() {
		if match(u) {
			out = append(out, *u)
		}
	}
	return out
}

func (r *userRepository) List(_ context.Context) ([]models.User, error) {
	return r.filter(func(*models.User) bool { return true }), nil
}

func (r *userRepository) ListByTeam(_ context.Context, teamID primitive.ObjectID) ([]models.User, error) {
	return r.filter(func(u *models.User) bool { return u.OnTeam(teamID) }), nil
}

func (r *userRepository) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(u *models.User) bool { return want[u.ID] }), nil
}

func (r *userRepository) Update(_ context.Context, id primitive.ObjectID, patch store.UserPatch) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users.get(id)
	if !ok {
		return nil, errNotFound
	}
	patch.Apply(u)
	cp := *u
	return &cp, nil
}

func (r *userRepository) SetQRCode(_ context.Context, id primitive.ObjectID, data, baseURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users.get(id)
	if !ok {
		return errNotFound
	}
	u.QRCodeData, u.QRBaseURL = data, baseURL
	return nil
}

func (r *userRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.users.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *userRepository) DeleteAll(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users.clear()
	return nil
}

type adminRepository struct {
	db *DB
}

func (r *adminRepository) Create(_ context.Context, a *models.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.admins.all() {
		if existing.Username == a.Username {
			return store.ErrDuplicate
		}
	}
	newID(&a.ID)
	stamp(&a.CreatedAt)
	cp := *a
	r.db.admins.put(a.ID, &cp)
	return nil
}

func (r *adminRepository) Get(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if a, ok := r.db.admins.get(id); ok {
		cp := *a
		return &cp, nil
	}
	return nil, errNotFound
}

func (r *adminRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if !r.db.admins.remove(id) {
		return errNotFound
	}
	return nil
}

func (r *adminRepository) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.admins.all() {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *adminRepository) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.admins.get(id)
	if !ok {
		return errNotFound
	}
	a.PasswordHash = hash
	return nil
}
