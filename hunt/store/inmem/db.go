// Package inmem implements the hunt repositories in memory. It backs the
// STORE_BACKEND=memory mode and the service tests.
package inmem

import (
	"sync"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds every table behind one lock, so each repository call is atomic.
type DB struct {
	mu sync.RWMutex

	users         table[models.User]
	teams         table[models.Team]
	clues         table[models.Clue]
	questions     table[models.Question]
	sideQuests    table[models.SideQuest]
	media         table[models.Media]
	reactions     table[models.Reaction]
	scans         table[models.Scan]
	notifications table[models.Notification]
	walls         table[models.WallPost]
	kudosCats     table[models.KudosCategory]
	kudosVotes    table[models.KudosVote]
	admins        table[models.Admin]
	games         table[models.Game]
	settings      *models.Settings
}

func NewDB() *DB {
	return &DB{}
}

// Stores returns every repository backed by this DB.
func (db *DB) Stores() service.Stores {
	return service.Stores{
		Users:         &userRepository{db: db},
		Teams:         &teamRepository{db: db},
		Clues:         &clueRepository{db: db},
		Questions:     &questionRepository{db: db},
		SideQuests:    &sideQuestRepository{db: db},
		Media:         &mediaRepository{db: db},
		Reactions:     &reactionRepository{db: db},
		Scans:         &scanRepository{db: db},
		Notifications: &notificationRepository{db: db},
		Walls:         &wallRepository{db: db},
		Kudos:         &kudosRepository{db: db},
		Settings:      &settingsRepository{db: db},
		Admins:        &adminRepository{db: db},
		Games:         &gameRepository{db: db},
	}
}

// table keeps rows by id and remembers insertion order.
type table[T any] struct {
	rows  map[primitive.ObjectID]*T
	order []primitive.ObjectID
}

func (t *table[T]) get(id primitive.ObjectID) (*T, bool) {
	r, ok := t.rows[id]
	return r, ok
}

func (t *table[T]) put(id primitive.ObjectID, row *T) {
	if t.rows == nil {
		t.rows = make(map[primitive.ObjectID]*T)
	}
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// all returns rows in insertion order.
func (t *table[T]) all() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) clear() {
	t.rows = nil
	t.order = nil
}

func newID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

var errNotFound = store.ErrNotFound
