package store

import (
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patches carry optional field updates. A nil pointer leaves the field unchanged.

type UserPatch struct {
	Name              *string
	FirstName         *string
	LastName          *string
	Email             *string
	PasswordHash      *string
	PhotoURL          *string
	Team              *primitive.ObjectID
	ClearTeam         bool
	IsAdmin           *bool
	NotificationPrefs *models.NotificationPrefs
}

func (p UserPatch) set() bson.M {
	m := bson.M{}
	setIf(m, "name", p.Name)
	setIf(m, "firstName", p.FirstName)
	setIf(m, "lastName", p.LastName)
	setIf(m, "email", p.Email)
	setIf(m, "passwordHash", p.PasswordHash)
	setIf(m, "photoUrl", p.PhotoURL)
	setIf(m, "team", p.Team)
	setIf(m, "isAdmin", p.IsAdmin)
	setIf(m, "notificationPrefs", p.NotificationPrefs)
	return m
}

func (p UserPatch) update() bson.M {
	u := bson.M{}
	if s := p.set(); len(s) > 0 {
		u["$set"] = s
	}
	if p.ClearTeam && p.Team == nil {
		u["$unset"] = bson.M{"team": ""}
	}
	return u
}

func (p UserPatch) Apply(u *models.User) {
	apply(&u.Name, p.Name)
	apply(&u.FirstName, p.FirstName)
	apply(&u.LastName, p.LastName)
	apply(&u.Email, p.Email)
	apply(&u.PasswordHash, p.PasswordHash)
	apply(&u.PhotoURL, p.PhotoURL)
	apply(&u.IsAdmin, p.IsAdmin)
	apply(&u.NotificationPrefs, p.NotificationPrefs)
	if p.Team != nil {
		id := *p.Team
		u.Team = &id
	} else if p.ClearTeam {
		u.Team = nil
	}
}

type TeamPatch struct {
	Name         *string
	ColourScheme *models.ColourScheme
	PhotoURL     *string
	CurrentClue  *int
	LastRank     *int
}

func (p TeamPatch) set() bson.M {
	m := bson.M{}
	setIf(m, "name", p.Name)
	setIf(m, "colourScheme", p.ColourScheme)
	setIf(m, "photoUrl", p.PhotoURL)
	setIf(m, "currentClue", p.CurrentClue)
	setIf(m, "lastRank", p.LastRank)
	return m
}

func (p TeamPatch) Apply(t *models.Team) {
	apply(&t.Name, p.Name)
	apply(&t.ColourScheme, p.ColourScheme)
	apply(&t.PhotoURL, p.PhotoURL)
	apply(&t.CurrentClue, p.CurrentClue)
	apply(&t.LastRank, p.LastRank)
}

// ContentPatch updates a clue or question.
type ContentPatch struct {
	Title         *string
	Text          *string
	ImageURL      *string
	Options       *[]string
	CorrectAnswer *string
	Order         *int // clues only
}

func (p ContentPatch) set() bson.M {
	m := bson.M{}
	setIf(m, "title", p.Title)
	setIf(m, "text", p.Text)
	setIf(m, "imageUrl", p.ImageURL)
	setIf(m, "options", p.Options)
	setIf(m, "correctAnswer", p.CorrectAnswer)
	setIf(m, "order", p.Order)
	return m
}

func (p ContentPatch) ApplyClue(c *models.Clue) {
	apply(&c.Title, p.Title)
	apply(&c.Text, p.Text)
	apply(&c.ImageURL, p.ImageURL)
	apply(&c.Options, p.Options)
	apply(&c.CorrectAnswer, p.CorrectAnswer)
	apply(&c.Order, p.Order)
}

func (p ContentPatch) ApplyQuestion(q *models.Question) {
	apply(&q.Title, p.Title)
	apply(&q.Text, p.Text)
	apply(&q.ImageURL, p.ImageURL)
	apply(&q.Options, p.Options)
	apply(&q.CorrectAnswer, p.CorrectAnswer)
}

type SideQuestPatch struct {
	Title             *string
	Text              *string
	QuestType         *models.QuestType
	RequiredMediaType *models.MediaKind
	Target            *models.Target
	ClearTarget       bool
	Passcode          *string
	Options           *[]string
	CorrectOption     *string
	TimeLimitSeconds  *int
	Active            *bool
	ImageURL          *string
}

func (p SideQuestPatch) set() bson.M {
	m := bson.M{}
	setIf(m, "title", p.Title)
	setIf(m, "text", p.Text)
	setIf(m, "questType", p.QuestType)
	setIf(m, "requiredMediaType", p.RequiredMediaType)
	setIf(m, "target", p.Target)
	setIf(m, "passcode", p.Passcode)
	setIf(m, "options", p.Options)
	setIf(m, "correctOption", p.CorrectOption)
	setIf(m, "timeLimitSeconds", p.TimeLimitSeconds)
	setIf(m, "active", p.Active)
	setIf(m, "imageUrl", p.ImageURL)
	return m
}

func (p SideQuestPatch) update() bson.M {
	u := bson.M{}
	if s := p.set(); len(s) > 0 {
		u["$set"] = s
	}
	if p.ClearTarget && p.Target == nil {
		u["$unset"] = bson.M{"target": ""}
	}
	return u
}

func (p SideQuestPatch) Apply(s *models.SideQuest) {
	apply(&s.Title, p.Title)
	apply(&s.Text, p.Text)
	apply(&s.QuestType, p.QuestType)
	apply(&s.RequiredMediaType, p.RequiredMediaType)
	apply(&s.Passcode, p.Passcode)
	apply(&s.Options, p.Options)
	apply(&s.CorrectOption, p.CorrectOption)
	apply(&s.TimeLimitSeconds, p.TimeLimitSeconds)
	apply(&s.Active, p.Active)
	apply(&s.ImageURL, p.ImageURL)
	if p.Target != nil {
		t := *p.Target
		s.Target = &t
	} else if p.ClearTarget {
		s.Target = nil
	}
}

type KudosCategoryPatch struct {
	Name        *string
	Description *string
	Active      *bool
}

func (p KudosCategoryPatch) set() bson.M {
	m := bson.M{}
	setIf(m, "name", p.Name)
	setIf(m, "description", p.Description)
	setIf(m, "active", p.Active)
	return m
}

func (p KudosCategoryPatch) Apply(c *models.KudosCategory) {
	apply(&c.Name, p.Name)
	apply(&c.Description, p.Description)
	apply(&c.Active, p.Active)
}

type GamePatch struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      *bool
}

func (p GamePatch) set() bson.M {
	m := bson.M{}
	setIf(m, "title", p.Title)
	setIf(m, "description", p.Description)
	setIf(m, "startsAt", p.StartsAt)
	setIf(m, "endsAt", p.EndsAt)
	setIf(m, "active", p.Active)
	return m
}

func (p GamePatch) Apply(g *models.Game) {
	apply(&g.Title, p.Title)
	apply(&g.Description, p.Description)
	apply(&g.Active, p.Active)
	if p.StartsAt != nil {
		t := *p.StartsAt
		g.StartsAt = &t
	}
	if p.EndsAt != nil {
		t := *p.EndsAt
		g.EndsAt = &t
	}
}

func setIf[T any](m bson.M, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
