package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ItemType string

const (
	ItemClue      ItemType = "clue"
	ItemQuestion  ItemType = "question"
	ItemSideQuest ItemType = "sidequest"
	ItemPlayer    ItemType = "player"
)

func ParseItemType(s string) (ItemType, bool) {
	switch t := ItemType(s); t {
	case ItemClue, ItemQuestion, ItemSideQuest, ItemPlayer:
		return t, true
	}
	return "", false
}

// Scan status labels. The recorder does not enforce transitions between them.
const (
	ScanNew       = "NEW"
	ScanSolved    = "SOLVED!"
	ScanIncorrect = "INCORRECT"
	ScanAnswered  = "ANSWERED"
	ScanFound     = "FOUND"
)

// Scan is an append-only record of a player viewing or answering an item.
type Scan struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Team      *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	ItemType  ItemType            `bson:"itemType" json:"itemType"`
	ItemID    primitive.ObjectID  `bson:"itemId" json:"itemId"`
	Status    string              `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type ActorModel string

const (
	ActorUser   ActorModel = "User"
	ActorTeam   ActorModel = "Team"
	ActorSystem ActorModel = "System"
)

// Notification is addressed to exactly one of User or Team.
type Notification struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User       *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Team       *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	Actor      *primitive.ObjectID `bson:"actor,omitempty" json:"actor,omitempty"`
	ActorModel ActorModel          `bson:"actorModel" json:"actorModel"`
	Message    string              `bson:"message" json:"message"`
	Link       string              `bson:"link,omitempty" json:"link,omitempty"`
	Viewed     bool                `bson:"viewed" json:"viewed"`
	Read       bool                `bson:"read" json:"read"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}

type MediaType string

const (
	MediaTypeProfile   MediaType = "profile"
	MediaTypeQuestion  MediaType = "question"
	MediaTypeSideQuest MediaType = "sideQuest"
	MediaTypeOther     MediaType = "other"
)

type Media struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	URL          string              `bson:"url" json:"url"`
	ThumbnailURL string              `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	UploadedBy   Principal           `bson:"uploadedBy" json:"uploadedBy"`
	Team         *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	SideQuest    *primitive.ObjectID `bson:"sideQuest,omitempty" json:"sideQuest,omitempty"`
	Question     *primitive.ObjectID `bson:"question,omitempty" json:"question,omitempty"`
	Type         MediaType           `bson:"type" json:"type"`
	Tag          string              `bson:"tag,omitempty" json:"tag,omitempty"`
	Hidden       bool                `bson:"hidden" json:"hidden"`
	MimeType     string              `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// Reaction is unique per (media, user); reacting again replaces the emoji.
type Reaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Media     primitive.ObjectID `bson:"media" json:"media"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Emoji     string             `bson:"emoji" json:"emoji"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type WallTarget string

const (
	WallUser WallTarget = "user"
	WallTeam WallTarget = "team"
)

type WallPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetType WallTarget         `bson:"targetType" json:"targetType"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	Author     primitive.ObjectID `bson:"author" json:"author"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	Message    string             `bson:"message" json:"message"`
	ImageURL   string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// KudosCategory caches its current leader, recomputed on every vote.
type KudosCategory struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	LeadingUser  *primitive.ObjectID `bson:"leadingUser,omitempty" json:"leadingUser,omitempty"`
	LeadingCount int                 `bson:"leadingCount" json:"leadingCount"`
	Active       bool                `bson:"active" json:"active"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// KudosVote is unique per (category, voter).
type KudosVote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category  primitive.ObjectID `bson:"category" json:"category"`
	Voter     primitive.ObjectID `bson:"voter" json:"voter"`
	Nominee   primitive.ObjectID `bson:"nominee" json:"nominee"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
