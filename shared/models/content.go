package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clue is a sequential puzzle unlocked by scanning its QR code.
type Clue struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Text          string             `bson:"text" json:"text"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Options       []string           `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer string             `bson:"correctAnswer" json:"correctAnswer,omitempty"`
	Order         int                `bson:"order" json:"order"`
	QRCodeData    string             `bson:"qrCodeData,omitempty" json:"-"`
	QRBaseURL     string             `bson:"qrBaseUrl,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Sanitized returns a copy safe to show to players.
func (c Clue) Sanitized() Clue {
	c.CorrectAnswer = ""
	return c
}

// Question is a trivia question a team may answer once.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Text          string             `bson:"text" json:"text"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Options       []string           `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer string             `bson:"correctAnswer" json:"correctAnswer,omitempty"`
	QRCodeData    string             `bson:"qrCodeData,omitempty" json:"-"`
	QRBaseURL     string             `bson:"qrBaseUrl,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func (q Question) Sanitized() Question {
	q.CorrectAnswer = ""
	return q
}

// AnswersMatch compares answers trimmed and case-insensitively.
func AnswersMatch(given, expected string) bool {
	given, expected = strings.TrimSpace(given), strings.TrimSpace(expected)
	if expected == "" {
		return false
	}
	return strings.EqualFold(given, expected)
}

type QuestType string

const (
	QuestBonus    QuestType = "bonus"
	QuestMeetup   QuestType = "meetup"
	QuestPhoto    QuestType = "photo"
	QuestRace     QuestType = "race"
	QuestPasscode QuestType = "passcode"
	QuestTrivia   QuestType = "trivia"
)

func (q QuestType) Valid() bool {
	switch q {
	case QuestBonus, QuestMeetup, QuestPhoto, QuestRace, QuestPasscode, QuestTrivia:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

type TargetType string

const (
	TargetClue     TargetType = "clue"
	TargetQuestion TargetType = "question"
	TargetPlayer   TargetType = "player"
)

func (t TargetType) Valid() bool {
	return t == TargetClue || t == TargetQuestion || t == TargetPlayer
}

// Target is what a bonus quest's players must scan.
type Target struct {
	Type TargetType         `bson:"type" json:"type"`
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

type SideQuest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Text              string             `bson:"text" json:"text"`
	QuestType         QuestType          `bson:"questType" json:"questType"`
	RequiredMediaType MediaKind          `bson:"requiredMediaType,omitempty" json:"requiredMediaType,omitempty"`
	CreatedBy         Principal          `bson:"createdBy" json:"createdBy"`
	Target            *Target            `bson:"target,omitempty" json:"target,omitempty"`
	Passcode          string             `bson:"passcode,omitempty" json:"passcode,omitempty"`
	Options           []string           `bson:"options,omitempty" json:"options,omitempty"`
	CorrectOption     string             `bson:"correctOption,omitempty" json:"correctOption,omitempty"`
	TimeLimitSeconds  int                `bson:"timeLimitSeconds,omitempty" json:"timeLimitSeconds,omitempty"`
	Active            bool               `bson:"active" json:"active"`
	ImageURL          string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	QRCodeData        string             `bson:"qrCodeData,omitempty" json:"-"`
	QRBaseURL         string             `bson:"qrBaseUrl,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Sanitized hides the passcode and trivia answer.
func (s SideQuest) Sanitized() SideQuest {
	s.Passcode = ""
	s.CorrectOption = ""
	return s
}

// Game is an admin-managed hunt instance.
type Game struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartsAt    *time.Time         `bson:"startsAt,omitempty" json:"startsAt,omitempty"`
	EndsAt      *time.Time         `bson:"endsAt,omitempty" json:"endsAt,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
