// shared/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// SideQuestProgress records that a team completed a side quest. At most one per quest.
type SideQuestProgress struct {
	SideQuest   primitive.ObjectID  `bson:"sideQuest" json:"sideQuest"`
	CompletedAt time.Time           `bson:"completedAt" json:"completedAt"`
	CompletedBy *primitive.ObjectID `bson:"scannedBy,omitempty" json:"scannedBy,omitempty"`
	Media       *primitive.ObjectID `bson:"media,omitempty" json:"media,omitempty"`
}

// QuestionAnswer is a team's final answer to a trivia question.
type QuestionAnswer struct {
	Question primitive.ObjectID `bson:"question" json:"question"`
	Answer   string             `bson:"answer" json:"answer"`
	ChosenAt time.Time          `bson:"chosenAt" json:"chosenAt"`
}

type ColourScheme struct {
	Primary   string `bson:"primary" json:"primary"`
	Secondary string `bson:"secondary" json:"secondary"`
}

type Team struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Members           []Member             `bson:"members" json:"members"`
	CurrentClue       int                  `bson:"currentClue" json:"currentClue"`
	CompletedClues    []primitive.ObjectID `bson:"completedClues" json:"completedClues"`
	SideQuestProgress []SideQuestProgress  `bson:"sideQuestProgress" json:"sideQuestProgress"`
	QuestionAnswers   []QuestionAnswer     `bson:"questionAnswers" json:"questionAnswers"`
	ColourScheme      ColourScheme         `bson:"colourScheme" json:"colourScheme"`
	LastRank          int                  `bson:"lastRank" json:"lastRank"` // 0 = never ranked
	PhotoURL          string               `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
}

func (t *Team) HasCompletedClue(clueID primitive.ObjectID) bool {
	for _, id := range t.CompletedClues {
		if id == clueID {
			return true
		}
	}
	return false
}

// SideQuestEntry returns the team's progress entry for the quest, or nil.
func (t *Team) SideQuestEntry(questID primitive.ObjectID) *SideQuestProgress {
	for i := range t.SideQuestProgress {
		if t.SideQuestProgress[i].SideQuest == questID {
			return &t.SideQuestProgress[i]
		}
	}
	return nil
}

func (t *Team) HasCompletedSideQuest(questID primitive.ObjectID) bool {
	return t.SideQuestEntry(questID) != nil
}

// AnswerFor returns the team's stored answer for the question.
func (t *Team) AnswerFor(questionID primitive.ObjectID) (QuestionAnswer, bool) {
	for _, a := range t.QuestionAnswers {
		if a.Question == questionID {
			return a, true
		}
	}
	return QuestionAnswer{}, false
}
