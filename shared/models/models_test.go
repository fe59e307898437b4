package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAnswersMatch(t *testing.T) {
	tests := []struct {
		given, expected string
		want            bool
	}{
		{" Paris ", "paris", true},
		{"BLUE", "blue", true},
		{"blue", " Blue\n", true},
		{"red", "blue", false},
		{"", "", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnswersMatch(tt.given, tt.expected), "%q vs %q", tt.given, tt.expected)
	}
}

func TestTeamHelpers(t *testing.T) {
	clue, quest, question := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	team := Team{
		CompletedClues:    []primitive.ObjectID{clue},
		SideQuestProgress: []SideQuestProgress{{SideQuest: quest}},
		QuestionAnswers:   []QuestionAnswer{{Question: question, Answer: "42"}},
	}

	assert.True(t, team.HasCompletedClue(clue))
	assert.False(t, team.HasCompletedClue(quest))
	assert.True(t, team.HasCompletedSideQuest(quest))
	assert.Nil(t, team.SideQuestEntry(clue))

	a, ok := team.AnswerFor(question)
	assert.True(t, ok)
	assert.Equal(t, "42", a.Answer)
}

func TestNotificationPrefsWants(t *testing.T) {
	p := DefaultNotificationPrefs()
	assert.True(t, p.Wants(NotifyRank))
	p.Rank = false
	assert.False(t, p.Wants(NotifyRank))
	assert.False(t, p.Wants(NotificationCategory("unknown")))
}

func TestSanitized(t *testing.T) {
	sq := SideQuest{Passcode: "open", CorrectOption: "b", Title: "t"}.Sanitized()
	assert.Empty(t, sq.Passcode)
	assert.Empty(t, sq.CorrectOption)
	assert.Equal(t, "t", sq.Title)
	assert.Empty(t, Clue{CorrectAnswer: "x"}.Sanitized().CorrectAnswer)
}
