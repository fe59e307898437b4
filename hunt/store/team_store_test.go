package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

func TestConditionalProgressUpdates(t *testing.T) {
	teamID := primitive.NewObjectID()
	clueID := primitive.NewObjectID()
	progress := models.SideQuestProgress{SideQuest: primitive.NewObjectID(), CompletedAt: time.Now()}
	answer := models.QuestionAnswer{Question: primitive.NewObjectID(), Answer: "blue", ChosenAt: time.Now()}

	tests := []struct {
		name       string
		build      func() (bson.M, bson.M)
		wantFilter bson.M
		wantUpdate bson.M
	}{
		{
			name:       "complete clue",
			build:      func() (bson.M, bson.M) { return completeClueUpdate(teamID, clueID) },
			wantFilter: bson.M{"_id": teamID, "completedClues": bson.M{"$ne": clueID}},
			wantUpdate: bson.M{
				"$push": bson.M{"completedClues": clueID},
				"$inc":  bson.M{"currentClue": 1},
			},
		},
		{
			name:       "side quest progress",
			build:      func() (bson.M, bson.M) { return sideQuestProgressUpdate(teamID, progress) },
			wantFilter: bson.M{"_id": teamID, "sideQuestProgress.sideQuest": bson.M{"$ne": progress.SideQuest}},
			wantUpdate: bson.M{"$push": bson.M{"sideQuestProgress": progress}},
		},
		{
			name:       "question answer",
			build:      func() (bson.M, bson.M) { return questionAnswerUpdate(teamID, answer) },
			wantFilter: bson.M{"_id": teamID, "questionAnswers.question": bson.M{"$ne": answer.Question}},
			wantUpdate: bson.M{"$push": bson.M{"questionAnswers": answer}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, update := tt.build()
			assert.Equal(t, tt.wantFilter, filter)
			assert.Equal(t, tt.wantUpdate, update)
		})
	}
}

// The $ne guard path has to be the array the update pushes to, and the guarded
// sub-field has to be the element's stored key holding the same id.
func TestConditionalGuardsMatchPushedElement(t *testing.T) {
	teamID := primitive.NewObjectID()
	progress := models.SideQuestProgress{SideQuest: primitive.NewObjectID(), CompletedAt: time.Now()}
	answer := models.QuestionAnswer{Question: primitive.NewObjectID(), Answer: "blue"}

	type guardCase struct {
		name           string
		filter, update bson.M
	}
	var tests []guardCase
	f, u := sideQuestProgressUpdate(teamID, progress)
	tests = append(tests, guardCase{"side quest progress", f, u})
	f, u = questionAnswerUpdate(teamID, answer)
	tests = append(tests, guardCase{"question answer", f, u})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var guardPath string
			var guarded interface{}
			for k, v := range tt.filter {
				if k == "_id" {
					continue
				}
				guardPath = k
				guarded = v.(bson.M)["$ne"]
			}
			parts := strings.SplitN(guardPath, ".", 2)
			require.Len(t, parts, 2)

			pushed, ok := tt.update["$push"].(bson.M)[parts[0]]
			require.True(t, ok, "update must push to %s", parts[0])

			raw, err := bson.Marshal(pushed)
			require.NoError(t, err)
			var doc bson.M
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, guarded, doc[parts[1]])
		})
	}
}
