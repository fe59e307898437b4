// hunt/store/team_store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TeamStore persists teams. Progress mutations are single conditional updates so
// concurrent requests from one team cannot double-apply them.
type TeamStore struct {
	collection *mongo.Collection
}

func NewTeamStore(collection *mongo.Collection) *TeamStore {
	return &TeamStore{collection: collection}
}

func (s *TeamStore) Create(ctx context.Context, t *models.Team) error {
	ensureID(&t.ID)
	ensureTime(&t.CreatedAt)
	if t.Members == nil {
		t.Members = []models.Member{}
	}
	if t.CompletedClues == nil {
		t.CompletedClues = []primitive.ObjectID{}
	}
	if t.SideQuestProgress == nil {
		t.SideQuestProgress = []models.SideQuestProgress{}
	}
	if t.QuestionAnswers == nil {
		t.QuestionAnswers = []models.QuestionAnswer{}
	}
	if _, err := s.collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create team %s: %w", t.Name, translate(err))
	}
	return nil
}

func (s *TeamStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	if err := s.collection.FindOne(ctx, byID(id)).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *TeamStore) GetByName(ctx context.Context, name string) (*models.Team, error) {
	var t models.Team
	if err := s.collection.FindOne(ctx, bson.M{"name": equalFold(name)}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

func (s *TeamStore) Update(ctx context.Context, id primitive.ObjectID, patch TeamPatch) (*models.Team, error) {
	set := patch.set()
	if len(set) == 0 {
		return s.Get(ctx, id)
	}
	var t models.Team
	if err := updateByID(ctx, s.collection, id, bson.M{"$set": set}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TeamStore) AddMember(ctx context.Context, id primitive.ObjectID, m models.Member) (*models.Team, error) {
	var t models.Team
	if err := updateByID(ctx, s.collection, id, bson.M{"$push": bson.M{"members": m}}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteClue adds clueID to completedClues and advances currentClue by one,
// unless the clue is already completed. It returns the team after the call and
// whether this call applied the change.
func (s *TeamStore) CompleteClue(ctx context.Context, teamID, clueID primitive.ObjectID) (*models.Team, bool, error) {
	filter, update := completeClueUpdate(teamID, clueID)
	return s.conditionalUpdate(ctx, teamID, filter, update)
}

// AddSideQuestProgress pushes a progress entry unless one exists for the quest.
func (s *TeamStore) AddSideQuestProgress(ctx context.Context, teamID primitive.ObjectID, p models.SideQuestProgress) (bool, error) {
	filter, update := sideQuestProgressUpdate(teamID, p)
	_, applied, err := s.conditionalUpdate(ctx, teamID, filter, update)
	return applied, err
}

// AddQuestionAnswer stores the team's answer unless one is already stored.
func (s *TeamStore) AddQuestionAnswer(ctx context.Context, teamID primitive.ObjectID, a models.QuestionAnswer) (bool, error) {
	filter, update := questionAnswerUpdate(teamID, a)
	_, applied, err := s.conditionalUpdate(ctx, teamID, filter, update)
	return applied, err
}

// The guard in each filter must name the same item the update pushes, or two
// concurrent requests can both apply.

func completeClueUpdate(teamID, clueID primitive.ObjectID) (filter, update bson.M) {
	filter = bson.M{"_id": teamID, "completedClues": bson.M{"$ne": clueID}}
	update = bson.M{
		"$push": bson.M{"completedClues": clueID},
		"$inc":  bson.M{"currentClue": 1},
	}
	return filter, update
}

func sideQuestProgressUpdate(teamID primitive.ObjectID, p models.SideQuestProgress) (filter, update bson.M) {
	filter = bson.M{"_id": teamID, "sideQuestProgress.sideQuest": bson.M{"$ne": p.SideQuest}}
	update = bson.M{"$push": bson.M{"sideQuestProgress": p}}
	return filter, update
}

func questionAnswerUpdate(teamID primitive.ObjectID, a models.QuestionAnswer) (filter, update bson.M) {
	filter = bson.M{"_id": teamID, "questionAnswers.question": bson.M{"$ne": a.Question}}
	update = bson.M{"$push": bson.M{"questionAnswers": a}}
	return filter, update
}

func (s *TeamStore) conditionalUpdate(ctx context.Context, teamID primitive.ObjectID, filter, update bson.M) (*models.Team, bool, error) {
	var t models.Team
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t)
	if err == nil {
		return &t, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed conditional update on team %s: %w", teamID.Hex(), err)
	}
	// Either the team is gone or the guard rejected the write.
	current, getErr := s.Get(ctx, teamID)
	if getErr != nil {
		return nil, false, getErr
	}
	return current, false, nil
}

func (s *TeamStore) SetLastRank(ctx context.Context, teamID primitive.ObjectID, rank int) error {
	res, err := s.collection.UpdateOne(ctx, byID(teamID), bson.M{"$set": bson.M{"lastRank": rank}})
	if err != nil {
		return fmt.Errorf("failed to set lastRank for team %s: %w", teamID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSideQuestProgress drops every team's progress entry for a deleted quest.
func (s *TeamStore) RemoveSideQuestProgress(ctx context.Context, questID primitive.ObjectID) error {
	_, err := s.collection.UpdateMany(ctx, bson.M{},
		bson.M{"$pull": bson.M{"sideQuestProgress": bson.M{"sideQuest": questID}}})
	if err != nil {
		return fmt.Errorf("failed to remove progress for side quest %s: %w", questID.Hex(), err)
	}
	return nil
}

func (s *TeamStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.collection, id)
}

func (s *TeamStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, s.collection)
}
