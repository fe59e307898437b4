package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollAdmins          = "admins"
	CollUsers           = "users"
	CollTeams           = "teams"
	CollClues           = "clues"
	CollQuestions       = "questions"
	CollSideQuests      = "sidequests"
	CollMedia           = "media"
	CollReactions       = "reactions"
	CollScans           = "scans"
	CollNotifications   = "notifications"
	CollWallPosts       = "wallposts"
	CollKudosCategories = "kudoscategories"
	CollKudosVotes      = "kudosvotes"
	CollSettings        = "settings"
	CollGames           = "games"
)

// Indexes lists every index the hunt services rely on, keyed by collection.
// The unique ones turn re-react and re-vote into upserts instead of races.
var Indexes = map[string][]mongo.IndexModel{
	CollAdmins: {
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollUsers: {
		{Keys: bson.D{{Key: "team", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	},
	CollTeams: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollClues: {
		{Keys: bson.D{{Key: "order", Value: 1}}},
	},
	CollSideQuests: {
		{Keys: bson.D{{Key: "questType", Value: 1}, {Key: "target.id", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy.id", Value: 1}}},
	},
	CollMedia: {
		{Keys: bson.D{{Key: "hidden", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	CollReactions: {
		{Keys: bson.D{{Key: "media", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollScans: {
		{Keys: bson.D{{Key: "itemType", Value: 1}, {Key: "itemId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "team", Value: 1}, {Key: "itemType", Value: 1}}},
	},
	CollNotifications: {
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "team", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	CollWallPosts: {
		{Keys: bson.D{{Key: "targetType", Value: 1}, {Key: "targetId", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	CollKudosVotes: {
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "voter", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates all indexes in Indexes. Creating an existing index is a no-op.
func (mc *Client) EnsureIndexes(ctx context.Context) error {
	for coll, models := range Indexes {
		names, err := mc.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
		mc.log.Debug("Ensured indexes on %s: %v", coll, names)
	}
	return nil
}
