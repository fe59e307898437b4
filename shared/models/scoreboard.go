package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TeamScoreEntry is one scoreboard row.
type TeamScoreEntry struct {
	TeamID              primitive.ObjectID `json:"teamId"`
	TeamName            string             `json:"teamName"`
	PhotoURL            string             `json:"photoUrl,omitempty"`
	ColourScheme        ColourScheme       `json:"colourScheme"`
	Rank                int                `json:"rank"`
	PreviousRank        int                `json:"previousRank"`
	Score               int                `json:"score"`
	CluesCompleted      int                `json:"cluesCompleted"`
	CorrectAnswers      int                `json:"correctAnswers"`
	SideQuestsCompleted int                `json:"sideQuestsCompleted"`
	SideQuestsCreated   int                `json:"sideQuestsCreated"`
	QuestionsFound      int                `json:"questionsFound"`
	SideQuestsFound     int                `json:"sideQuestsFound"`
}

// Scoreboard is the scoreboard response body.
type Scoreboard struct {
	Teams   []TeamScoreEntry `json:"teams"`
	Weights ScoreWeights     `json:"weights"`
}
