package models

// SettingsID is the _id of the singleton settings document.
const SettingsID = "global"

// ScoreWeights is the one place scoreboard weights are named.
type ScoreWeights struct {
	CorrectAnswer      int `bson:"scoreWeightCorrectAnswer" json:"scoreWeightCorrectAnswer"`
	SideQuestCompleted int `bson:"scoreWeightSideQuestCompleted" json:"scoreWeightSideQuestCompleted"`
	SideQuestCreated   int `bson:"scoreWeightSideQuestCreated" json:"scoreWeightSideQuestCreated"`
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{CorrectAnswer: 10, SideQuestCompleted: 5, SideQuestCreated: 20}
}

type Theme struct {
	Primary    string `bson:"primary" json:"primary"`
	Secondary  string `bson:"secondary" json:"secondary"`
	Background string `bson:"background" json:"background"`
}

type Settings struct {
	ID             string       `bson:"_id" json:"-"`
	GameTitle      string       `bson:"gameTitle" json:"gameTitle"`
	Tagline        string       `bson:"tagline" json:"tagline"`
	Theme          Theme        `bson:"theme" json:"theme"`
	LogoURL        string       `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	FaviconURL     string       `bson:"faviconUrl,omitempty" json:"faviconUrl,omitempty"`
	PlaceholderURL string       `bson:"placeholderUrl,omitempty" json:"placeholderUrl,omitempty"`
	QRBaseURL      string       `bson:"qrBaseUrl,omitempty" json:"qrBaseUrl,omitempty"`
	Scoring        ScoreWeights `bson:"scoring" json:"scoring"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:        SettingsID,
		GameTitle: "Treasure Hunt",
		Theme:     Theme{Primary: "#1e3a8a", Secondary: "#f59e0b", Background: "#ffffff"},
		Scoring:   DefaultScoreWeights(),
	}
}
