package store

import "github.com/Ftotnem/HUNT-SERVICES/shared/mongodb"

// Mongo holds one store per collection, built from a connected client.
type Mongo struct {
	Users         *UserStore
	Teams         *TeamStore
	Clues         *ClueStore
	Questions     *QuestionStore
	SideQuests    *SideQuestStore
	Media         *MediaStore
	Reactions     *ReactionStore
	Scans         *ScanStore
	Notifications *NotificationStore
	Walls         *WallStore
	Kudos         *KudosStore
	Settings      *SettingsStore
	Admins        *AdminStore
	Games         *GameStore
}

func NewMongo(c *mongodb.Client) *Mongo {
	return &Mongo{
		Users:         NewUserStore(c.Collection(mongodb.CollUsers)),
		Teams:         NewTeamStore(c.Collection(mongodb.CollTeams)),
		Clues:         NewClueStore(c.Collection(mongodb.CollClues)),
		Questions:     NewQuestionStore(c.Collection(mongodb.CollQuestions)),
		SideQuests:    NewSideQuestStore(c.Collection(mongodb.CollSideQuests)),
		Media:         NewMediaStore(c.Collection(mongodb.CollMedia)),
		Reactions:     NewReactionStore(c.Collection(mongodb.CollReactions)),
		Scans:         NewScanStore(c.Collection(mongodb.CollScans)),
		Notifications: NewNotificationStore(c.Collection(mongodb.CollNotifications)),
		Walls:         NewWallStore(c.Collection(mongodb.CollWallPosts)),
		Kudos:         NewKudosStore(c.Collection(mongodb.CollKudosCategories), c.Collection(mongodb.CollKudosVotes)),
		Settings:      NewSettingsStore(c.Collection(mongodb.CollSettings)),
		Admins:        NewAdminStore(c.Collection(mongodb.CollAdmins)),
		Games:         NewGameStore(c.Collection(mongodb.CollGames)),
	}
}
