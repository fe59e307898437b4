package service

import (
	"context"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository interfaces consumed by the services. hunt/store implements them on
// MongoDB and hunt/store/inmem in memory.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	FindTeamLeaderByLastName(ctx context.Context, lastName string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.UserPatch) (*models.User, error)
	SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type TeamRepository interface {
	Create(ctx context.Context, t *models.Team) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.TeamPatch) (*models.Team, error)
	AddMember(ctx context.Context, id primitive.ObjectID, m models.Member) (*models.Team, error)
	CompleteClue(ctx context.Context, teamID, clueID primitive.ObjectID) (*models.Team, bool, error)
	AddSideQuestProgress(ctx context.Context, teamID primitive.ObjectID, p models.SideQuestProgress) (bool, error)
	AddQuestionAnswer(ctx context.Context, teamID primitive.ObjectID, a models.QuestionAnswer) (bool, error)
	SetLastRank(ctx context.Context, teamID primitive.ObjectID, rank int) error
	RemoveSideQuestProgress(ctx context.Context, questID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type ClueRepository interface {
	Create(ctx context.Context, c *models.Clue) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Clue, error)
	List(ctx context.Context) ([]models.Clue, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.ContentPatch) (*models.Clue, error)
	SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	List(ctx context.Context) ([]models.Question, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.ContentPatch) (*models.Question, error)
	SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type SideQuestRepository interface {
	Create(ctx context.Context, sq *models.SideQuest) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.SideQuest, error)
	List(ctx context.Context, f store.SideQuestFilter) ([]models.SideQuest, error)
	ListBonusForTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.SideQuest, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.SideQuestPatch) (*models.SideQuest, error)
	SetQRCode(ctx context.Context, id primitive.ObjectID, data, baseURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	List(ctx context.Context, includeHidden bool) ([]models.Media, error)
	SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) (*models.Media, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type ReactionRepository interface {
	Upsert(ctx context.Context, mediaID, userID primitive.ObjectID, emoji string) (*models.Reaction, error)
	ListByMedia(ctx context.Context, mediaIDs ...primitive.ObjectID) ([]models.Reaction, error)
	DeleteByMedia(ctx context.Context, mediaID primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type ScanRepository interface {
	Insert(ctx context.Context, scan *models.Scan) error
	ListByItemType(ctx context.Context, itemType models.ItemType) ([]models.Scan, error)
	DeleteAll(ctx context.Context) error
}

type NotificationRepository interface {
	InsertMany(ctx context.Context, ns []models.Notification) error
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Notification, error)
	ListForTeam(ctx context.Context, teamID primitive.ObjectID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, r store.Recipient) (*models.Notification, error)
	MarkViewed(ctx context.Context, id primitive.ObjectID, r store.Recipient) (*models.Notification, error)
	DeleteAll(ctx context.Context) error
}

type WallRepository interface {
	Create(ctx context.Context, p *models.WallPost) error
	List(ctx context.Context, targetType models.WallTarget, targetID primitive.ObjectID) ([]models.WallPost, error)
	DeleteAll(ctx context.Context) error
}

type KudosRepository interface {
	CreateCategory(ctx context.Context, c *models.KudosCategory) error
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.KudosCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.KudosCategory, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, patch store.KudosCategoryPatch) (*models.KudosCategory, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	UpsertVote(ctx context.Context, categoryID, voter, nominee primitive.ObjectID) error
	VoteOf(ctx context.Context, categoryID, voter primitive.ObjectID) (*models.KudosVote, error)
	VotesBy(ctx context.Context, voter primitive.ObjectID) ([]models.KudosVote, error)
	TallyVotes(ctx context.Context, categoryID primitive.ObjectID) (*primitive.ObjectID, int, error)
	SetLeader(ctx context.Context, categoryID primitive.ObjectID, leader *primitive.ObjectID, count int) error
	DeleteAllVotes(ctx context.Context) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

type AdminRepository interface {
	Create(ctx context.Context, a *models.Admin) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GameRepository interface {
	Create(ctx context.Context, g *models.Game) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	Update(ctx context.Context, id primitive.ObjectID, patch store.GamePatch) (*models.Game, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Stores bundles every repository the services use.
type Stores struct {
	Users         UserRepository
	Teams         TeamRepository
	Clues         ClueRepository
	Questions     QuestionRepository
	SideQuests    SideQuestRepository
	Media         MediaRepository
	Reactions     ReactionRepository
	Scans         ScanRepository
	Notifications NotificationRepository
	Walls         WallRepository
	Kudos         KudosRepository
	Settings      SettingsRepository
	Admins        AdminRepository
	Games         GameRepository
}

// MongoStores adapts the MongoDB stores to the repository set.
func MongoStores(m *store.Mongo) Stores {
	return Stores{
		Users:         m.Users,
		Teams:         m.Teams,
		Clues:         m.Clues,
		Questions:     m.Questions,
		SideQuests:    m.SideQuests,
		Media:         m.Media,
		Reactions:     m.Reactions,
		Scans:         m.Scans,
		Notifications: m.Notifications,
		Walls:         m.Walls,
		Kudos:         m.Kudos,
		Settings:      m.Settings,
		Admins:        m.Admins,
		Games:         m.Games,
	}
}
