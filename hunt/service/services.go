package service

import (
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/notify"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
)

// Deps are the collaborators every service is built from.
type Deps struct {
	Stores        Stores
	Notifier      notify.Notifier
	Media         media.Storage
	Tokens        *auth.TokenManager
	Log           *logger.Logger
	PublicBaseURL string           // fallback QR base when settings carry none
	Now           func() time.Time // mockable
}

// Services bundles the business layer handed to the API.
type Services struct {
	Auth          *AuthService
	Onboard       *OnboardService
	Users         *UserService
	Teams         *TeamService
	Clues         *ClueService
	Questions     *QuestionService
	SideQuests    *SideQuestService
	Bonus         *BonusService
	Scans         *ScanService
	Progress      *ProgressService
	Scoreboard    *ScoreboardService
	Gallery       *GalleryService
	Notifications *NotificationService
	Kudos         *KudosService
	Wall          *WallService
	Settings      *SettingsService
	Games         *GameService
	QR            *QRService
}

// New wires every service from d.
func New(d Deps) *Services {
	if d.Log == nil {
		d.Log = logger.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewDirect(d.Stores.Notifications)
	}

	scans := NewScanService(d.Stores, d.Notifier, d.Log)
	sideQuests := NewSideQuestService(d.Stores, scans, d.Notifier, d.Media, d.Log, d.Now)
	bonus := NewBonusService(d.Stores, sideQuests, d.Log)

	return &Services{
		Auth:          NewAuthService(d.Stores, d.Tokens),
		Onboard:       NewOnboardService(d.Stores, d.Media, d.Tokens, d.Log),
		Users:         NewUserService(d.Stores, scans, bonus, d.Media),
		Teams:         NewTeamService(d.Stores, d.Media),
		Clues:         NewClueService(d.Stores, scans, bonus, d.Media),
		Questions:     NewQuestionService(d.Stores, scans, bonus, d.Media, d.Now),
		SideQuests:    sideQuests,
		Bonus:         bonus,
		Scans:         scans,
		Progress:      NewProgressService(d.Stores),
		Scoreboard:    NewScoreboardService(d.Stores, d.Notifier, d.Log),
		Gallery:       NewGalleryService(d.Stores, d.Now),
		Notifications: NewNotificationService(d.Stores, d.Notifier),
		Kudos:         NewKudosService(d.Stores, d.Notifier, d.Log),
		Wall:          NewWallService(d.Stores, d.Notifier, d.Media, d.Log),
		Settings:      NewSettingsService(d.Stores, d.Media, d.Log),
		Games:         NewGameService(d.Stores),
		QR:            NewQRService(d.Stores, d.PublicBaseURL),
	}
}
