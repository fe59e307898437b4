// Package api exposes the hunt services over REST.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/gorilla/mux"
)

// Options configures the non-service parts of the HTTP surface.
type Options struct {
	UploadsDir     string // served under /uploads/ when set
	StaticDir      string // built frontend for the SPA fallback; disabled when empty
	MaxUploadBytes int64
}

// HuntAPIHandlers holds references to the services that handle business logic.
type HuntAPIHandlers struct {
	svc    *service.Services
	tokens *auth.TokenManager
	log    *logger.Logger
	opts   Options
}

func NewHuntAPIHandlers(svc *service.Services, tokens *auth.TokenManager, log *logger.Logger, opts Options) *HuntAPIHandlers {
	if log == nil {
		log = logger.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &HuntAPIHandlers{svc: svc, tokens: tokens, log: log, opts: opts}
}

// RegisterRoutes registers all API endpoints for the hunt service.
func (h *HuntAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.HealthHandler).Methods("GET")

	r := router.PathPrefix("/api").Subrouter()
	player := mux.MiddlewareFunc(h.RequirePlayer)
	optional := mux.MiddlewareFunc(h.OptionalPlayer)

	r.HandleFunc("/auth/register", h.RegisterHandler).Methods("POST")
	r.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")
	r.HandleFunc("/admin/login", h.AdminLoginHandler).Methods("POST")

	r.HandleFunc("/onboard/teams", h.OnboardTeamsHandler).Methods("GET")
	r.HandleFunc("/onboard", h.OnboardHandler).Methods("POST")

	r.Handle("/users/me", guarded(player, h.MeHandler)).Methods("GET")
	r.Handle("/users/me", guarded(player, h.UpdateMeHandler)).Methods("PUT")
	r.Handle("/users/me/qr", guarded(player, h.MyQRHandler)).Methods("GET")
	r.Handle("/users/{userId}", guarded(optional, h.ProfileHandler)).Methods("GET")

	r.Handle("/teams/{teamId}", guarded(player, h.GetTeamHandler)).Methods("GET")
	r.Handle("/teams/{teamId}/colour", guarded(player, h.SetTeamColourHandler)).Methods("PUT")
	r.Handle("/teams/{teamId}/members", guarded(player, h.AddTeamMemberHandler)).Methods("POST")
	r.Handle("/teams/{teamId}/sidequests", guarded(player, h.TeamSideQuestsHandler)).Methods("GET")
	r.Handle("/teams/{teamId}/sidequests/{sqId}/complete", guarded(player, h.CompleteSideQuestHandler)).Methods("POST")

	r.Handle("/clues", guarded(optional, h.ListCluesHandler)).Methods("GET")
	r.Handle("/clues", guarded(player, h.CreateClueHandler)).Methods("POST")
	r.Handle("/clues/{clueId}", guarded(optional, h.GetClueHandler)).Methods("GET")
	r.Handle("/clues/{clueId}/answer", guarded(player, h.AnswerClueHandler)).Methods("POST")

	for _, prefix := range []string{"/questions", "/question"} {
		r.Handle(prefix+"/{questionId}", guarded(optional, h.GetQuestionHandler)).Methods("GET")
		r.Handle(prefix+"/{questionId}/answer", guarded(player, h.AnswerQuestionHandler)).Methods("POST")
	}

	r.Handle("/sidequests", guarded(optional, h.ListSideQuestsHandler)).Methods("GET")
	r.Handle("/sidequests", guarded(player, h.CreateSideQuestHandler)).Methods("POST")
	r.Handle("/sidequests/{sqId}", guarded(optional, h.GetSideQuestHandler)).Methods("GET")
	r.Handle("/sidequests/{sqId}", guarded(player, h.UpdateSideQuestHandler)).Methods("PUT")
	r.Handle("/sidequest/{sqId}", guarded(optional, h.GetSideQuestHandler)).Methods("GET")

	r.Handle("/progress/{type}", guarded(optional, h.ProgressHandler)).Methods("GET")

	r.Handle("/roguery", guarded(optional, h.GalleryHandler)).Methods("GET")
	r.Handle("/roguery/{mediaId}/react", guarded(player, h.ReactHandler)).Methods("POST")
	r.Handle("/reactions", guarded(player, h.CreateReactionHandler)).Methods("POST")
	r.HandleFunc("/reactions/{mediaId}", h.ListReactionsHandler).Methods("GET")

	r.Handle("/notifications", guarded(player, h.ListNotificationsHandler)).Methods("GET")
	r.Handle("/notifications/team", guarded(player, h.ListTeamNotificationsHandler)).Methods("GET")
	r.Handle("/notifications/{notificationId}/read", guarded(player, h.MarkNotificationReadHandler)).Methods("PUT")
	r.Handle("/notifications/{notificationId}/viewed", guarded(player, h.MarkNotificationViewedHandler)).Methods("PUT")

	r.Handle("/kudos", guarded(optional, h.ListKudosHandler)).Methods("GET")
	r.Handle("/kudos/{categoryId}/vote", guarded(player, h.VoteKudosHandler)).Methods("POST")

	r.HandleFunc("/wall/{type}/{targetId}", h.ListWallHandler).Methods("GET")
	r.Handle("/wall/{type}/{targetId}", guarded(player, h.PostWallHandler)).Methods("POST")

	r.HandleFunc("/scoreboard", h.ScoreboardHandler).Methods("GET")
	r.HandleFunc("/settings", h.GetSettingsHandler).Methods("GET")

	h.registerAdminRoutes(r.PathPrefix("/admin").Subrouter())

	if h.opts.UploadsDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.opts.UploadsDir))))
	}
	if h.opts.StaticDir != "" {
		router.PathPrefix("/").Handler(spaHandler{dir: h.opts.StaticDir})
	}
}

func (h *HuntAPIHandlers) registerAdminRoutes(r *mux.Router) {
	r.Use(h.RequireAdmin)

	r.HandleFunc("/admins", h.CreateAdminHandler).Methods("POST")

	r.HandleFunc("/settings", h.UpdateSettingsHandler).Methods("PUT")
	r.HandleFunc("/settings/master-reset", h.MasterResetHandler).Methods("POST")

	r.HandleFunc("/clues", h.AdminListCluesHandler).Methods("GET")
	r.HandleFunc("/clues", h.CreateClueHandler).Methods("POST")
	r.HandleFunc("/clues/{clueId}", h.AdminGetClueHandler).Methods("GET")
	r.HandleFunc("/clues/{clueId}", h.UpdateClueHandler).Methods("PUT")
	r.HandleFunc("/clues/{clueId}", h.DeleteClueHandler).Methods("DELETE")
	r.HandleFunc("/clues/{clueId}/qr", h.ClueQRHandler).Methods("GET")

	r.HandleFunc("/questions", h.AdminListQuestionsHandler).Methods("GET")
	r.HandleFunc("/questions", h.CreateQuestionHandler).Methods("POST")
	r.HandleFunc("/questions/{questionId}", h.AdminGetQuestionHandler).Methods("GET")
	r.HandleFunc("/questions/{questionId}", h.UpdateQuestionHandler).Methods("PUT")
	r.HandleFunc("/questions/{questionId}", h.DeleteQuestionHandler).Methods("DELETE")
	r.HandleFunc("/questions/{questionId}/qr", h.QuestionQRHandler).Methods("GET")

	r.HandleFunc("/sidequests", h.AdminListSideQuestsHandler).Methods("GET")
	r.HandleFunc("/sidequests", h.CreateSideQuestHandler).Methods("POST")
	r.HandleFunc("/sidequests/{sqId}", h.AdminGetSideQuestHandler).Methods("GET")
	r.HandleFunc("/sidequests/{sqId}", h.UpdateSideQuestHandler).Methods("PUT")
	r.HandleFunc("/sidequests/{sqId}", h.DeleteSideQuestHandler).Methods("DELETE")
	r.HandleFunc("/sidequests/{sqId}/qr", h.SideQuestQRHandler).Methods("GET")

	r.HandleFunc("/players", h.AdminListPlayersHandler).Methods("GET")
	r.HandleFunc("/players/{userId}", h.AdminUpdatePlayerHandler).Methods("PUT")
	r.HandleFunc("/players/{userId}", h.AdminDeletePlayerHandler).Methods("DELETE")
	r.HandleFunc("/players/{userId}/qr", h.PlayerQRHandler).Methods("GET")

	r.HandleFunc("/teams", h.AdminListTeamsHandler).Methods("GET")
	r.HandleFunc("/teams", h.AdminCreateTeamHandler).Methods("POST")
	r.HandleFunc("/teams/{teamId}", h.GetTeamHandler).Methods("GET")
	r.HandleFunc("/teams/{teamId}", h.AdminUpdateTeamHandler).Methods("PUT")
	r.HandleFunc("/teams/{teamId}", h.AdminDeleteTeamHandler).Methods("DELETE")

	r.HandleFunc("/gallery", h.AdminGalleryHandler).Methods("GET")
	r.HandleFunc("/gallery/{mediaId}/hidden", h.AdminSetHiddenHandler).Methods("PUT")
	r.HandleFunc("/gallery/{mediaId}", h.AdminDeleteMediaHandler).Methods("DELETE")

	r.HandleFunc("/kudos", h.AdminListKudosHandler).Methods("GET")
	r.HandleFunc("/kudos", h.AdminCreateKudosHandler).Methods("POST")
	r.HandleFunc("/kudos/{categoryId}", h.AdminUpdateKudosHandler).Methods("PUT")
	r.HandleFunc("/kudos/{categoryId}", h.AdminDeleteKudosHandler).Methods("DELETE")

	r.HandleFunc("/games", h.ListGamesHandler).Methods("GET")
	r.HandleFunc("/games", h.CreateGameHandler).Methods("POST")
	r.HandleFunc("/games/{gameId}", h.GetGameHandler).Methods("GET")
	r.HandleFunc("/games/{gameId}", h.UpdateGameHandler).Methods("PUT")
	r.HandleFunc("/games/{gameId}", h.DeleteGameHandler).Methods("DELETE")

	r.HandleFunc("/scoreboard", h.ScoreboardHandler).Methods("GET")
	r.HandleFunc("/progress/{type}", h.ProgressHandler).Methods("GET")
	r.HandleFunc("/notifications/broadcast", h.BroadcastHandler).Methods("POST")
	r.HandleFunc("/media/download", h.DownloadMediaHandler).Methods("GET")
}

// HealthHandler reports liveness.
// GET /healthz
func (h *HuntAPIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// spaHandler serves the built frontend, falling back to index.html for client routes.
type spaHandler struct {
	dir string
}

func (s spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		api.WriteNotFound(w, "Route not found")
		return
	}
	p := filepath.Join(s.dir, filepath.Clean("/"+r.URL.Path))
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		http.ServeFile(w, r, p)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.dir, "index.html"))
}
