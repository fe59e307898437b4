package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateAdminRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required,min=8"`
}

type MasterResetRequest struct {
	Confirm string `json:"confirm"`
}

type AdminPlayerRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Team      *string `json:"team" validate:"omitempty,objectid"`
	ClearTeam bool    `json:"clearTeam"`
	IsAdmin   *bool   `json:"isAdmin"`
}

type AdminTeamRequest struct {
	Name         string              `json:"name" validate:"notblank"`
	ColourScheme models.ColourScheme `json:"colourScheme"`
}

type AdminTeamUpdateRequest struct {
	Name         *string              `json:"name" validate:"omitempty,notblank"`
	ColourScheme *models.ColourScheme `json:"colourScheme"`
	CurrentClue  *int                 `json:"currentClue" validate:"omitempty,min=1"`
}

type HiddenRequest struct {
	Hidden bool `json:"hidden"`
}

type KudosCategoryRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type KudosCategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type GameRequest struct {
	Title       string     `json:"title" validate:"notblank"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Active      bool       `json:"active"`
}

type GameUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,notblank"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Active      *bool      `json:"active"`
}

type BroadcastRequest struct {
	Message string `json:"message" validate:"notblank"`
	Link    string `json:"link"`
}

// CreateAdminHandler adds another game administrator.
// POST /api/admin/admins
func (h *HuntAPIHandlers) CreateAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	admin, err := h.svc.Auth.CreateAdmin(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(w, err, "create admin")
		return
	}
	api.WriteJSON(w, http.StatusCreated, admin)
	h.log.Info("Admin %s created.", admin.Username)
}

// UpdateSettingsHandler edits settings and branding images.
// PUT /api/admin/settings (multipart: gameTitle, tagline, theme, qrBaseUrl, scoring, logo, favicon, placeholder)
func (h *HuntAPIHandlers) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in := service.SettingsUpdate{
		GameTitle: f.optional("gameTitle"),
		Tagline:   f.optional("tagline"),
		QRBaseURL: f.optional("qrBaseUrl"),
	}
	var theme models.Theme
	if ok, err := f.decode("theme", &theme); err != nil {
		h.writeError(w, service.ValidationError("theme", err.Error()), "update settings")
		return
	} else if ok {
		in.Theme = &theme
	}
	var scoring models.ScoreWeights
	if ok, err := f.decode("scoring", &scoring); err != nil {
		h.writeError(w, service.ValidationError("scoring", err.Error()), "update settings")
		return
	} else if ok {
		in.Scoring = &scoring
	}
	for key, dst := range map[string]**media.Upload{"logo": &in.Logo, "favicon": &in.Favicon, "placeholder": &in.Placeholder} {
		if *dst, err = f.file(key); err != nil {
			api.WriteBadRequest(w, err.Error())
			return
		}
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	st, err := h.svc.Settings.Update(ctx, in)
	if err != nil {
		h.writeError(w, err, "update settings")
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}

// MasterResetHandler wipes all player data and uploads.
// POST /api/admin/settings/master-reset {"confirm": "definitely"}
func (h *HuntAPIHandlers) MasterResetHandler(w http.ResponseWriter, r *http.Request) {
	var req MasterResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, resetTimeout)
	defer cancel()

	if err := h.svc.Settings.MasterReset(ctx, req.Confirm); err != nil {
		h.writeError(w, err, "reset game")
		return
	}
	id, _ := adminFrom(r)
	h.log.Warn("Master reset performed by admin %s.", id.Hex())
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Game reset"})
}

// AdminListCluesHandler lists clues including answers.
// GET /api/admin/clues
func (h *HuntAPIHandlers) AdminListCluesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	clues, err := h.svc.Clues.ListAll(ctx)
	if err != nil {
		h.writeError(w, err, "list clues")
		return
	}
	api.WriteJSON(w, http.StatusOK, clues)
}

// AdminGetClueHandler
// GET /api/admin/clues/{clueId}
func (h *HuntAPIHandlers) AdminGetClueHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clueId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	clue, err := h.svc.Clues.GetRaw(ctx, id)
	if err != nil {
		h.writeError(w, err, "load clue")
		return
	}
	api.WriteJSON(w, http.StatusOK, clue)
}

// UpdateClueHandler
// PUT /api/admin/clues/{clueId}
func (h *HuntAPIHandlers) UpdateClueHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clueId")
	if !ok {
		return
	}
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	patch, image, err := contentPatch(f)
	if err != nil {
		h.writeError(w, err, "update clue")
		return
	}
	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	clue, err := h.svc.Clues.Update(ctx, id, patch, image)
	if err != nil {
		h.writeError(w, err, "update clue")
		return
	}
	api.WriteJSON(w, http.StatusOK, clue)
}

// DeleteClueHandler
// DELETE /api/admin/clues/{clueId}
func (h *HuntAPIHandlers) DeleteClueHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "clueId", "delete clue", h.svc.Clues.Delete)
}

// ClueQRHandler
// GET /api/admin/clues/{clueId}/qr
func (h *HuntAPIHandlers) ClueQRHandler(w http.ResponseWriter, r *http.Request) {
	h.qrByID(w, r, "clueId", h.svc.QR.Clue)
}

// AdminListQuestionsHandler
// GET /api/admin/questions
func (h *HuntAPIHandlers) AdminListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	qs, err := h.svc.Questions.ListAll(ctx)
	if err != nil {
		h.writeError(w, err, "list questions")
		return
	}
	api.WriteJSON(w, http.StatusOK, qs)
}

// CreateQuestionHandler
// POST /api/admin/questions (multipart: title, text, options, correctAnswer, image)
func (h *HuntAPIHandlers) CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in, err := contentInput(f)
	if err != nil {
		h.writeError(w, err, "create question")
		return
	}
	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	q, err := h.svc.Questions.Create(ctx, in)
	if err != nil {
		h.writeError(w, err, "create question")
		return
	}
	api.WriteJSON(w, http.StatusCreated, q)
}

// AdminGetQuestionHandler
// GET /api/admin/questions/{questionId}
func (h *HuntAPIHandlers) AdminGetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	q, err := h.svc.Questions.GetRaw(ctx, id)
	if err != nil {
		h.writeError(w, err, "load question")
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

// UpdateQuestionHandler
// PUT /api/admin/questions/{questionId}
func (h *HuntAPIHandlers) UpdateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	patch, image, err := contentPatch(f)
	if err != nil {
		h.writeError(w, err, "update question")
		return
	}
	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	q, err := h.svc.Questions.Update(ctx, id, patch, image)
	if err != nil {
		h.writeError(w, err, "update question")
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

// DeleteQuestionHandler
// DELETE /api/admin/questions/{questionId}
func (h *HuntAPIHandlers) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "questionId", "delete question", h.svc.Questions.Delete)
}

// QuestionQRHandler
// GET /api/admin/questions/{questionId}/qr
func (h *HuntAPIHandlers) QuestionQRHandler(w http.ResponseWriter, r *http.Request) {
	h.qrByID(w, r, "questionId", h.svc.QR.Question)
}

// AdminListSideQuestsHandler lists every side quest, inactive ones and secrets included.
// GET /api/admin/sidequests
func (h *HuntAPIHandlers) AdminListSideQuestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	quests, err := h.svc.SideQuests.ListAll(ctx)
	if err != nil {
		h.writeError(w, err, "list side quests")
		return
	}
	api.WriteJSON(w, http.StatusOK, quests)
}

// AdminGetSideQuestHandler
// GET /api/admin/sidequests/{sqId}
func (h *HuntAPIHandlers) AdminGetSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sqId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	quest, err := h.svc.SideQuests.GetRaw(ctx, id)
	if err != nil {
		h.writeError(w, err, "load side quest")
		return
	}
	api.WriteJSON(w, http.StatusOK, quest)
}

// DeleteSideQuestHandler
// DELETE /api/admin/sidequests/{sqId}
func (h *HuntAPIHandlers) DeleteSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "sqId", "delete side quest", h.svc.SideQuests.Delete)
}

// SideQuestQRHandler
// GET /api/admin/sidequests/{sqId}/qr
func (h *HuntAPIHandlers) SideQuestQRHandler(w http.ResponseWriter, r *http.Request) {
	h.qrByID(w, r, "sqId", h.svc.QR.SideQuest)
}

// AdminListPlayersHandler
// GET /api/admin/players
func (h *HuntAPIHandlers) AdminListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	users, err := h.svc.Users.List(ctx)
	if err != nil {
		h.writeError(w, err, "list players")
		return
	}
	api.WriteJSON(w, http.StatusOK, users)
}

// AdminUpdatePlayerHandler edits or moves a player.
// PUT /api/admin/players/{userId}
func (h *HuntAPIHandlers) AdminUpdatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var req AdminPlayerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := store.UserPatch{
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		ClearTeam: req.ClearTeam,
		IsAdmin:   req.IsAdmin,
	}
	if req.Team != nil {
		team, err := parseID(*req.Team)
		if err != nil {
			api.WriteBadRequest(w, "Invalid team")
			return
		}
		patch.Team = &team
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	user, err := h.svc.Users.Update(ctx, id, patch)
	if err != nil {
		h.writeError(w, err, "update player")
		return
	}
	api.WriteJSON(w, http.StatusOK, user)
}

// AdminDeletePlayerHandler
// DELETE /api/admin/players/{userId}
func (h *HuntAPIHandlers) AdminDeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "userId", "delete player", h.svc.Users.Delete)
}

// PlayerQRHandler
// GET /api/admin/players/{userId}/qr
func (h *HuntAPIHandlers) PlayerQRHandler(w http.ResponseWriter, r *http.Request) {
	h.qrByID(w, r, "userId", h.svc.QR.Player)
}

// AdminListTeamsHandler
// GET /api/admin/teams
func (h *HuntAPIHandlers) AdminListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	teams, err := h.svc.Teams.List(ctx)
	if err != nil {
		h.writeError(w, err, "list teams")
		return
	}
	api.WriteJSON(w, http.StatusOK, teams)
}

// AdminCreateTeamHandler
// POST /api/admin/teams
func (h *HuntAPIHandlers) AdminCreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var req AdminTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	team, err := h.svc.Teams.Create(ctx, req.Name, req.ColourScheme)
	if err != nil {
		h.writeError(w, err, "create team")
		return
	}
	api.WriteJSON(w, http.StatusCreated, team)
}

// AdminUpdateTeamHandler
// PUT /api/admin/teams/{teamId}
func (h *HuntAPIHandlers) AdminUpdateTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	var req AdminTeamUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	team, err := h.svc.Teams.Update(ctx, id, store.TeamPatch{
		Name:         req.Name,
		ColourScheme: req.ColourScheme,
		CurrentClue:  req.CurrentClue,
	})
	if err != nil {
		h.writeError(w, err, "update team")
		return
	}
	api.WriteJSON(w, http.StatusOK, team)
}

// AdminDeleteTeamHandler deletes a team and detaches its players.
// DELETE /api/admin/teams/{teamId}
func (h *HuntAPIHandlers) AdminDeleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "teamId", "delete team", h.svc.Teams.Delete)
}

// AdminGalleryHandler lists every media item, hidden ones included.
// GET /api/admin/gallery
func (h *HuntAPIHandlers) AdminGalleryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	items, err := h.svc.Gallery.ListAll(ctx)
	if err != nil {
		h.writeError(w, err, "list gallery")
		return
	}
	api.WriteJSON(w, http.StatusOK, items)
}

// AdminSetHiddenHandler
// PUT /api/admin/gallery/{mediaId}/hidden
func (h *HuntAPIHandlers) AdminSetHiddenHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mediaId")
	if !ok {
		return
	}
	var req HiddenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	m, err := h.svc.Gallery.SetHidden(ctx, id, req.Hidden)
	if err != nil {
		h.writeError(w, err, "update media")
		return
	}
	api.WriteJSON(w, http.StatusOK, m)
}

// AdminDeleteMediaHandler
// DELETE /api/admin/gallery/{mediaId}
func (h *HuntAPIHandlers) AdminDeleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "mediaId", "delete media", h.svc.Gallery.Delete)
}

// AdminListKudosHandler
// GET /api/admin/kudos
func (h *HuntAPIHandlers) AdminListKudosHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	cats, err := h.svc.Kudos.ListAll(ctx)
	if err != nil {
		h.writeError(w, err, "list kudos")
		return
	}
	api.WriteJSON(w, http.StatusOK, cats)
}

// AdminCreateKudosHandler
// POST /api/admin/kudos
func (h *HuntAPIHandlers) AdminCreateKudosHandler(w http.ResponseWriter, r *http.Request) {
	var req KudosCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	active := req.Active == nil || *req.Active
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	cat, err := h.svc.Kudos.Create(ctx, req.Name, req.Description, active)
	if err != nil {
		h.writeError(w, err, "create kudos category")
		return
	}
	api.WriteJSON(w, http.StatusCreated, cat)
}

// AdminUpdateKudosHandler
// PUT /api/admin/kudos/{categoryId}
func (h *HuntAPIHandlers) AdminUpdateKudosHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	var req KudosCategoryUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	cat, err := h.svc.Kudos.Update(ctx, id, store.KudosCategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		h.writeError(w, err, "update kudos category")
		return
	}
	api.WriteJSON(w, http.StatusOK, cat)
}

// AdminDeleteKudosHandler
// DELETE /api/admin/kudos/{categoryId}
func (h *HuntAPIHandlers) AdminDeleteKudosHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "categoryId", "delete kudos category", h.svc.Kudos.Delete)
}

// ListGamesHandler
// GET /api/admin/games
func (h *HuntAPIHandlers) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	games, err := h.svc.Games.List(ctx)
	if err != nil {
		h.writeError(w, err, "list games")
		return
	}
	api.WriteJSON(w, http.StatusOK, games)
}

// CreateGameHandler
// POST /api/admin/games
func (h *HuntAPIHandlers) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	g, err := h.svc.Games.Create(ctx, &models.Game{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Active:      req.Active,
	})
	if err != nil {
		h.writeError(w, err, "create game")
		return
	}
	api.WriteJSON(w, http.StatusCreated, g)
}

// GetGameHandler
// GET /api/admin/games/{gameId}
func (h *HuntAPIHandlers) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "gameId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	g, err := h.svc.Games.Get(ctx, id)
	if err != nil {
		h.writeError(w, err, "load game")
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

// UpdateGameHandler
// PUT /api/admin/games/{gameId}
func (h *HuntAPIHandlers) UpdateGameHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "gameId")
	if !ok {
		return
	}
	var req GameUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	g, err := h.svc.Games.Update(ctx, id, store.GamePatch{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Active:      req.Active,
	})
	if err != nil {
		h.writeError(w, err, "update game")
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

// DeleteGameHandler
// DELETE /api/admin/games/{gameId}
func (h *HuntAPIHandlers) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "gameId", "delete game", h.svc.Games.Delete)
}

// BroadcastHandler sends a message to every player.
// POST /api/admin/notifications/broadcast
func (h *HuntAPIHandlers) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, resetTimeout)
	defer cancel()

	n, err := h.svc.Notifications.Broadcast(ctx, req.Message, req.Link)
	if err != nil {
		h.writeError(w, err, "broadcast")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"sent": n})
	h.log.Info("Broadcast delivered to %d players.", n)
}

// DownloadMediaHandler streams every upload as a zip archive.
// GET /api/admin/media/download
func (h *HuntAPIHandlers) DownloadMediaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, resetTimeout)
	defer cancel()

	name := fmt.Sprintf("hunt-media-%s.zip", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)

	// Headers are gone once the zip starts, so failures can only be logged.
	if err := h.svc.Settings.ArchiveMedia(ctx, w); err != nil {
		h.log.Error("Error archiving media: %+v", err)
	}
}

func (h *HuntAPIHandlers) deleteByID(w http.ResponseWriter, r *http.Request, param, action string, del func(context.Context, primitive.ObjectID) error) {
	id, ok := pathID(w, r, param)
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	if err := del(ctx, id); err != nil {
		h.writeError(w, err, action)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *HuntAPIHandlers) qrByID(w http.ResponseWriter, r *http.Request, param string, render func(context.Context, primitive.ObjectID) (*service.QRCode, error)) {
	id, ok := pathID(w, r, param)
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	code, err := render(ctx, id)
	if err != nil {
		h.writeError(w, err, "render QR code")
		return
	}
	api.WriteJSON(w, http.StatusOK, code)
}
