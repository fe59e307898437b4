package api

import (
	"net/http"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/gorilla/mux"
)

type ReactRequest struct {
	Emoji string `json:"emoji" validate:"notblank"`
}

type CreateReactionRequest struct {
	MediaID string `json:"mediaId" validate:"required,objectid"`
	Emoji   string `json:"emoji" validate:"notblank"`
}

type VoteRequest struct {
	NomineeID string `json:"nomineeId" validate:"required,objectid"`
}

// GalleryHandler lists the rogues' gallery.
// GET /api/roguery?sort=newest|best|hottest
func (h *HuntAPIHandlers) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	items, err := h.svc.Gallery.List(ctx, r.URL.Query().Get("sort"), playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list gallery")
		return
	}
	api.WriteJSON(w, http.StatusOK, items)
}

// ReactHandler sets the player's single reaction on a media item.
// POST /api/roguery/{mediaId}/react
func (h *HuntAPIHandlers) ReactHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mediaId")
	if !ok {
		return
	}
	var req ReactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.react(w, r, id.Hex(), req.Emoji)
}

// CreateReactionHandler is ReactHandler with the media id in the body.
// POST /api/reactions
func (h *HuntAPIHandlers) CreateReactionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.react(w, r, req.MediaID, req.Emoji)
}

func (h *HuntAPIHandlers) react(w http.ResponseWriter, r *http.Request, mediaID, emoji string) {
	id, err := parseID(mediaID)
	if err != nil {
		api.WriteBadRequest(w, "Invalid mediaId")
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	reaction, err := h.svc.Gallery.React(ctx, id, playerFrom(r), emoji)
	if err != nil {
		h.writeError(w, err, "react")
		return
	}
	api.WriteJSON(w, http.StatusOK, reaction)
}

// ListReactionsHandler lists every reaction on a media item.
// GET /api/reactions/{mediaId}
func (h *HuntAPIHandlers) ListReactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "mediaId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	reactions, err := h.svc.Gallery.Reactions(ctx, id)
	if err != nil {
		h.writeError(w, err, "list reactions")
		return
	}
	api.WriteJSON(w, http.StatusOK, reactions)
}

// ListNotificationsHandler returns the player's own notifications, newest first.
// GET /api/notifications
func (h *HuntAPIHandlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	list, err := h.svc.Notifications.ListMine(ctx, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list notifications")
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// ListTeamNotificationsHandler returns notifications for everyone on the player's team.
// GET /api/notifications/team
func (h *HuntAPIHandlers) ListTeamNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	list, err := h.svc.Notifications.ListTeam(ctx, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list team notifications")
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// MarkNotificationReadHandler
// PUT /api/notifications/{notificationId}/read
func (h *HuntAPIHandlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	n, err := h.svc.Notifications.MarkRead(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "mark notification read")
		return
	}
	api.WriteJSON(w, http.StatusOK, n)
}

// MarkNotificationViewedHandler
// PUT /api/notifications/{notificationId}/viewed
func (h *HuntAPIHandlers) MarkNotificationViewedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	n, err := h.svc.Notifications.MarkViewed(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "mark notification viewed")
		return
	}
	api.WriteJSON(w, http.StatusOK, n)
}

// ListKudosHandler lists active kudos categories with their current leaders.
// GET /api/kudos
func (h *HuntAPIHandlers) ListKudosHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	cats, err := h.svc.Kudos.List(ctx, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list kudos")
		return
	}
	api.WriteJSON(w, http.StatusOK, cats)
}

// VoteKudosHandler casts or moves the player's vote in a category.
// POST /api/kudos/{categoryId}/vote
func (h *HuntAPIHandlers) VoteKudosHandler(w http.ResponseWriter, r *http.Request) {
	catID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	var req VoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	nominee, err := parseID(req.NomineeID)
	if err != nil {
		api.WriteBadRequest(w, "Invalid nomineeId")
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	view, err := h.svc.Kudos.Vote(ctx, catID, playerFrom(r), nominee)
	if err != nil {
		h.writeError(w, err, "vote")
		return
	}
	api.WriteJSON(w, http.StatusOK, view)
}

// ListWallHandler lists posts on a player's or team's wall.
// GET /api/wall/{type}/{targetId}
func (h *HuntAPIHandlers) ListWallHandler(w http.ResponseWriter, r *http.Request) {
	target, err := service.ParseWallTarget(mux.Vars(r)["type"])
	if err != nil {
		h.writeError(w, err, "list wall")
		return
	}
	id, ok := pathID(w, r, "targetId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	posts, err := h.svc.Wall.List(ctx, target, id)
	if err != nil {
		h.writeError(w, err, "list wall")
		return
	}
	api.WriteJSON(w, http.StatusOK, posts)
}

// PostWallHandler writes on a wall.
// POST /api/wall/{type}/{targetId} (multipart: message, image)
func (h *HuntAPIHandlers) PostWallHandler(w http.ResponseWriter, r *http.Request) {
	target, err := service.ParseWallTarget(mux.Vars(r)["type"])
	if err != nil {
		h.writeError(w, err, "post to wall")
		return
	}
	id, ok := pathID(w, r, "targetId")
	if !ok {
		return
	}
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	image, err := f.file("image")
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	post, err := h.svc.Wall.Post(ctx, target, id, playerFrom(r), f.value("message"), image)
	if err != nil {
		h.writeError(w, err, "post to wall")
		return
	}
	api.WriteJSON(w, http.StatusCreated, post)
}

// ScoreboardHandler ranks every team.
// GET /api/scoreboard
func (h *HuntAPIHandlers) ScoreboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	board, err := h.svc.Scoreboard.GetScoreboard(ctx)
	if err != nil {
		h.writeError(w, err, "load scoreboard")
		return
	}
	api.WriteJSON(w, http.StatusOK, board)
}

// GetSettingsHandler returns the public game settings.
// GET /api/settings
func (h *HuntAPIHandlers) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	st, err := h.svc.Settings.Get(ctx)
	if err != nil {
		h.writeError(w, err, "load settings")
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}
