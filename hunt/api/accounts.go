package api

import (
	"net/http"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type ColourRequest struct {
	Primary   string `json:"primary" validate:"notblank"`
	Secondary string `json:"secondary"`
}

// RegisterHandler creates a password account.
// POST /api/auth/register
func (h *HuntAPIHandlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	res, err := h.svc.Auth.Register(ctx, service.RegisterInput{Name: req.Name, Password: req.Password, Email: req.Email})
	if err != nil {
		h.writeError(w, err, "register player")
		return
	}
	api.WriteJSON(w, http.StatusCreated, res)
	h.log.Info("Player %s registered.", res.User.Name)
}

// LoginHandler signs a player in.
// POST /api/auth/login
func (h *HuntAPIHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	res, err := h.svc.Auth.Login(ctx, req.Name, req.Password)
	if err != nil {
		h.writeError(w, err, "log in")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// AdminLoginHandler signs a game administrator in.
// POST /api/admin/login
func (h *HuntAPIHandlers) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	res, err := h.svc.Auth.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(w, err, "log in")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// OnboardTeamsHandler lists the teams a new player can join.
// GET /api/onboard/teams
func (h *HuntAPIHandlers) OnboardTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	teams, err := h.svc.Onboard.ListTeams(ctx)
	if err != nil {
		h.writeError(w, err, "list teams")
		return
	}
	api.WriteJSON(w, http.StatusOK, teams)
}

// OnboardHandler creates a player and places them on a team.
// POST /api/onboard (multipart: firstName, lastName, isNewTeam, teamName|leaderLastName, selfie, teamPhoto)
func (h *HuntAPIHandlers) OnboardHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in := service.OnboardInput{
		FirstName:      f.value("firstName"),
		LastName:       f.value("lastName"),
		IsNewTeam:      f.flag("isNewTeam"),
		TeamName:       f.value("teamName"),
		LeaderLastName: f.value("leaderLastName"),
	}
	if in.Selfie, err = f.file("selfie"); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	if in.TeamPhoto, err = f.file("teamPhoto"); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	res, err := h.svc.Onboard.Onboard(ctx, in)
	if err != nil {
		h.writeError(w, err, "onboard player")
		return
	}
	api.WriteJSON(w, http.StatusCreated, res)
}

// MeHandler returns the signed-in player.
// GET /api/users/me
func (h *HuntAPIHandlers) MeHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, playerFrom(r))
}

// UpdateMeHandler edits the signed-in player's profile.
// PUT /api/users/me (multipart, optional selfie and notificationPrefs JSON)
func (h *HuntAPIHandlers) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in := service.UpdateMeInput{
		FirstName: f.optional("firstName"),
		LastName:  f.optional("lastName"),
		Email:     f.optional("email"),
	}
	var prefs models.NotificationPrefs
	if ok, err := f.decode("notificationPrefs", &prefs); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	} else if ok {
		in.NotificationPrefs = &prefs
	}
	if in.Selfie, err = f.file("selfie"); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	user, err := h.svc.Users.UpdateMe(ctx, playerFrom(r), in)
	if err != nil {
		h.writeError(w, err, "update profile")
		return
	}
	api.WriteJSON(w, http.StatusOK, user)
}

// MyQRHandler returns the QR code other players scan to find the signed-in player.
// GET /api/users/me/qr
func (h *HuntAPIHandlers) MyQRHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	code, err := h.svc.QR.Player(ctx, playerFrom(r).ID)
	if err != nil {
		h.writeError(w, err, "render QR code")
		return
	}
	api.WriteJSON(w, http.StatusOK, code)
}

// ProfileHandler shows another player. Authenticated viewers record a scan.
// GET /api/users/{userId}
func (h *HuntAPIHandlers) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	profile, err := h.svc.Users.GetProfile(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "load player")
		return
	}
	api.WriteJSON(w, http.StatusOK, profile)
}

// GetTeamHandler returns a team and its players.
// GET /api/teams/{teamId}
func (h *HuntAPIHandlers) GetTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	team, err := h.svc.Teams.Get(ctx, id)
	if err != nil {
		h.writeError(w, err, "load team")
		return
	}
	api.WriteJSON(w, http.StatusOK, team)
}

// SetTeamColourHandler changes the team colours. Members only.
// PUT /api/teams/{teamId}/colour
func (h *HuntAPIHandlers) SetTeamColourHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	var req ColourRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	team, err := h.svc.Teams.SetColour(ctx, id, playerFrom(r), models.ColourScheme{Primary: req.Primary, Secondary: req.Secondary})
	if err != nil {
		h.writeError(w, err, "set team colour")
		return
	}
	api.WriteJSON(w, http.StatusOK, team)
}

// AddTeamMemberHandler adds a named member without an account. Leader only.
// POST /api/teams/{teamId}/members (multipart: name, avatar)
func (h *HuntAPIHandlers) AddTeamMemberHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	avatar, err := f.file("avatar")
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	team, err := h.svc.Teams.AddMember(ctx, id, playerFrom(r), f.value("name"), avatar)
	if err != nil {
		h.writeError(w, err, "add team member")
		return
	}
	api.WriteJSON(w, http.StatusCreated, team)
}

// TeamSideQuestsHandler lists side quests with the team's completion state.
// GET /api/teams/{teamId}/sidequests
func (h *HuntAPIHandlers) TeamSideQuestsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	quests, err := h.svc.SideQuests.ListForTeam(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list side quests")
		return
	}
	api.WriteJSON(w, http.StatusOK, quests)
}

// CompleteSideQuestHandler submits proof for a side quest on behalf of the player's team.
// POST /api/teams/{teamId}/sidequests/{sqId}/complete (multipart: passcode, answer, media)
func (h *HuntAPIHandlers) CompleteSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamId")
	if !ok {
		return
	}
	questID, ok := pathID(w, r, "sqId")
	if !ok {
		return
	}
	me := playerFrom(r)
	if !me.OnTeam(teamID) {
		h.writeError(w, service.ErrNotTeamMember, "complete side quest")
		return
	}

	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in := service.SubmitProofInput{Passcode: f.value("passcode"), Answer: f.value("answer")}
	for _, key := range []string{"media", "file"} {
		if in.File != nil {
			break
		}
		if in.File, err = f.file(key); err != nil {
			api.WriteBadRequest(w, err.Error())
			return
		}
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	res, err := h.svc.SideQuests.SubmitProof(ctx, questID, me, in)
	if err != nil {
		h.writeError(w, err, "complete side quest")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
	h.log.Info("Side quest %s completed by team %s.", questID.Hex(), teamID.Hex())
}
