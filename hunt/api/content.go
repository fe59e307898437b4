package api

import (
	"net/http"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/gorilla/mux"
)

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// contentInput reads the shared clue/question create fields.
func contentInput(f *form) (service.ContentInput, error) {
	in := service.ContentInput{
		Title:         f.value("title"),
		Text:          f.value("text"),
		Options:       f.list("options"),
		CorrectAnswer: f.value("correctAnswer"),
	}
	var err error
	if in.Order, err = f.optionalInt("order"); err != nil {
		return in, service.ValidationError("order", err.Error())
	}
	if in.Image, err = f.file("image"); err != nil {
		return in, service.ValidationError("image", err.Error())
	}
	return in, nil
}

func contentPatch(f *form) (store.ContentPatch, *media.Upload, error) {
	p := store.ContentPatch{
		Title:         f.optional("title"),
		Text:          f.optional("text"),
		CorrectAnswer: f.optional("correctAnswer"),
	}
	if f.has("options") {
		opts := f.list("options")
		p.Options = &opts
	}
	var err error
	if p.Order, err = f.optionalInt("order"); err != nil {
		return p, nil, service.ValidationError("order", err.Error())
	}
	image, err := f.file("image")
	if err != nil {
		return p, nil, service.ValidationError("image", err.Error())
	}
	return p, image, nil
}

// ListCluesHandler lists clues in hunt order. Answers are never included.
// GET /api/clues
func (h *HuntAPIHandlers) ListCluesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	clues, err := h.svc.Clues.List(ctx, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list clues")
		return
	}
	api.WriteJSON(w, http.StatusOK, clues)
}

// CreateClueHandler adds a clue.
// POST /api/clues, POST /api/admin/clues (multipart: title, text, options, correctAnswer, order, image)
func (h *HuntAPIHandlers) CreateClueHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in, err := contentInput(f)
	if err != nil {
		h.writeError(w, err, "create clue")
		return
	}
	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	clue, err := h.svc.Clues.Create(ctx, in)
	if err != nil {
		h.writeError(w, err, "create clue")
		return
	}
	api.WriteJSON(w, http.StatusCreated, clue)
	h.log.Info("Clue %s created.", clue.ID.Hex())
}

// GetClueHandler shows one clue and records the scan for signed-in players.
// GET /api/clues/{clueId}
func (h *HuntAPIHandlers) GetClueHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clueId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	clue, err := h.svc.Clues.Get(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "load clue")
		return
	}
	api.WriteJSON(w, http.StatusOK, clue)
}

// AnswerClueHandler checks a team's answer and advances the team on success.
// POST /api/clues/{clueId}/answer
func (h *HuntAPIHandlers) AnswerClueHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clueId")
	if !ok {
		return
	}
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	res, err := h.svc.Clues.Answer(ctx, id, playerFrom(r), req.Answer)
	if err != nil {
		h.writeError(w, err, "answer clue")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// GetQuestionHandler shows a question with the team's previous answer, if any.
// GET /api/questions/{questionId}
func (h *HuntAPIHandlers) GetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	q, err := h.svc.Questions.Get(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "load question")
		return
	}
	api.WriteJSON(w, http.StatusOK, q)
}

// AnswerQuestionHandler records the team's one answer to a question.
// POST /api/questions/{questionId}/answer
func (h *HuntAPIHandlers) AnswerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionId")
	if !ok {
		return
	}
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	res, err := h.svc.Questions.Answer(ctx, id, playerFrom(r), req.Answer)
	if err != nil {
		h.writeError(w, err, "answer question")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

// sideQuestTarget accepts either a "target" JSON object or targetType/targetId fields.
func sideQuestTarget(f *form) (*models.Target, bool, error) {
	var t models.Target
	if ok, err := f.decode("target", &t); err != nil {
		return nil, false, service.ValidationError("target", err.Error())
	} else if ok {
		return &t, true, nil
	}
	if !f.has("targetType") && !f.has("targetId") {
		return nil, false, nil
	}
	if f.value("targetType") == "" {
		return nil, true, nil
	}
	id, err := parseID(f.value("targetId"))
	if err != nil {
		return nil, false, service.ValidationError("targetId", "targetId must be a valid id")
	}
	return &models.Target{Type: models.TargetType(f.value("targetType")), ID: id}, true, nil
}

// ListSideQuestsHandler lists active side quests.
// GET /api/sidequests
func (h *HuntAPIHandlers) ListSideQuestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	quests, err := h.svc.SideQuests.List(ctx, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "list side quests")
		return
	}
	api.WriteJSON(w, http.StatusOK, quests)
}

// CreateSideQuestHandler creates a side quest. Players earn creator points for theirs.
// POST /api/sidequests, POST /api/admin/sidequests
func (h *HuntAPIHandlers) CreateSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	in := service.SideQuestInput{
		Title:             f.value("title"),
		Text:              f.value("text"),
		QuestType:         models.QuestType(f.value("questType")),
		RequiredMediaType: models.MediaKind(f.value("requiredMediaType")),
		Passcode:          f.value("passcode"),
		Options:           f.list("options"),
		CorrectOption:     f.value("correctOption"),
	}
	if in.Target, _, err = sideQuestTarget(f); err != nil {
		h.writeError(w, err, "create side quest")
		return
	}
	limit, err := f.optionalInt("timeLimitSeconds")
	if err != nil {
		h.writeError(w, service.ValidationError("timeLimitSeconds", err.Error()), "create side quest")
		return
	}
	if limit != nil {
		in.TimeLimitSeconds = *limit
	}
	if in.Active, err = f.optionalBool("active"); err != nil {
		h.writeError(w, service.ValidationError("active", err.Error()), "create side quest")
		return
	}
	if in.Image, err = f.file("image"); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	quest, err := h.svc.SideQuests.Create(ctx, principalFrom(r), in)
	if err != nil {
		h.writeError(w, err, "create side quest")
		return
	}
	api.WriteJSON(w, http.StatusCreated, quest)
	h.log.Info("Side quest %s created by %s.", quest.ID.Hex(), quest.CreatedBy)
}

// GetSideQuestHandler shows one side quest and records the scan.
// GET /api/sidequests/{sqId}
func (h *HuntAPIHandlers) GetSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sqId")
	if !ok {
		return
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	quest, err := h.svc.SideQuests.Get(ctx, id, playerFrom(r))
	if err != nil {
		h.writeError(w, err, "load side quest")
		return
	}
	api.WriteJSON(w, http.StatusOK, quest)
}

// UpdateSideQuestHandler edits a side quest. Players may only edit their own.
// PUT /api/sidequests/{sqId}, PUT /api/admin/sidequests/{sqId}
func (h *HuntAPIHandlers) UpdateSideQuestHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sqId")
	if !ok {
		return
	}
	f, err := readForm(r, h.opts.MaxUploadBytes)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	defer f.close()

	patch := store.SideQuestPatch{
		Title:         f.optional("title"),
		Text:          f.optional("text"),
		Passcode:      f.optional("passcode"),
		CorrectOption: f.optional("correctOption"),
	}
	if v := f.optional("questType"); v != nil {
		qt := models.QuestType(*v)
		patch.QuestType = &qt
	}
	if v := f.optional("requiredMediaType"); v != nil {
		mk := models.MediaKind(*v)
		patch.RequiredMediaType = &mk
	}
	if f.has("options") {
		opts := f.list("options")
		patch.Options = &opts
	}
	target, present, err := sideQuestTarget(f)
	if err != nil {
		h.writeError(w, err, "update side quest")
		return
	}
	patch.Target = target
	patch.ClearTarget = present && target == nil
	if patch.TimeLimitSeconds, err = f.optionalInt("timeLimitSeconds"); err != nil {
		h.writeError(w, service.ValidationError("timeLimitSeconds", err.Error()), "update side quest")
		return
	}
	if patch.Active, err = f.optionalBool("active"); err != nil {
		h.writeError(w, service.ValidationError("active", err.Error()), "update side quest")
		return
	}
	image, err := f.file("image")
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := withTimeout(r, uploadTimeout)
	defer cancel()

	quest, err := h.svc.SideQuests.Update(ctx, principalFrom(r), id, patch, image)
	if err != nil {
		h.writeError(w, err, "update side quest")
		return
	}
	api.WriteJSON(w, http.StatusOK, quest)
}

// ProgressHandler reports who has scanned each item of a type.
// GET /api/progress/{type} where type is clue, question, sidequest or player
func (h *HuntAPIHandlers) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	stats, err := h.svc.Progress.GetItemScanStats(ctx, mux.Vars(r)["type"], playerFrom(r))
	if err != nil {
		h.writeError(w, err, "load progress")
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}
