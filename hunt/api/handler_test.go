package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/api"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store/inmem"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testAPI struct {
	router *mux.Router
	stores service.Stores
	svc    *service.Services
	tokens *auth.TokenManager
	admin  string
}

func newTestAPI(t *testing.T, opts api.Options) *testAPI {
	t.Helper()

	uploads := t.TempDir()
	storage, err := media.NewLocalStorage(uploads, "/uploads", logger.Discard())
	require.NoError(t, err)

	a := &testAPI{
		router: mux.NewRouter(),
		stores: inmem.NewDB().Stores(),
		tokens: auth.NewTokenManager("test-secret", time.Hour),
	}
	a.svc = service.New(service.Deps{
		Stores:        a.stores,
		Media:         storage,
		Tokens:        a.tokens,
		Log:           logger.Discard(),
		PublicBaseURL: "https://hunt.example",
	})
	opts.UploadsDir = uploads
	api.NewHuntAPIHandlers(a.svc, a.tokens, logger.Discard(), opts).RegisterRoutes(a.router)

	root, err := a.svc.Auth.CreateAdmin(context.Background(), "root", "password123")
	require.NoError(t, err)
	a.admin, err = a.tokens.IssueAdmin(root.ID)
	require.NoError(t, err)
	return a
}

// player creates a teamed player and returns it with a bearer token.
func (a *testAPI) player(t *testing.T, first string, team *models.Team) (*models.User, string) {
	t.Helper()
	u := &models.User{Name: first, FirstName: first, NotificationPrefs: models.DefaultNotificationPrefs()}
	var teamID *primitive.ObjectID
	if team != nil {
		teamID = &team.ID
		u.Team = teamID
	}
	require.NoError(t, a.stores.Users.Create(context.Background(), u))
	token, err := a.tokens.IssuePlayer(u.ID, teamID)
	require.NoError(t, err)
	return u, token
}

func (a *testAPI) team(t *testing.T, name string) *models.Team {
	t.Helper()
	team, err := a.svc.Teams.Create(context.Background(), name, models.ColourScheme{Primary: "#000000"})
	require.NoError(t, err)
	return team
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.serve(req, token)
}

func (a *testAPI) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	rec := a.do(t, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthGuards(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	_, playerToken := a.player(t, "ann", nil)
	strangerToken, err := a.tokens.IssueAdmin(primitive.NewObjectID())
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"player route without token", "GET", "/api/users/me", "", http.StatusUnauthorized},
		{"player route with garbage token", "GET", "/api/users/me", "not-a-jwt", http.StatusUnauthorized},
		{"player route with admin token", "GET", "/api/users/me", a.admin, http.StatusUnauthorized},
		{"player route with player token", "GET", "/api/users/me", playerToken, http.StatusOK},
		{"admin route without token", "GET", "/api/admin/clues", "", http.StatusUnauthorized},
		{"admin route with player token", "GET", "/api/admin/clues", playerToken, http.StatusForbidden},
		{"admin route with admin token", "GET", "/api/admin/clues", a.admin, http.StatusOK},
		{"admin route with unknown admin", "GET", "/api/admin/clues", strangerToken, http.StatusUnauthorized},
		{"optional route anonymous", "GET", "/api/clues", "", http.StatusOK},
		{"malformed id", "GET", "/api/clues/xyz", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDeletedPlayerTokenIsRejected(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	u, token := a.player(t, "ann", nil)
	require.NoError(t, a.stores.Users.Delete(context.Background(), u.ID))

	rec := a.do(t, "GET", "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedAdminTokenIsRejected(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	rec := a.do(t, "GET", "/api/admin/players", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, a.svc.Auth.DeleteAdmin(context.Background(), "root"))

	rec = a.do(t, "GET", "/api/admin/players", a.admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin no longer exists")
}

func TestRegisterLoginFlow(t *testing.T) {
	a := newTestAPI(t, api.Options{})

	rec := a.do(t, "POST", "/api/auth/register", "", map[string]string{"name": "ann", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res service.AuthResult
	decode(t, rec, &res)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "ann", res.User.Name)

	rec = a.do(t, "GET", "/api/users/me", res.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = a.do(t, "POST", "/api/auth/register", "", map[string]string{"name": "ann", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, "POST", "/api/auth/login", "", map[string]string{"name": "ann", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, "POST", "/api/auth/login", "", map[string]string{"name": "ann", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidationErrorsNameFields(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	_, token := a.player(t, "ann", nil)

	tests := []struct {
		name  string
		path  string
		token string
		body  interface{}
		field string
		msg   string
	}{
		{"blank register name", "/api/auth/register", "", map[string]string{"name": "  ", "password": "secret1"}, "name", "name cannot be blank"},
		{"short password", "/api/auth/register", "", map[string]string{"name": "bob", "password": "abc"}, "password", ""},
		{"bad nominee id", "/api/kudos/" + primitive.NewObjectID().Hex() + "/vote", token, map[string]string{"nomineeId": "nope"}, "nomineeId", "nomineeId must be a valid id"},
		{"missing emoji", "/api/reactions", token, map[string]string{"mediaId": primitive.NewObjectID().Hex()}, "emoji", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, "POST", tt.path, tt.token, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body struct {
				Message string            `json:"message"`
				Fields  map[string]string `json:"fields"`
			}
			decode(t, rec, &body)
			require.Contains(t, body.Fields, tt.field)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body.Fields[tt.field])
			}
		})
	}
}

func TestClueHuntEndToEnd(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	team := a.team(t, "Rockets")
	_, token := a.player(t, "ann", team)

	rec := a.do(t, "POST", "/api/admin/clues", a.admin, map[string]interface{}{
		"title":         "Colour",
		"text":          "What colour is the sky?",
		"correctAnswer": "blue",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var clue models.Clue
	decode(t, rec, &clue)
	assert.Equal(t, 1, clue.Order)

	rec = a.do(t, "GET", "/api/clues", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctAnswer")

	rec = a.do(t, "POST", "/api/clues/"+clue.ID.Hex()+"/answer", token, map[string]string{"answer": "green"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"correct":false,"nextClue":1}`, rec.Body.String())

	rec = a.do(t, "POST", "/api/clues/"+clue.ID.Hex()+"/answer", token, map[string]string{"answer": " BLUE "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"correct":true,"nextClue":2}`, rec.Body.String())

	rec = a.do(t, "GET", "/api/clues/"+clue.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.ClueView
	decode(t, rec, &view)
	assert.True(t, view.Solved)

	rec = a.do(t, "GET", "/api/admin/clues/"+clue.ID.Hex()+"/qr", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var qr service.QRCode
	decode(t, rec, &qr)
	assert.Equal(t, "https://hunt.example/clue/"+clue.ID.Hex(), qr.URL)
	assert.Contains(t, qr.DataURL, "data:image/png;base64,")
}

func TestReactionsUpsertAndGallerySort(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	ctx := context.Background()
	team := a.team(t, "Rockets")
	_, ann := a.player(t, "ann", team)
	_, bob := a.player(t, "bob", team)

	older := &models.Media{URL: "/uploads/a.png", Type: models.MediaTypeOther, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Media{URL: "/uploads/b.png", Type: models.MediaTypeOther, CreatedAt: time.Now()}
	require.NoError(t, a.stores.Media.Create(ctx, older))
	require.NoError(t, a.stores.Media.Create(ctx, newer))

	path := "/api/roguery/" + older.ID.Hex() + "/react"
	require.Equal(t, http.StatusOK, a.do(t, "POST", path, ann, map[string]string{"emoji": "🔥"}).Code)
	require.Equal(t, http.StatusOK, a.do(t, "POST", path, ann, map[string]string{"emoji": "😂"}).Code)
	rec := a.do(t, "POST", "/api/reactions", bob, map[string]string{"mediaId": older.ID.Hex(), "emoji": "😂"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, "GET", "/api/reactions/"+older.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reactions []models.Reaction
	decode(t, rec, &reactions)
	require.Len(t, reactions, 2)
	for _, r := range reactions {
		assert.Equal(t, "😂", r.Emoji)
	}

	rec = a.do(t, "GET", "/api/roguery?sort=best", ann, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []service.GalleryItem
	decode(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ID)
	assert.Equal(t, 2, items[0].TotalReactions)
	assert.Equal(t, "😂", items[0].MyReaction)

	rec = a.do(t, "GET", "/api/roguery", "", nil)
	decode(t, rec, &items)
	assert.Equal(t, newer.ID, items[0].ID)

	rec = a.do(t, "PUT", "/api/admin/gallery/"+older.ID.Hex()+"/hidden", a.admin, map[string]bool{"hidden": true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(t, "GET", "/api/roguery", "", nil)
	decode(t, rec, &items)
	assert.Len(t, items, 1)
}

func TestBroadcastReachesEveryPlayer(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	_, ann := a.player(t, "ann", nil)
	a.player(t, "bob", nil)

	rec := a.do(t, "POST", "/api/admin/notifications/broadcast", a.admin, map[string]string{"message": "Pizza at 6"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"sent":2}`, rec.Body.String())

	rec = a.do(t, "GET", "/api/notifications", ann, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ns []models.Notification
	decode(t, rec, &ns)
	require.Len(t, ns, 1)
	assert.Equal(t, "Pizza at 6", ns[0].Message)

	rec = a.do(t, "PUT", "/api/notifications/"+ns[0].ID.Hex()+"/read", ann, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var n models.Notification
	decode(t, rec, &n)
	assert.True(t, n.Read)
}

func TestOnboardMultipart(t *testing.T) {
	a := newTestAPI(t, api.Options{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("firstName", "Ann"))
	require.NoError(t, mw.WriteField("lastName", "Stone"))
	require.NoError(t, mw.WriteField("isNewTeam", "true"))
	require.NoError(t, mw.WriteField("teamName", "Rockets"))
	part, err := mw.CreateFormFile("selfie", "me.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/onboard", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := a.serve(req, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res service.OnboardResult
	decode(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Rockets", res.Team.Name)
	assert.NotEmpty(t, res.User.PhotoURL)

	rec = a.do(t, "GET", "/api/onboard/teams", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rockets")

	rec = a.do(t, "GET", res.User.PhotoURL, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMasterResetNeedsConfirmation(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	a.player(t, "ann", nil)

	rec := a.do(t, "POST", "/api/admin/settings/master-reset", a.admin, map[string]string{"confirm": "yes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, "POST", "/api/admin/settings/master-reset", a.admin, map[string]string{"confirm": service.ResetConfirmation})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, "GET", "/api/admin/players", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.User
	decode(t, rec, &users)
	assert.Empty(t, users)
}

func TestDownloadMediaIsZip(t *testing.T) {
	a := newTestAPI(t, api.Options{})
	rec := a.do(t, "GET", "/api/admin/media/download", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestSPAFallback(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>hunt</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log(1)"), 0o644))
	a := newTestAPI(t, api.Options{StaticDir: static})

	rec := a.do(t, "GET", "/clue/abc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hunt")

	rec = a.do(t, "GET", "/app.js", "", nil)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = a.do(t, "GET", "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}
