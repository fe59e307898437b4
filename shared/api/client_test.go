package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scoreboard", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		WriteJSON(w, http.StatusOK, map[string]int{"teams": 2})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil).WithBearerToken("tok")
	var out map[string]int
	require.NoError(t, c.Get(context.Background(), "/api/scoreboard", &out))
	assert.Equal(t, 2, out["teams"])
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "not found", status: http.StatusNotFound, sentinel: ErrNotFound},
		{name: "bad request", status: http.StatusBadRequest, sentinel: ErrBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, sentinel: ErrForbidden},
		{name: "server error", status: http.StatusBadGateway, sentinel: ErrInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				WriteError(w, tt.status, "nope")
			}))
			defer srv.Close()

			err := NewClient(srv.URL, nil).Get(context.Background(), "/x", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, tt.status, GetHTTPStatusCode(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestWriteErrorFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorFields(rec, http.StatusBadRequest, "name is required", map[string]string{"name": "name is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"name is required","code":400,"fields":{"name":"name is required"}}`, rec.Body.String())
}
