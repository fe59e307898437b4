package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScoreboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/scoreboard", r.URL.Path)
		api.WriteJSON(w, http.StatusOK, models.Scoreboard{
			Teams:   []models.TeamScoreEntry{{TeamName: "A", Score: 45, Rank: 1}, {TeamName: "B", Score: 30, Rank: 2}},
			Weights: models.DefaultScoreWeights(),
		})
	}))
	defer srv.Close()

	sb, err := NewHuntClient(srv.URL).GetScoreboard(context.Background())
	require.NoError(t, err)
	require.Len(t, sb.Teams, 2)
	assert.Equal(t, "A", sb.Teams[0].TeamName)
	assert.Equal(t, 10, sb.Weights.CorrectAnswer)
}

func TestGetScoreboardServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteInternalServerError(w, "boom")
	}))
	defer srv.Close()

	_, err := NewHuntClient(srv.URL).GetScoreboard(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrInternalError))
}
