package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueAndParsePlayer(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user, team := primitive.NewObjectID(), primitive.NewObjectID()

	token, err := m.IssuePlayer(user, &team)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, team.Hex(), claims.Team)

	sub, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, user, sub)
}

func TestIssueAdmin(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.IssueAdmin(primitive.NewObjectID())
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.IssuePlayer(primitive.NewObjectID(), nil)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.IssuePlayer(primitive.NewObjectID(), nil)
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrBadPassword)
	assert.ErrorIs(t, CheckPassword("", "hunter2"), ErrBadPassword)
}
