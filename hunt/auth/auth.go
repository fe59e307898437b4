// Package auth issues and verifies the bearer tokens used by players and admins.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "hunt-api"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrBadPassword  = errors.New("invalid credentials")
)

// Claims represents the authorization claims transmitted via a JWT. IsAdmin marks a
// game administrator token; team leaders are players and never carry it.
type Claims struct {
	jwt.StandardClaims
	IsAdmin bool   `json:"isAdmin,omitempty"`
	Team    string `json:"team,omitempty"`
}

// SubjectID parses the subject claim.
func (c *Claims) SubjectID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}

// TokenManager signs tokens with a shared HS256 secret.
type TokenManager struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time // mockable
}

func NewTokenManager(secret string, expiration time.Duration) *TokenManager {
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), expiration: expiration, now: time.Now}
}

// IssuePlayer returns a token for a player, optionally bound to a team.
func (m *TokenManager) IssuePlayer(userID primitive.ObjectID, team *primitive.ObjectID) (string, error) {
	c := m.claims(userID)
	if team != nil {
		c.Team = team.Hex()
	}
	return m.sign(c)
}

// IssueAdmin returns a token for a game administrator.
func (m *TokenManager) IssueAdmin(adminID primitive.ObjectID) (string, error) {
	c := m.claims(adminID)
	c.IsAdmin = true
	return m.sign(c)
}

func (m *TokenManager) claims(sub primitive.ObjectID) *Claims {
	now := m.now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   sub.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.expiration).Unix(),
		},
	}
}

func (m *TokenManager) sign(c *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	ss, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return ss, nil
}

// Parse verifies signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrBadPassword
	}
	return nil
}
