package service

import (
	"context"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	Token string        `json:"token"`
	User  *models.User  `json:"user,omitempty"`
	Admin *models.Admin `json:"admin,omitempty"`
}

type RegisterInput struct {
	Name     string
	Password string
	Email    string
}

// AuthService handles player and admin credentials.
type AuthService struct {
	stores Stores
	tokens *auth.TokenManager
}

func NewAuthService(stores Stores, tokens *auth.TokenManager) *AuthService {
	return &AuthService{stores: stores, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("name", "name is required")
	}
	if len(in.Password) < 6 {
		return nil, ValidationError("password", "password must be at least 6 characters")
	}

	if _, err := s.stores.Users.GetByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "check player name")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:              name,
		Email:             strings.TrimSpace(in.Email),
		PasswordHash:      hash,
		NotificationPrefs: models.DefaultNotificationPrefs(),
	}
	if err := s.stores.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, errors.Wrap(err, "create player")
	}
	return s.playerResult(u)
}

func (s *AuthService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	u, err := s.stores.Users.GetByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "load player")
	}
	if u.PasswordHash == "" || auth.CheckPassword(u.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.playerResult(u)
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	a, err := s.stores.Admins.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "load admin")
	}
	if auth.CheckPassword(a.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.IssueAdmin(a.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: a}, nil
}

// CreateAdmin adds an administrator account. Used by the admin CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ValidationError("username", "username is required")
	}
	if len(password) < 8 {
		return nil, ValidationError("password", "password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.stores.Admins.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "create admin")
	}
	return a, nil
}

// Admin loads the administrator behind an admin token.
func (s *AuthService) Admin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	a, err := s.stores.Admins.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrAdminNotFound, "load admin")
	}
	return a, nil
}

// DeleteAdmin removes an administrator account. Tokens already issued to it stop
// working on the next request.
func (s *AuthService) DeleteAdmin(ctx context.Context, username string) error {
	a, err := s.stores.Admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return lookup(err, ErrAdminNotFound, "load admin")
	}
	return lookup(s.stores.Admins.Delete(ctx, a.ID), ErrAdminNotFound, "delete admin")
}

// ResetAdminPassword replaces an administrator's password. Used by the admin CLI.
func (s *AuthService) ResetAdminPassword(ctx context.Context, username, password string) error {
	if len(password) < 8 {
		return ValidationError("password", "password must be at least 8 characters")
	}
	a, err := s.stores.Admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return lookup(err, ErrAdminNotFound, "load admin")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return errors.Wrap(s.stores.Admins.SetPassword(ctx, a.ID, hash), "set admin password")
}

func (s *AuthService) playerResult(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.IssuePlayer(u.ID, u.Team)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}
