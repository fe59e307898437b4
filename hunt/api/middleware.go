package api

import (
	"context"
	"net/http"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/auth"
	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	playerContextKey = contextKey("player")
	adminContextKey  = contextKey("admin")
)

// RequirePlayer rejects requests without a valid player token and puts the player
// into the request context.
func (h *HuntAPIHandlers) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.claims(r)
		if !ok || claims.IsAdmin {
			api.WriteUnauthorized(w, "Player authentication required")
			return
		}
		user, status := h.loadPlayer(r, claims)
		if user == nil {
			h.writeAuthFailure(w, status)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerContextKey, user)))
	})
}

// OptionalPlayer attaches the player when a valid token is sent and carries on
// anonymously otherwise.
func (h *HuntAPIHandlers) OptionalPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := h.claims(r); ok && !claims.IsAdmin {
			if user, _ := h.loadPlayer(r, claims); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), playerContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin only lets game administrator tokens through.
func (h *HuntAPIHandlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.claims(r)
		if !ok {
			api.WriteUnauthorized(w, "Admin authentication required")
			return
		}
		if !claims.IsAdmin {
			api.WriteForbidden(w, "Admin access required")
			return
		}
		id, err := claims.SubjectID()
		if err != nil {
			api.WriteUnauthorized(w, err.Error())
			return
		}
		if status := h.checkAdmin(r, id); status != http.StatusOK {
			if status == http.StatusInternalServerError {
				api.WriteInternalServerError(w, "Failed to authenticate")
				return
			}
			api.WriteUnauthorized(w, "Admin no longer exists")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminContextKey, id)))
	})
}

func (h *HuntAPIHandlers) claims(r *http.Request) (*auth.Claims, bool) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, false
	}
	claims, err := h.tokens.Parse(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// loadPlayer resolves the token subject to a current player record.
func (h *HuntAPIHandlers) loadPlayer(r *http.Request, claims *auth.Claims) (*models.User, int) {
	id, err := claims.SubjectID()
	if err != nil {
		return nil, http.StatusUnauthorized
	}
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	user, err := h.svc.Users.Me(ctx, id)
	switch {
	case err == nil:
		return user, http.StatusOK
	case service.KindOf(err) == service.KindNotFound:
		return nil, http.StatusUnauthorized
	default:
		h.log.Error("Error loading player %s for request: %v", id.Hex(), err)
		return nil, http.StatusInternalServerError
	}
}

// checkAdmin confirms the admin token subject still has an account.
func (h *HuntAPIHandlers) checkAdmin(r *http.Request, id primitive.ObjectID) int {
	ctx, cancel := withTimeout(r, defaultTimeout)
	defer cancel()

	_, err := h.svc.Auth.Admin(ctx, id)
	switch {
	case err == nil:
		return http.StatusOK
	case service.KindOf(err) == service.KindNotFound:
		return http.StatusUnauthorized
	default:
		h.log.Error("Error loading admin %s for request: %v", id.Hex(), err)
		return http.StatusInternalServerError
	}
}

func (h *HuntAPIHandlers) writeAuthFailure(w http.ResponseWriter, status int) {
	if status == http.StatusInternalServerError {
		api.WriteInternalServerError(w, "Failed to authenticate")
		return
	}
	api.WriteUnauthorized(w, "Player no longer exists")
}

// playerFrom returns the authenticated player, or nil on optional-auth routes.
func playerFrom(r *http.Request) *models.User {
	u, _ := r.Context().Value(playerContextKey).(*models.User)
	return u
}

func adminFrom(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(adminContextKey).(primitive.ObjectID)
	return id, ok
}

// principalFrom returns whoever is acting: the admin on admin routes, else the player.
func principalFrom(r *http.Request) models.Principal {
	if id, ok := adminFrom(r); ok {
		return models.AdminPrincipal(id)
	}
	if u := playerFrom(r); u != nil {
		return models.UserPrincipal(u.ID)
	}
	return models.Principal{}
}

// guarded wraps a handler func with middleware for single route registration.
func guarded(mw mux.MiddlewareFunc, fn http.HandlerFunc) http.Handler {
	return mw(fn)
}
