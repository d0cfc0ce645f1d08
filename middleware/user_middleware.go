package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/utils"
)

type contextKey string

const userKey contextKey = "user"

// UserLookup resolves a token subject to a user.
type UserLookup interface {
	UserByPublicID(ctx context.Context, publicID string) (*models.User, error)
}

// CurrentUser attaches the user named by the token subject to the request
// context. Requests without a token continue anonymously; a token whose user
// no longer exists is rejected.
func CurrentUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := utils.GetSubject(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByPublicID(r.Context(), subject)
			if errors.Is(err, store.ErrNotFound) {
				utils.WriteError(w, http.StatusUnauthorized, "User no longer exists")
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "CurrentUser: lookup failed", "error", err)
				utils.WriteError(w, http.StatusInternalServerError, "Failed to load user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}
