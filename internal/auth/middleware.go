package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/session"
	"github.com/saulo-duarte/strive/internal/web"
)

const LoginPath = "/login"

var ErrUnauthenticated = errors.New("user not authenticated")

// Identity is the signed in user as seen by handlers.
type Identity struct {
	UserID   uint
	Username string
}

type identityKey struct{}

// RequireUser lets the request through only with an authenticated session.
// Anonymous visitors are sent to the login page without a message.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			config.WithContext(r.Context()).WithField("path", r.URL.Path).Debug("Anonymous request redirected to login")
			web.Redirect(w, r, LoginPath)
			return
		}

		id := &Identity{UserID: sess.UserID(), Username: sess.Username()}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// WithIdentity stores id for handlers and tags log entries with the user.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return config.WithUser(context.WithValue(ctx, identityKey{}, id), id.UserID)
}

func GetUserFromContext(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || id == nil {
		return nil, ErrUnauthenticated
	}
	return id, nil
}

// UserID returns the authenticated user's id or zero.
func UserID(r *http.Request) uint {
	id, err := GetUserFromContext(r.Context())
	if err != nil {
		return 0
	}
	return id.UserID
}
