package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/taskapi/internal/httputil"
	"github.com/redmonkez12/taskapi/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity is the authenticated caller, taken from a verified token
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth rejects the request unless it carries a valid bearer token.
// On success the Identity is stored in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "Authentication required", httputil.CodeAuthRequired, http.StatusUnauthorized)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			httputil.RespondErrorWithCode(w, "Invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.Verify(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "Token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			logger.Debug("token rejected", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			httputil.RespondErrorWithCode(w, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: userID, Username: claims.Username})
		ctx = logging.WithUserID(ctx, userID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithIdentity stores id in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// IdentityFromContext extracts the identity set by RequireAuth
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	return id, ok
}
