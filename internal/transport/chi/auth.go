package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	authpkg "github.com/kailas-cloud/caskbook/internal/auth"
	"github.com/kailas-cloud/caskbook/internal/logger"
)

// TokenValidator checks access tokens.
type TokenValidator interface {
	Validate(token string, want authpkg.TokenType) (*authpkg.Claims, error)
}

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":                     {},
	"/ready":                      {},
	"/metrics":                    {},
	"/api/v1/auth/register":       {},
	"/api/v1/auth/login":          {},
	"/api/v1/auth/refresh":        {},
	"/api/v1/auth/password/reset": {},
}

// exemptPrefixes cover the public catalog.
var exemptPrefixes = []string{
	"/api/v1/whiskies",
	"/api/v1/distilleries",
}

func isExempt(path string) bool {
	if _, ok := exemptPaths[path]; ok {
		return true
	}
	for _, p := range exemptPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

type userIDKey struct{}

// ContextWithUserID stores the authenticated user ID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID, or "" on exempt routes.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// BearerAuthMiddleware validates access tokens and puts the subject into the
// request context.
func BearerAuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorResponseCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			claims, err := tokens.Validate(header[len(bearerPrefix):], authpkg.TokenAccess)
			if err != nil {
				logger.FromContext(r.Context()).Debug("rejected access token", zap.Error(err))
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, "invalid or expired token")
				return
			}

			ctx := ContextWithUserID(r.Context(), claims.Subject)
			ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With(zap.String("user_id", claims.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
