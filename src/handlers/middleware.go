package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/utils"
)

type contextKey string

const (
	requestIDContextKey   contextKey = "requestID"
	statementIDContextKey contextKey = "statementID"
)

// ContextualLoggerMiddleware attaches a request-scoped logger carrying a
// generated request ID to every request.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenValidator validates a statement token and returns the statement ID
// it grants access to.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// StatementAuthMiddleware requires a bearer statement token whose subject
// matches the {id} route parameter. Tokens are scoped to exactly one
// statement; there are no user accounts.
func StatementAuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxLogger := logger.FromContext(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				ctxLogger.Debug("Statement auth: Authorization header missing", "path", r.URL.Path)
				utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
				return
			}

			statementID, err := tokens.ValidateToken(tokenString)
			if err != nil {
				ctxLogger.Warn("Statement auth: token validation failed", "path", r.URL.Path, "error", err)
				utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			if routeID := chi.URLParam(r, "id"); routeID != "" && routeID != statementID {
				ctxLogger.Warn("Statement auth: token does not match requested statement",
					"tokenStatementID", statementID, "routeStatementID", routeID)
				utils.SendJSONError(w, "Token does not grant access to this statement", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), statementIDContextKey, statementID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetStatementIDFromContext returns the statement ID the request's token
// was scoped to.
func GetStatementIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(statementIDContextKey).(string)
	return id, ok
}

// RequireStatementAccess resolves the {id} route parameter and verifies the
// request's token is scoped to it, writing the error response itself when
// access is denied. Route params are not visible to inline middleware, so
// the final token-to-route check happens here in the handler.
func RequireStatementAccess(w http.ResponseWriter, r *http.Request) (string, bool) {
	routeID := chi.URLParam(r, "id")
	tokenID, ok := GetStatementIDFromContext(r.Context())
	if !ok || routeID == "" || tokenID != routeID {
		utils.SendJSONError(w, "Token does not grant access to this statement", http.StatusForbidden)
		return "", false
	}
	return routeID, true
}
