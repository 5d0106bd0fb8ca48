package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

const SessionCookieName = "sf_session"

// SessionRegistry creates or refreshes the in-memory state for a session id.
type SessionRegistry interface {
	NewID() string
	Ensure(ctx context.Context, id string) *usecase.Session
}

// NewSessionMiddleware attaches an anonymous session to the request and adds
// its id to the request logger. The id travels in a signed cookie; a
// missing, tampered or expired cookie gets a new session.
func NewSessionMiddleware(sessions SessionRegistry, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if id, err := utils.ValidateSessionToken(cookie.Value); err == nil {
					sessionID = id
				}
			}

			if sessionID == "" {
				sessionID = sessions.NewID()
			}

			// Re-issue on every request so the cookie slides with the session.
			token, err := utils.GenerateSessionToken(sessionID, ttl)
			if err != nil {
				logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to sign session token")
				utils.WriteError(w, http.StatusInternalServerError, "Session unavailable")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			sessions.Ensure(r.Context(), sessionID)

			ctx := context.WithValue(r.Context(), domain.SessionContextKey, sessionID)
			sessionLogger := logger.WithSessionID(*logger.WithContext(ctx), sessionID)
			ctx = logger.NewContext(ctx, &sessionLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session id attached by the session middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(domain.SessionContextKey).(string)
	return id
}
