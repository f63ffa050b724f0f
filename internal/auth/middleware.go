package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

type statusChecker interface {
	Status(ctx context.Context) (Status, error)
}

// RequireSession gates protected routes. Each request re-validates the stored
// token against the provider; on success the resulting Session is attached to
// the request context, otherwise the request is rejected with 401 and a fresh
// consent URL. Must not be mounted on the auth endpoints themselves.
func RequireSession(a statusChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, err := a.Status(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("authorization check failed")
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error": "Authorization check failed",
				})
				return
			}

			if !st.Authorized {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error":   "Not authorized",
					"authUrl": st.AuthURL,
				})
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, st.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the Session attached by RequireSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)

	return s, ok
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}
