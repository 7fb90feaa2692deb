package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// WithPlayerID returns a context carrying the authenticated player's ID.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, contextKey{}, playerID)
}

func PlayerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Middleware rejects requests without a valid token. The token is read from
// "Authorization: Bearer <token>" or, for websocket upgrades where browsers
// cannot set headers, from the token query parameter.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		playerID, err := s.ParseToken(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), playerID)))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
