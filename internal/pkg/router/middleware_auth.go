package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gosso/internal/pkg/config"
)

// DefaultSessionCookie is used when session.cookie_name is not configured.
const DefaultSessionCookie = "gosso_session"

func middlewareAuthentication(cfg config.Config, auth TokenVerifier, publicEndpoints map[string]map[string]struct{}) Middleware {
	cookieName := DefaultSessionCookie
	if cfg != nil {
		if name := strings.TrimSpace(cfg.GetString("session.cookie_name")); name != "" {
			cookieName = name
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			if auth == nil {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			token := sessionToken(r, cookieName)
			if token == "" {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			ctx, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				writeJSON(w, map[string]string{"message": "Invalid or expired session"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the session cookie and falls back to a bearer token,
// so browser clients and API clients can share the same endpoints.
func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	p := strings.Fields(r.Header.Get("Authorization"))
	if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
		return p[1]
	}

	return ""
}
