package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nberchet/apothecary/pkg/auth"
	"github.com/nberchet/apothecary/pkg/cookiejar"
	"github.com/nberchet/apothecary/pkg/response"
)

type claimsKey struct{}

// Auth guards a route behind a valid session cookie. The token is pulled
// from the Cookie header, verified, and the claims are attached to the
// request context for the downstream handler. The gate only reads: it
// never touches the store and calls the handler exactly once on success.
func Auth(tokens *auth.Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookiejar.Token(r, cookieName)
			if strings.TrimSpace(token) == "" {
				response.Err(w, http.StatusUnauthorized, "Token d’authentification manquant ou invalide")
				return
			}

			claims, err := tokens.Verify(token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrTokenExpired):
				response.Err(w, http.StatusUnauthorized, "Session expirée, veuillez vous reconnecter.")
				return
			case errors.Is(err, auth.ErrTokenMalformed):
				response.Err(w, http.StatusUnauthorized, "Jeton non valide.")
				return
			default:
				response.Err(w, http.StatusInternalServerError, "Erreur d’authentification")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromCtx returns the verified claims attached by Auth, or nil on
// routes that did not pass through the gate.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}
