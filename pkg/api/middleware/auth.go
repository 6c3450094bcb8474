package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/internal/auth"
)

type claimsContextKey struct{}

// Authenticate verifies the Authorization bearer token and stores the
// resulting auth.Claims in the request context for downstream
// handlers — the whole spec §6 "token verification → claim
// extraction" boundary step. A failure here never reaches a handler;
// it is written straight to the envelope.
func Authenticate(a *auth.Authenticator, writeErr func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeErr(w, apperrors.NewForbiddenError("missing bearer token"))
				return
			}

			claims, err := a.Authenticate(r.Context(), token)
			if err != nil {
				writeErr(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, returning "" for any other shape.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// ClaimsFromContext retrieves the auth.Claims a prior Authenticate call
// stored on the request context.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(auth.Claims)
	return claims, ok
}
