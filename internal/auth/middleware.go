package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var identityKey contextKey

// IdentityFromContext returns the identity attached by Middleware. The bool
// is false on routes that never went through it.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Middleware rejects requests without a verifiable bearer token and attaches
// the token's identity to the request context for everything downstream.
// The scheme label is stripped by plain text replacement, matching how
// clients of this API have always sent it.
func Middleware(issuer *TokenIssuer, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Token não fornecido")
				return
			}

			tokenStr := strings.TrimSpace(strings.Replace(header, "Bearer", "", 1))

			identity, err := issuer.Verify(tokenStr)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				}).Warn("Rejected request with invalid token")
				unauthorized(w, "Token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
