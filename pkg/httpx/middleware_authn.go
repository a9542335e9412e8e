package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/voucher/pkg/cryptox"
	"github.com/aussiebroadwan/voucher/pkg/slogx"
)

// ClientAuthMiddleware authenticates requests against a static registry of
// client tokens built once at startup. The registry maps a token's SHA-256
// fingerprint to the client name, so raw tokens are never held after config
// load. On success the client name is attached to the request context.
func ClientAuthMiddleware(registry map[string]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			name, ok := lookupClient(registry, raw)
			if !ok {
				log.Warn("client token rejected")
				writeBearerError(w, "unknown client token")
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyClient, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuthMiddleware gates admin endpoints behind HTTP basic auth verified
// against an Argon2id password hash from config. An empty hash disables the
// endpoints entirely rather than leaving them open.
func AdminAuthMiddleware(passwordHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			if passwordHash == "" {
				WriteJSON(w, http.StatusNotFound, ErrorResponse{
					Error:            "not_found",
					ErrorDescription: "Admin endpoints are not configured",
				})
				return
			}

			_, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if err := cryptox.VerifyPassword(password, passwordHash); err != nil {
				log.Warn("admin password rejected")
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// lookupClient compares the raw token's fingerprint against every registry
// entry in constant time per entry.
func lookupClient(registry map[string]string, raw string) (string, bool) {
	fp := []byte(cryptox.FingerprintToken(raw))
	for storedFP, name := range registry {
		if subtle.ConstantTimeCompare(fp, []byte(storedFP)) == 1 {
			return name, true
		}
	}
	return "", false
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
