package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/oakmart/storefront/internal/domain/auth"
)

// ScopeAdmin gates catalog mutations such as the featured toggle.
const ScopeAdmin = "admin"

type identityKey struct{}

// IdentityFromContext returns the authenticated API key info, if any.
func IdentityFromContext(ctx context.Context) (*auth.APIKeyInfo, bool) {
	info, ok := ctx.Value(identityKey{}).(*auth.APIKeyInfo)
	return info, ok
}

// requireAPIKey authenticates requests via the api_key header. The key is
// HMAC-SHA256 hashed with the server pepper, looked up, and compared in
// constant time; the resolved identity (including the acting user id) is
// stored in the request context.
func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("api_key")
		if key == "" {
			writeError(w, r, http.StatusUnauthorized, "missing api key")
			return
		}

		mac := hmac.New(sha256.New, h.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := h.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		stored, err := hex.DecodeString(info.KeyHash)
		if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireScope responds 403 unless the authenticated key carries the scope.
// Returns the identity and whether the request may proceed.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) (*auth.APIKeyInfo, bool) {
	info, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	if !info.HasScope(scope) {
		writeError(w, r, http.StatusForbidden, "insufficient scope")
		return nil, false
	}
	return info, true
}
