package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

type Keys struct {
	Public []string
	Admin  []string
}

// RequireAny admits requests presenting either a public or admin key.
// With no keys configured it admits everything (local runs).
func RequireAny(keys Keys) func(http.Handler) http.Handler {
	return gate(http.StatusUnauthorized, keys.Public, keys.Admin)
}

// RequireAdmin only admits admin keys. Aborting a run is destructive enough
// to gate separately. With no admin keys configured it admits everything.
func RequireAdmin(keys Keys) func(http.Handler) http.Handler {
	return gate(http.StatusForbidden, keys.Admin)
}

// gate rejects with rejectCode unless the request presents a key from one of
// the sets. All sets empty means the gate is disabled.
func gate(rejectCode int, sets ...[]string) func(http.Handler) http.Handler {
	var allowed []string
	for _, set := range sets {
		allowed = append(allowed, set...)
	}
	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := apiKey(r)
			for _, k := range allowed {
				if key != "" && k == key {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rejectCode)
			fmt.Fprintf(w, `{"error":%q}`, strings.ToLower(http.StatusText(rejectCode)))
		})
	}
}

// apiKey pulls the presented key from a bearer Authorization header or the
// X-API-Key header, in that order.
func apiKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
