package actor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sigat/asset-registry/pkg/models"
)

// Resolver resolves the acting principal from an incoming request.
// Returning false means the request is anonymous; that is not an error.
type Resolver interface {
	Resolve(r *http.Request) (Actor, bool)
}

// HeaderResolver reads the identity established by the upstream auth
// gateway from X-User-Id / X-Username / X-User-Role headers.
type HeaderResolver struct{}

// Resolve implements Resolver.
func (HeaderResolver) Resolve(r *http.Request) (Actor, bool) {
	username := r.Header.Get("X-Username")
	if username == "" {
		return Actor{}, false
	}
	id, _ := strconv.ParseUint(r.Header.Get("X-User-Id"), 10, 64)
	return Actor{
		ID:       uint(id),
		Username: username,
		Role:     models.UserRole(r.Header.Get("X-User-Role")),
	}, true
}

// Middleware attaches the resolved actor to the request context. Requests
// without a resolvable principal pass through anonymously; context scoping
// guarantees the actor never leaks across requests.
func Middleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a, ok := resolver.Resolve(r); ok {
				r = r.WithContext(WithActor(r.Context(), a))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose actor is missing or does not hold
// the given role.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := FromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if a.Role != role {
				writeJSONError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
