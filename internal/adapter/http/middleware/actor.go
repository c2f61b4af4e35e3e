package middleware

import (
	"net/http"
	"strings"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// ActorHeader carries the id of the acting user.
const ActorHeader = "X-User-ID"

// Actor stores the X-User-ID header in the request context. Requests without
// it act as the system user.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(ActorHeader)); id != "" {
			r = r.WithContext(domain.WithActor(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
