package session

import (
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when a request carries no resolvable session.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator resolves the bidder identity behind an HTTP request. The
// bidding core treats whatever it returns as an opaque, already
// authenticated token and never inspects it further. Registration and
// password handling live outside this repository.
type Authenticator interface {
	Resolve(r *http.Request) (string, error)
}

// Registry is the in-process session table: opaque session id to bidder id.
// Sessions, like auction state, live only for the process lifetime.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]string)}
}

// Issue creates a session for a bidder and returns its opaque id.
func (reg *Registry) Issue(bidderID string) string {
	sid := uuid.New().String()
	reg.mu.Lock()
	reg.sessions[sid] = bidderID
	reg.mu.Unlock()
	return sid
}

// Revoke deletes a session. Unknown ids are ignored.
func (reg *Registry) Revoke(sid string) {
	reg.mu.Lock()
	delete(reg.sessions, sid)
	reg.mu.Unlock()
}

// Resolve implements Authenticator. It looks for the session id in a "sid"
// cookie first, then a "sid" query parameter for websocket handshakes from
// clients that cannot attach cookies.
func (reg *Registry) Resolve(r *http.Request) (string, error) {
	sid := ""
	if cookie, err := r.Cookie("sid"); err == nil {
		sid = cookie.Value
	}
	if sid == "" {
		sid = r.URL.Query().Get("sid")
	}
	if sid == "" {
		return "", ErrUnauthorized
	}

	reg.mu.RLock()
	bidderID, ok := reg.sessions[sid]
	reg.mu.RUnlock()
	if !ok {
		return "", ErrUnauthorized
	}
	return bidderID, nil
}
