package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/session"
)

// SnapshotHandler serves the full sanitized item list for initial page
// loads. The listing takes no serializer turn, so a bid landing at the same
// instant may or may not be visible; the websocket stream is what settles
// "did my bid apply".
type SnapshotHandler struct {
	provider SnapshotProvider
	auth     session.Authenticator
	clock    clockwork.Clock
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(provider SnapshotProvider, auth session.Authenticator, clock clockwork.Clock) *SnapshotHandler {
	return &SnapshotHandler{
		provider: provider,
		auth:     auth,
		clock:    clock,
	}
}

// HandleItems responds with the item list, the server time, and the
// caller's identity when a session is present. Anonymous viewers are
// allowed: browsing needs no session, only bidding does.
func (h *SnapshotHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := SnapshotPayload{
		ServerTime: h.clock.Now(),
		Items:      h.provider.Snapshot(),
	}
	if bidderID, err := h.auth.Resolve(r); err == nil {
		payload.Me = bidderID
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write items response")
	}
}

// RegisterRoutes registers the snapshot route with an HTTP mux.
func (h *SnapshotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/items", h.HandleItems)
}
