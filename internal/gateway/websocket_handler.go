package gateway

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/session"
)

// WebSocketHandler handles websocket upgrade requests for auction viewers.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	auth              session.Authenticator
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(cm *ConnectionManager, auth session.Authenticator) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		auth:              auth,
	}
}

// HandleAuctionConnection authenticates the handshake through the session
// layer and hands the connection to the manager. The resolved bidder id is
// the only identity bids from this connection ever carry.
func (h *WebSocketHandler) HandleAuctionConnection(w http.ResponseWriter, r *http.Request) {
	bidderID, err := h.auth.Resolve(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, bidderID); err != nil {
		log.Error().
			Err(err).
			Str("bidder_id", bidderID).
			Msg("failed to upgrade websocket connection")
		return
	}
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"total_connections":%d}`, stats["total_connections"].(int))
}

// RegisterRoutes registers websocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/auction", h.HandleAuctionConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
