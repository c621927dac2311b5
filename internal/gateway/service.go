package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/models"
	"github.com/datajunqer/bidding-app/internal/session"
)

// Service is the auction gateway: it owns the websocket connection pool,
// the snapshot endpoint, and the fan-out of accepted bids to every viewer.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	snapshotHandler   *SnapshotHandler
}

// Config holds configuration for the gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig
}

// DefaultConfig returns default configuration for the gateway.
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates the gateway over the bidding core, the ledger's
// snapshot view, and the session collaborator.
func NewService(config Config, bids BidSubmitter, snapshot SnapshotProvider, auth session.Authenticator, clock clockwork.Clock) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig, bids, snapshot, clock)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, auth),
		snapshotHandler:   NewSnapshotHandler(snapshot, auth, clock),
	}
}

// Start runs the broadcast loop until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting auction gateway service")

	go s.connectionManager.Start(ctx)

	<-ctx.Done()

	log.Info().Msg("auction gateway service shutting down")
	return nil
}

// RegisterRoutes registers the websocket and snapshot HTTP routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.snapshotHandler.RegisterRoutes(mux)
	log.Info().Msg("auction gateway routes registered")
}

// BidAccepted implements bidding.Broadcaster by forwarding to the
// connection manager, so the service itself can be wired as the bid
// service's broadcast sink.
func (s *Service) BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time) {
	s.connectionManager.BidAccepted(item, bidderID, serverTime)
}

// GetStats returns statistics about the gateway service.
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "auction_gateway"
	return stats
}
