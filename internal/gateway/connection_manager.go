package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/bidding"
	"github.com/datajunqer/bidding-app/internal/models"
)

// BidSubmitter is the bidding core as the gateway sees it: one call in, one
// outcome back.
type BidSubmitter interface {
	PlaceBid(itemID, bidderID string, amount bidding.Amount) (bidding.Outcome, error)
}

// SnapshotProvider supplies the sanitized item list used to sync a client.
type SnapshotProvider interface {
	Snapshot() []models.ItemSnapshot
}

// ConnectionManager manages the websocket connections of all auction
// viewers and fans accepted bids out to every one of them.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	bids     BidSubmitter
	snapshot SnapshotProvider
	clock    clockwork.Clock

	broadcastCh chan *AuctionEvent
}

// Connection represents one websocket client. Send is never closed; a
// connection is torn down by closing done, which wakes the write pump and
// stops further queueing.
type Connection struct {
	ID       string
	BidderID string
	Conn     *websocket.Conn
	Send     chan []byte
	Manager  *ConnectionManager

	ConnectedAt time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// stop tears the connection down. Safe to call from any goroutine, any
// number of times.
func (c *Connection) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}

// ConnectionConfig holds configuration for websocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int

	// BroadcastBufferSize bounds the fan-out queue shared by all
	// connections; bursts beyond it are dropped.
	BroadcastBufferSize int

	CheckOrigin func(r *http.Request) bool
}

// DefaultConnectionConfig returns default websocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,

		BroadcastBufferSize: 1000,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new websocket connection manager.
func NewConnectionManager(config ConnectionConfig, bids BidSubmitter, snapshot SnapshotProvider, clock clockwork.Clock) *ConnectionManager {
	if config.BroadcastBufferSize <= 0 {
		config.BroadcastBufferSize = 1000
	}
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		bids:        bids,
		snapshot:    snapshot,
		clock:       clock,
		broadcastCh: make(chan *AuctionEvent, config.BroadcastBufferSize),
	}
}

// Start begins processing broadcast messages.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case event := <-cm.broadcastCh:
			cm.handleBroadcast(event)
		}
	}
}

// BidAccepted implements bidding.Broadcaster. The event is queued for the
// broadcast loop; a full queue drops the message rather than stalling the
// bid path.
func (cm *ConnectionManager) BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time) {
	event, err := NewEvent(EventTypeBidAccepted, serverTime, BidAcceptedPayload{
		Item:       item,
		BidderID:   bidderID,
		ServerTime: serverTime,
	})
	if err != nil {
		log.Error().Err(err).Str("item_id", item.ID).Msg("failed to build bid accepted event")
		return
	}

	select {
	case cm.broadcastCh <- event:
	default:
		log.Warn().Str("item_id", item.ID).Msg("broadcast channel full, dropping message")
	}
}

// UpgradeConnection upgrades an HTTP request to a websocket connection for
// an authenticated bidder and syncs it with a full snapshot.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, bidderID string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		BidderID:    bidderID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: cm.clock.Now(),
		done:        make(chan struct{}),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	cm.sendSnapshot(connection)

	log.Info().
		Str("connection_id", connection.ID).
		Str("bidder_id", bidderID).
		Msg("websocket connection established")

	return nil
}

// registerConnection adds a connection to the manager.
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

// unregisterConnection removes a connection from the manager.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; exists {
		delete(cm.connections, conn)
		conn.stop()

		log.Info().
			Str("connection_id", conn.ID).
			Str("bidder_id", conn.BidderID).
			Msg("connection unregistered")
	}
}

// sendSnapshot pushes the full item list to a single connection so late
// joiners start from current state.
func (cm *ConnectionManager) sendSnapshot(conn *Connection) {
	now := cm.clock.Now()
	event, err := NewEvent(EventTypeSnapshot, now, SnapshotPayload{
		ServerTime: now,
		Me:         conn.BidderID,
		Items:      cm.snapshot.Snapshot(),
	})
	if err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to build snapshot event")
		return
	}
	cm.sendEvent(conn, event)
}

// sendEvent delivers an event to one connection, dropping it if the
// connection's buffer is full.
func (cm *ConnectionManager) sendEvent(conn *Connection, event *AuctionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to marshal event")
		return
	}

	select {
	case <-conn.done:
	case conn.Send <- data:
	default:
		log.Warn().
			Str("connection_id", conn.ID).
			Str("event_type", string(event.Type)).
			Msg("connection send buffer full, dropping event")
	}
}

// handleBroadcast delivers an event to every connected client. Delivery is
// best effort: a slow or dead connection is closed, not waited on, and no
// error ever reaches the bidder whose bid triggered the broadcast.
func (cm *ConnectionManager) handleBroadcast(event *AuctionEvent) {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.connections))
	for conn := range cm.connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		select {
		case <-conn.done:
		case conn.Send <- data:
		default:
			log.Warn().
				Str("connection_id", conn.ID).
				Str("bidder_id", conn.BidderID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
		}
	}

	log.Debug().
		Str("event_type", string(event.Type)).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

// GetConnectionStats returns statistics about active connections.
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return map[string]interface{}{
		"total_connections": len(cm.connections),
	}
}

// writePump handles sending messages to the websocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the websocket connection.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage processes a message received from the client. The
// only recognized command is PlaceBid; the reply goes to this connection
// alone, while an acceptance additionally fans out through the broadcast
// loop.
func (c *Connection) handleClientMessage(message []byte) {
	var cmd PlaceBidCommand
	if err := json.Unmarshal(message, &cmd); err != nil || cmd.Type != CommandTypePlaceBid {
		log.Debug().
			Str("connection_id", c.ID).
			Str("bidder_id", c.BidderID).
			Msg("ignoring unrecognized client message")
		return
	}

	// A malformed amount is not a transport error: it rides through the
	// evaluator's rule chain and comes back as OUTBID.
	amount := bidding.Amount{}
	if v, ok := cmd.ParseAmount(); ok {
		amount = bidding.AmountOf(v)
	}

	outcome, err := c.Manager.bids.PlaceBid(cmd.ItemID, c.BidderID, amount)
	result := BidResultPayload{RequestID: cmd.RequestID}
	switch {
	case err != nil:
		log.Error().
			Err(err).
			Str("item_id", cmd.ItemID).
			Str("bidder_id", c.BidderID).
			Msg("bid failed with internal fault")
		result.Code = "INTERNAL"
	case outcome.Accepted:
		result.OK = true
	default:
		result.Code = string(outcome.Reason)
	}

	event, err := NewEvent(EventTypeBidResult, c.Manager.clock.Now(), result)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to build bid result event")
		return
	}
	c.Manager.sendEvent(c, event)
}
