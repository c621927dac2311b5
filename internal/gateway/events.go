package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/datajunqer/bidding-app/internal/models"
)

// AuctionEvent is the envelope for every websocket message the server
// sends. Data holds the type-specific payload.
type AuctionEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the kind of auction event.
type EventType string

const (
	// EventTypeSnapshot seeds a client with the full item list on connect.
	EventTypeSnapshot EventType = "Snapshot"
	// EventTypeBidAccepted fans out to every client after a committed bid.
	EventTypeBidAccepted EventType = "BidAccepted"
	// EventTypeBidResult answers a PlaceBid command on the issuing
	// connection only.
	EventTypeBidResult EventType = "BidResult"
)

// SnapshotPayload carries the full sanitized item list plus the server time
// clients reconcile their countdowns against.
type SnapshotPayload struct {
	ServerTime time.Time             `json:"server_time"`
	Me         string                `json:"me,omitempty"`
	Items      []models.ItemSnapshot `json:"items"`
}

// BidAcceptedPayload is the broadcast emitted once per accepted bid.
type BidAcceptedPayload struct {
	Item       models.ItemSnapshot `json:"item"`
	BidderID   string              `json:"bidder_id"`
	ServerTime time.Time           `json:"server_time"`
}

// BidResultPayload is the direct reply to a single bid submission.
type BidResultPayload struct {
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Code      string `json:"code,omitempty"`
}

// PlaceBidCommand is the only client-to-server websocket message. Amount is
// kept raw so a malformed value still reaches the evaluator's rule chain
// instead of failing the whole decode.
type PlaceBidCommand struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	ItemID    string          `json:"item_id"`
	Amount    json.RawMessage `json:"amount"`
}

// ParseAmount extracts the bid amount. Anything that is not a whole number
// comes back with Valid false and rejects downstream as OUTBID.
func (c PlaceBidCommand) ParseAmount() (int64, bool) {
	var num json.Number
	if err := json.Unmarshal(c.Amount, &num); err != nil {
		return 0, false
	}
	v, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// CommandTypePlaceBid is the accepted value of PlaceBidCommand.Type.
const CommandTypePlaceBid = "PlaceBid"

// NewEvent wraps a payload in an event envelope.
func NewEvent(eventType EventType, timestamp time.Time, payload interface{}) (*AuctionEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &AuctionEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: timestamp,
		Data:      data,
	}, nil
}
