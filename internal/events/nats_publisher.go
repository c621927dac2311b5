package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/models"
)

// BidAcceptedEvent is the wire form of an accepted bid published for
// out-of-process consumers (archival, analytics). It carries the same
// sanitized item view the websocket clients see.
type BidAcceptedEvent struct {
	EventID    string              `json:"event_id"`
	Item       models.ItemSnapshot `json:"item"`
	BidderID   string              `json:"bidder_id"`
	ServerTime time.Time           `json:"server_time"`
}

// NATSPublisher mirrors every accepted bid onto a per-item NATS subject.
// Delivery is best effort: a publish failure is logged and the bid path is
// never affected.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to NATS and returns a publisher emitting on
// "<subjectPrefix>.<itemID>".
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info().Str("url", url).Str("subject_prefix", subjectPrefix).Msg("NATS publisher connected")
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}, nil
}

// BidAccepted implements bidding.Broadcaster. Publish only appends to the
// client's outgoing buffer, so the bid path never waits on the network.
func (p *NATSPublisher) BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time) {
	event := BidAcceptedEvent{
		EventID:    uuid.New().String(),
		Item:       item,
		BidderID:   bidderID,
		ServerTime: serverTime,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("item_id", item.ID).Msg("failed to marshal bid event")
		return
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, item.ID)
	if err := p.nc.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish bid event")
	}
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
