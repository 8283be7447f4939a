package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/config"
)

// Event subjects published on the broker. Consumers (push notification
// workers, audit sinks) subscribe with community.events.>
const (
	SubjectRequestSubmitted  = "community.events.request.submitted"
	SubjectRequestReviewed   = "community.events.request.reviewed"
	SubjectSessionCreated    = "community.events.session.created"
	SubjectSessionTerminated = "community.events.session.terminated"
	SubjectDisputeCreated    = "community.events.dispute.created"
	SubjectDisputeEscalated  = "community.events.dispute.escalated"
	SubjectDisputeResolved   = "community.events.dispute.resolved"
)

// Publisher emits domain events. Publishing is best-effort; workflows
// never fail because the broker is down.
type Publisher interface {
	Publish(subject string, payload interface{})
	Close()
}

// NATSPublisher publishes events to a NATS broker
type NATSPublisher struct {
	conn *nats.Conn
	log  zerolog.Logger
}

// NewNATSPublisher connects to NATS and returns a publisher
func NewNATSPublisher(cfg *config.NATSConfig, log zerolog.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectInterval),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, log: log}, nil
}

type envelope struct {
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// Publish marshals the payload and publishes it on the subject. Errors
// are logged, not returned.
func (p *NATSPublisher) Publish(subject string, payload interface{}) {
	data, err := json.Marshal(envelope{
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		p.log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Error().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}

// Close drains and closes the connection
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn().Err(err).Msg("Failed to drain NATS connection")
	}
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, interface{}) {}
func (NoopPublisher) Close()                      {}
