package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn the notifier needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes notifications as JSON to "<prefix>.<kind>".
type NATSNotifier struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewNATSNotifier creates a notifier over an established publisher.
func NewNATSNotifier(pub Publisher, prefix string, logger *slog.Logger) *NATSNotifier {
	return &NATSNotifier{
		pub:    pub,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Connect dials NATS with reconnects enabled.
func Connect(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return nc, nil
}

// Subject returns the subject a notification kind is published on.
func (n *NATSNotifier) Subject(kind Kind) string {
	if n.prefix == "" {
		return string(kind)
	}
	return n.prefix + "." + string(kind)
}

func (n *NATSNotifier) Notify(ctx context.Context, note Notification) {
	if note.OccurredAt.IsZero() {
		note.OccurredAt = n.now().UTC()
	}

	data, err := json.Marshal(note)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode notification",
			slog.String("kind", string(note.Kind)),
			slog.String("error", err.Error()),
		)
		return
	}

	subject := n.Subject(note.Kind)
	if err := n.pub.Publish(subject, data); err != nil {
		n.logger.WarnContext(ctx, "failed to publish notification",
			slog.String("subject", subject),
			slog.String("sponsorship_id", note.SponsorshipID),
			slog.String("error", err.Error()),
		)
		return
	}

	n.logger.DebugContext(ctx, "notification published",
		slog.String("subject", subject),
		slog.String("sponsorship_id", note.SponsorshipID),
	)
}
