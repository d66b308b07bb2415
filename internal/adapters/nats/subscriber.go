package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

const deliveryConsumer = "delivery-notifier"

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for consuming dispatch events.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := ensureStream(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeDeliveryEvents consumes delivery status changes with a durable
// consumer. A handler error naks the message for redelivery, up to three
// attempts. Malformed payloads are terminated.
func (s *Subscriber) SubscribeDeliveryEvents(ctx context.Context, handler func(ctx context.Context, event *domain.DeliveryEvent) error) error {
	sub, err := s.js.Subscribe(subjectDeliveryPrefix+"*", func(msg *nats.Msg) {
		var event domain.DeliveryEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.WarnContext(ctx, "drop malformed delivery event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			slog.WarnContext(ctx, "delivery event handler failed", "order_id", event.OrderID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(deliveryConsumer),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverNew(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
