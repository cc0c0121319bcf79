package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"openschool/internal/config"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// Subscriber pulls course-update jobs off the notification subscription and
// hands them to a handler. Delivery is at-least-once: the handler must be
// idempotent.
type Subscriber struct {
	client       *pubsub.Client
	subscription string
	logger       zerolog.Logger
}

// NewSubscriber creates a Subscriber using the GCP project and subscription
// from config.
func NewSubscriber(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &Subscriber{
		client:       client,
		subscription: cfg.NotificationSubscription,
		logger:       logger.With().Str("component", "Subscriber").Logger(),
	}, nil
}

// Receive blocks pulling messages until ctx is cancelled. A handler error
// nacks the message for redelivery; malformed payloads are acked and dropped.
func (s *Subscriber) Receive(ctx context.Context, handle func(ctx context.Context, msg CourseUpdateMessage) error) error {
	sub := s.client.Subscription(s.subscription)
	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		var msg CourseUpdateMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			s.logger.Error().Err(err).Msg("Dropping malformed notification message")
			m.Ack()
			return
		}
		if err := handle(ctx, msg); err != nil {
			s.logger.Error().Err(err).Int64("course_id", msg.CourseID).Msg("Notification job failed, will retry")
			m.Nack()
			return
		}
		m.Ack()
	})
}

// Close releases the underlying client.
func (s *Subscriber) Close() error {
	return s.client.Close()
}
