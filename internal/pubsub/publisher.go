// Package pubsub carries course-update notification jobs between the API
// server and the worker over a Google Pub/Sub topic, at-least-once.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"openschool/internal/config"

	"cloud.google.com/go/pubsub"
)

// CourseUpdateMessage is the job payload: just the course whose subscribers
// should be emailed. The worker re-resolves subscriptions when it runs.
type CourseUpdateMessage struct {
	CourseID int64 `json:"course_id"`
}

// Publisher enqueues course-update jobs. It implements the notification
// queue interface consumed by the notifier.
type Publisher struct {
	client *pubsub.Client
	topic  string
}

// NewPublisher creates a Publisher using the GCP project and topic from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &Publisher{client: client, topic: cfg.NotificationTopic}, nil
}

// Enqueue publishes the course id to the notification topic and waits for the
// server-assigned message id.
func (p *Publisher) Enqueue(ctx context.Context, courseID int64) error {
	payload, err := json.Marshal(CourseUpdateMessage{CourseID: courseID})
	if err != nil {
		return err
	}
	t := p.client.Topic(p.topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
