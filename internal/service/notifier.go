package service

import (
	"context"
	"time"

	"openschool/internal/repository"

	"github.com/rs/zerolog"
)

// NotificationQueue hands a course id to the asynchronous notification
// worker. The real implementation publishes to Pub/Sub; tests use a fake.
type NotificationQueue interface {
	Enqueue(ctx context.Context, courseID int64) error
}

// Notifier decides whether a course update is stale enough to notify
// subscribers about, and performs the worker-side fan-out.
//
// The gate compares the course's updated_at captured *before* the incoming
// update against the window. Rapid successive edits keep refreshing the
// timestamp without firing, so at most one notification goes out per window
// per course.
type Notifier struct {
	queue  NotificationQueue
	subs   repository.SubscriptionRepository
	mailer Mailer
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewNotifier creates a Notifier with a scoped logger.
func NewNotifier(queue NotificationQueue, subs repository.SubscriptionRepository, mailer Mailer, window time.Duration, logger zerolog.Logger) *Notifier {
	return &Notifier{
		queue:  queue,
		subs:   subs,
		mailer: mailer,
		window: window,
		now:    time.Now,
		logger: logger.With().Str("service", "Notifier").Logger(),
	}
}

// CourseUpdated enqueues a notification job when the previous update is at
// least one window old. prevUpdatedAt is the course timestamp before the
// current update was applied; a zero value (never updated) never fires.
// Enqueue failures are logged and swallowed: the triggering request has
// already committed its change. A nil queue disables enqueueing entirely,
// for consumers that only fan out.
func (n *Notifier) CourseUpdated(ctx context.Context, courseID int64, prevUpdatedAt time.Time) {
	if n.queue == nil {
		return
	}
	if prevUpdatedAt.IsZero() {
		return
	}
	if n.now().Sub(prevUpdatedAt) < n.window {
		return
	}
	if err := n.queue.Enqueue(ctx, courseID); err != nil {
		n.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to enqueue update notification")
	}
}

// SendCourseUpdateEmails is the worker-side job: one email per active
// subscriber. Send failures are logged and skipped, never retried.
func (n *Notifier) SendCourseUpdateEmails(ctx context.Context, courseID int64) error {
	emails, err := n.subs.ListActiveSubscriberEmails(ctx, courseID)
	if err != nil {
		return err
	}
	for _, email := range emails {
		if email == "" {
			continue
		}
		err := n.mailer.Send(ctx, email,
			"Course updates",
			"New materials have been added to a course you are subscribed to!",
		)
		if err != nil {
			n.logger.Error().Err(err).Int64("course_id", courseID).Str("to", email).Msg("Failed to send update email")
		}
	}
	return nil
}
