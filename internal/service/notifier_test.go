package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestNotifier(queue NotificationQueue, subs *fakeSubscriptionRepo, mailer Mailer, now time.Time) *Notifier {
	n := NewNotifier(queue, subs, mailer, 4*time.Hour, zerolog.Nop())
	n.now = func() time.Time { return now }
	return n
}

func TestCourseUpdatedGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		prevUpdatedAt time.Time
		wantEnqueued  bool
	}{
		{"never updated", time.Time{}, false},
		{"updated one minute ago", now.Add(-time.Minute), false},
		{"updated just under the window", now.Add(-4*time.Hour + time.Second), false},
		{"updated exactly one window ago", now.Add(-4 * time.Hour), true},
		{"updated well past the window", now.Add(-24 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &fakeQueue{}
			n := newTestNotifier(queue, newFakeSubscriptionRepo(), &fakeMailer{}, now)

			n.CourseUpdated(context.Background(), 42, tt.prevUpdatedAt)

			if got := len(queue.enqueued) > 0; got != tt.wantEnqueued {
				t.Fatalf("enqueued = %v, want %v", got, tt.wantEnqueued)
			}
			if tt.wantEnqueued && queue.enqueued[0] != 42 {
				t.Errorf("enqueued course id = %d, want 42", queue.enqueued[0])
			}
		})
	}
}

func TestCourseUpdatedEnqueueFailureIsSwallowed(t *testing.T) {
	now := time.Now()
	queue := &fakeQueue{err: errors.New("broker down")}
	n := newTestNotifier(queue, newFakeSubscriptionRepo(), &fakeMailer{}, now)

	// Must not panic or surface the error; the triggering update has already
	// been committed.
	n.CourseUpdated(context.Background(), 1, now.Add(-8*time.Hour))
}

func TestCourseUpdatedWithoutQueueIsInert(t *testing.T) {
	now := time.Now()
	n := NewNotifier(nil, newFakeSubscriptionRepo(), &fakeMailer{}, 4*time.Hour, zerolog.Nop())

	// A fan-out-only notifier has no queue; a stale update must not panic.
	n.CourseUpdated(context.Background(), 1, now.Add(-8*time.Hour))
}

func TestSendCourseUpdateEmails(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.emails[7] = []string{"a@example.com", "b@example.com", ""}
	mailer := &fakeMailer{}
	n := newTestNotifier(&fakeQueue{}, subs, mailer, time.Now())

	if err := n.SendCourseUpdateEmails(context.Background(), 7); err != nil {
		t.Fatalf("SendCourseUpdateEmails: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2 (blank address skipped)", len(mailer.sent))
	}
	if mailer.sent[0].subject != "Course updates" {
		t.Errorf("subject = %q", mailer.sent[0].subject)
	}
	if mailer.sent[1].to != "b@example.com" {
		t.Errorf("second recipient = %q", mailer.sent[1].to)
	}
}

func TestSendCourseUpdateEmailsSkipsFailedSends(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.emails[7] = []string{"bad@example.com", "good@example.com"}
	mailer := &fakeMailer{failTo: "bad@example.com"}
	n := newTestNotifier(&fakeQueue{}, subs, mailer, time.Now())

	if err := n.SendCourseUpdateEmails(context.Background(), 7); err != nil {
		t.Fatalf("SendCourseUpdateEmails: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("sent %d emails, want 2 (failure must not stop the fan-out)", len(mailer.sent))
	}
}

func TestSendCourseUpdateEmailsPropagatesRepoError(t *testing.T) {
	subs := newFakeSubscriptionRepo()
	subs.listErr = errors.New("db down")
	n := newTestNotifier(&fakeQueue{}, subs, &fakeMailer{}, time.Now())

	if err := n.SendCourseUpdateEmails(context.Background(), 7); err == nil {
		t.Fatal("expected error when subscriber lookup fails")
	}
}
