package repository

import (
	"context"
	"database/sql"

	"openschool/internal/model"
)

// SubscriptionRepository defines methods for accessing subscription data.
type SubscriptionRepository interface {
	GetByOwnerAndCourse(ctx context.Context, ownerID, courseID int64) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, s *model.Subscription) error
	DeleteSubscription(ctx context.Context, id int64) error
	ExistsByOwnerAndCourse(ctx context.Context, ownerID, courseID int64) (bool, error)
	// ListActiveSubscriberEmails resolves the addresses of every user with an
	// active subscription to the course.
	ListActiveSubscriberEmails(ctx context.Context, courseID int64) ([]string, error)
}

type subscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

// GetByOwnerAndCourse returns the subscription linking a user to a course,
// or nil when there is none.
func (r *subscriptionRepo) GetByOwnerAndCourse(ctx context.Context, ownerID, courseID int64) (*model.Subscription, error) {
	query := `
		SELECT id, owner_id, course_id, is_active, created_at
		FROM subscriptions
		WHERE owner_id = $1 AND course_id = $2
	`
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, query, ownerID, courseID).Scan(
		&s.ID,
		&s.OwnerID,
		&s.CourseID,
		&s.IsActive,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateSubscription inserts a subscription; the schema's unique
// (owner_id, course_id) constraint rejects duplicates.
func (r *subscriptionRepo) CreateSubscription(ctx context.Context, s *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (owner_id, course_id, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, s.OwnerID, s.CourseID, s.IsActive).
		Scan(&s.ID, &s.CreatedAt)
}

// DeleteSubscription removes a subscription by id.
func (r *subscriptionRepo) DeleteSubscription(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	return err
}

// ExistsByOwnerAndCourse reports whether the user is subscribed to the course.
func (r *subscriptionRepo) ExistsByOwnerAndCourse(ctx context.Context, ownerID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE owner_id = $1 AND course_id = $2)`,
		ownerID, courseID,
	).Scan(&exists)
	return exists, err
}

// ListActiveSubscriberEmails joins active subscriptions against users.
func (r *subscriptionRepo) ListActiveSubscriberEmails(ctx context.Context, courseID int64) ([]string, error) {
	query := `
		SELECT u.email
		FROM subscriptions s
		JOIN users u ON u.id = s.owner_id
		WHERE s.course_id = $1 AND s.is_active = TRUE
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
