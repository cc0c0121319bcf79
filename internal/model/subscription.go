package model

import "time"

// Subscription is a user's opt-in to update emails for a course, unique per
// (owner, course) pair.
type Subscription struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
