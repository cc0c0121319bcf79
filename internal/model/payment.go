package model

import "time"

// Payment methods. Stripe payments go through the checkout bridge; the other
// two are recorded as-is.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "credit_card"
	PaymentMethodStripe = "stripe"
)

// Payment records a payment by a user for a course or a lesson. User and the
// paid resources are nulled, not cascaded, when the referenced row is deleted.
// For stripe payments the session id and checkout link are filled in after the
// gateway call, and IsPaid is flipped by reconciliation on retrieve.
type Payment struct {
	ID              int64     `db:"id" json:"id"`
	UserID          *int64    `db:"user_id" json:"user_id"`
	PaidCourseID    *int64    `db:"paid_course_id" json:"paid_course_id"`
	PaidLessonID    *int64    `db:"paid_lesson_id" json:"paid_lesson_id"`
	Amount          float64   `db:"amount" json:"amount"`
	Method          string    `db:"method" json:"method"`
	PaymentDate     time.Time `db:"payment_date" json:"payment_date"`
	StripeSessionID *string   `db:"stripe_session_id" json:"stripe_session_id,omitempty"`
	StripeLink      *string   `db:"stripe_link" json:"stripe_link,omitempty"`
	IsPaid          bool      `db:"is_paid" json:"is_paid"`
}

// PaymentFilter narrows payment listings; zero values mean "no filter".
type PaymentFilter struct {
	PaidCourseID *int64
	PaidLessonID *int64
	Method       string
	// OrderByDateDesc orders by payment date, newest first; default is oldest first.
	OrderByDateDesc bool
}
