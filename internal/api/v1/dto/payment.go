package dto

import "time"

// PaymentCreateDTO is used for incoming payment creation requests. The payer
// is always the authenticated user, never taken from the body.
type PaymentCreateDTO struct {
	PaidCourseID *int64  `json:"paid_course_id,omitempty"`
	PaidLessonID *int64  `json:"paid_lesson_id,omitempty"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Method       string  `json:"method" validate:"required,oneof=cash credit_card stripe"`
}

// PaymentResponseDTO is returned in API responses for payments. Paid is the
// ephemeral gateway-reconciled flag set on retrieve only.
type PaymentResponseDTO struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"user_id"`
	PaidCourseID    *int64    `json:"paid_course_id"`
	PaidLessonID    *int64    `json:"paid_lesson_id"`
	Amount          float64   `json:"amount"`
	Method          string    `json:"method"`
	PaymentDate     time.Time `json:"payment_date"`
	StripeSessionID *string   `json:"stripe_session_id,omitempty"`
	StripeLink      *string   `json:"stripe_link,omitempty"`
	IsPaid          bool      `json:"is_paid"`
	Paid            *bool     `json:"paid,omitempty"`
}
