package dto

// SubscriptionToggleDTO selects the course whose subscription to flip.
type SubscriptionToggleDTO struct {
	CourseID int64 `json:"course_id" validate:"required"`
}

// MessageDTO is a plain message payload.
type MessageDTO struct {
	Message string `json:"message"`
}
