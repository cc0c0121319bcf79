package model

import "time"

// Lesson always belongs to exactly one course and is removed with it.
type Lesson struct {
	ID          int64     `db:"id" json:"id"`
	CourseID    int64     `db:"course_id" json:"course_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	PreviewURL  string    `db:"preview_url" json:"preview_url"`
	VideoLink   string    `db:"video_link" json:"video_link"`
	OwnerID     *int64    `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LessonUpdate carries updatable lesson fields; nil means "leave as is".
type LessonUpdate struct {
	Name        *string
	Description *string
	PreviewURL  *string
	VideoLink   *string
}
