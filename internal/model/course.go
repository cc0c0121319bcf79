package model

import "time"

// Course groups lessons under a single owner. OwnerID is nil when the owning
// account was deleted; the course itself survives.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	PreviewURL  string    `db:"preview_url" json:"preview_url"`
	OwnerID     *int64    `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseUpdate carries updatable course fields; nil means "leave as is".
type CourseUpdate struct {
	Name        *string
	Description *string
	PreviewURL  *string
}

// CourseDetail is a course with its lessons resolved.
type CourseDetail struct {
	Course
	Lessons []Lesson
}

// CourseListItem is one row of the paginated course list, annotated for the
// requesting user.
type CourseListItem struct {
	Course
	Lessons      []Lesson
	IsSubscribed bool
}
