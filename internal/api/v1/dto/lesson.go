package dto

// LessonCreateDTO is used for incoming lesson creation requests.
type LessonCreateDTO struct {
	CourseID    int64   `json:"course_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	PreviewURL  *string `json:"preview,omitempty"`
	VideoLink   string  `json:"video_link" validate:"required"`
}

// LessonUpdateDTO is used for incoming lesson update requests.
type LessonUpdateDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	PreviewURL  *string `json:"preview,omitempty"`
	VideoLink   *string `json:"video_link,omitempty"`
}

// LessonResponseDTO is returned in API responses for lessons.
type LessonResponseDTO struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PreviewURL  string `json:"preview"`
	VideoLink   string `json:"video_link"`
	OwnerID     *int64 `json:"owner"`
}
