package dto

// CourseCreateDTO is used for incoming course creation requests. Any owner
// supplied by the client is ignored; ownership is stamped server-side.
type CourseCreateDTO struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	PreviewURL  *string `json:"preview,omitempty"`
}

// CourseUpdateDTO is used for incoming course update requests.
type CourseUpdateDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
	PreviewURL  *string `json:"preview,omitempty"`
}

// CourseResponseDTO is one course in list/create/update responses.
type CourseResponseDTO struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	PreviewURL   string              `json:"preview"`
	OwnerID      *int64              `json:"owner"`
	IsSubscribed bool                `json:"is_subscribed"`
	Lessons      []LessonResponseDTO `json:"lessons"`
}

// CourseDetailDTO is the retrieve payload with the lesson count resolved.
type CourseDetailDTO struct {
	Name         string              `json:"name"`
	LessonsCount int                 `json:"count_lessons"`
	Lessons      []LessonResponseDTO `json:"lessons"`
}

// PageDTO is the pagination envelope for list endpoints.
type PageDTO struct {
	Count    int  `json:"count"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Results  any  `json:"results"`
}
