package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"openschool/internal/api/v1/dto"
	"openschool/internal/model"
	"openschool/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints.
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
	pageSize      int
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, pageSize int, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, validate: validate, pageSize: pageSize, logger: logger}
}

// RegisterRoutes mounts course routes. Lesson and subscription routes live
// under /courses/ too but are registered on longer prefixes and win.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

func (h *CourseHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCourses(w, r)
	case http.MethodPost:
		h.createCourse(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/courses/"), "/")
	if rest == "" {
		h.handleCollection(w, r)
		return
	}
	id, ok := parseID(rest)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getCourse(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.updateCourse(w, r, id)
	case http.MethodDelete:
		h.deleteCourse(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a new course owned by the authenticated user.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.CourseCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	course := &model.Course{Name: req.Name}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.PreviewURL != nil {
		course.PreviewURL = *req.PreviewURL
	}
	created, err := h.courseService.Create(r.Context(), p, course)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, courseResponse(model.CourseListItem{Course: *created, Lessons: []model.Lesson{}}))
}

// listCourses godoc
// @Summary List courses
// @Description Returns a paginated list of courses annotated with the caller's subscription state.
// @Tags courses
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PageDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	page, size := parsePage(r, h.pageSize)
	items, total, err := h.courseService.List(r.Context(), p, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	results := make([]dto.CourseResponseDTO, 0, len(items))
	for _, it := range items {
		results = append(results, courseResponse(it))
	}
	next, prev := pageLinks(page, size, total)
	respondJSON(w, http.StatusOK, dto.PageDTO{Count: total, Next: next, Previous: prev, Results: results})
}

// getCourse godoc
// @Summary Course details
// @Description Returns the course with its lessons and lesson count. Owner or moderator only.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseDetailDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	detail, err := h.courseService.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.CourseDetailDTO{
		Name:         detail.Name,
		LessonsCount: len(detail.Lessons),
		Lessons:      lessonResponses(detail.Lessons),
	})
}

// updateCourse godoc
// @Summary Update a course
// @Description Updates course fields. Owner or moderator only. May schedule a subscriber notification.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Course update request"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/{id} [patch]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.CourseUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	upd := model.CourseUpdate{Name: req.Name, Description: req.Description, PreviewURL: req.PreviewURL}
	updated, err := h.courseService.Update(r.Context(), p, id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, courseResponse(model.CourseListItem{Course: *updated}))
}

// deleteCourse godoc
// @Summary Delete a course
// @Description Deletes the course and its lessons. Owner only; moderators are denied.
// @Tags courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/{id} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.courseService.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func courseResponse(it model.CourseListItem) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		PreviewURL:   it.PreviewURL,
		OwnerID:      it.OwnerID,
		IsSubscribed: it.IsSubscribed,
		Lessons:      lessonResponses(it.Lessons),
	}
}

func lessonResponses(lessons []model.Lesson) []dto.LessonResponseDTO {
	out := make([]dto.LessonResponseDTO, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonResponse(&l))
	}
	return out
}
