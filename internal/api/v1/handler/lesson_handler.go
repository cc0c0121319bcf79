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

// LessonHandler handles lesson-related endpoints under /courses/lesson/.
type LessonHandler struct {
	lessonService service.LessonService
	validate      *validator.Validate
	pageSize      int
	logger        zerolog.Logger
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessonService service.LessonService, validate *validator.Validate, pageSize int, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{lessonService: lessonService, validate: validate, pageSize: pageSize, logger: logger}
}

// RegisterRoutes mounts lesson routes.
func (h *LessonHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses/lesson/", authMw(http.HandlerFunc(h.handleLesson)))
}

func (h *LessonHandler) handleLesson(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/courses/lesson/"), "/")
	switch {
	case rest == "create" && r.Method == http.MethodPost:
		h.createLesson(w, r)
	case rest == "list" && r.Method == http.MethodGet:
		h.listLessons(w, r)
	default:
		parts := strings.SplitN(rest, "/", 2)
		id, ok := parseID(parts[0])
		if !ok {
			http.NotFound(w, r)
			return
		}
		sub := ""
		if len(parts) == 2 {
			sub = parts[1]
		}
		switch {
		case sub == "" && r.Method == http.MethodGet:
			h.getLesson(w, r, id)
		case sub == "update" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
			h.updateLesson(w, r, id)
		case sub == "delete" && r.Method == http.MethodDelete:
			h.deleteLesson(w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

// createLesson godoc
// @Summary Create a lesson
// @Description Creates a lesson in a course; only YouTube video links are accepted.
// @Tags lessons
// @Accept json
// @Produce json
// @Param lesson body dto.LessonCreateDTO true "Lesson creation request"
// @Success 201 {object} dto.LessonResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Course not found"
// @Router /courses/lesson/create [post]
func (h *LessonHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.LessonCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	lesson := &model.Lesson{CourseID: req.CourseID, Name: req.Name, VideoLink: req.VideoLink}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.PreviewURL != nil {
		lesson.PreviewURL = *req.PreviewURL
	}
	created, err := h.lessonService.Create(r.Context(), p, lesson)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, lessonResponse(created))
}

// listLessons godoc
// @Summary List lessons
// @Description Returns a paginated list of all lessons.
// @Tags lessons
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PageDTO
// @Router /courses/lesson/list [get]
func (h *LessonHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	page, size := parsePage(r, h.pageSize)
	lessons, total, err := h.lessonService.List(r.Context(), p, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	next, prev := pageLinks(page, size, total)
	respondJSON(w, http.StatusOK, dto.PageDTO{Count: total, Next: next, Previous: prev, Results: lessonResponses(lessons)})
}

// getLesson godoc
// @Summary Lesson details
// @Description Returns a lesson. Owner or moderator only.
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.LessonResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/lesson/{id} [get]
func (h *LessonHandler) getLesson(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lesson, err := h.lessonService.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lessonResponse(lesson))
}

// updateLesson godoc
// @Summary Update a lesson
// @Description Updates lesson fields. Owner or moderator only. May schedule a subscriber notification for the parent course.
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param lesson body dto.LessonUpdateDTO true "Lesson update request"
// @Success 200 {object} dto.LessonResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/lesson/{id}/update [patch]
func (h *LessonHandler) updateLesson(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.LessonUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	upd := model.LessonUpdate{
		Name:        req.Name,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		VideoLink:   req.VideoLink,
	}
	updated, err := h.lessonService.Update(r.Context(), p, id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lessonResponse(updated))
}

// deleteLesson godoc
// @Summary Delete a lesson
// @Description Deletes a lesson. Owner only; moderators are denied.
// @Tags lessons
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /courses/lesson/{id}/delete [delete]
func (h *LessonHandler) deleteLesson(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.lessonService.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func lessonResponse(l *model.Lesson) dto.LessonResponseDTO {
	return dto.LessonResponseDTO{
		ID:          l.ID,
		CourseID:    l.CourseID,
		Name:        l.Name,
		Description: l.Description,
		PreviewURL:  l.PreviewURL,
		VideoLink:   l.VideoLink,
		OwnerID:     l.OwnerID,
	}
}
