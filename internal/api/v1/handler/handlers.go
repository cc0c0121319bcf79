package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"openschool/internal/middleware"
	"openschool/internal/permission"
	"openschool/internal/service"
)

// respondJSON writes the payload with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := service.IsValidationError(err); ok {
		http.Error(w, ve.Error(), http.StatusBadRequest)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrEmailAlreadyTaken):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// principalFrom pulls the authenticated principal out of the request context.
func principalFrom(r *http.Request) (permission.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}

// parseID parses a path segment as a resource id.
func parseID(segment string) (int64, bool) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage reads page/page_size query params with sane bounds.
func parsePage(r *http.Request, defaultSize int) (page, size int) {
	page = 1
	size = defaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		size = v
	}
	return page, size
}

// pageLinks computes the next/previous page numbers for the envelope.
func pageLinks(page, size, total int) (next, prev *int) {
	if page*size < total {
		n := page + 1
		next = &n
	}
	if page > 1 {
		p := page - 1
		prev = &p
	}
	return next, prev
}
