package handler

import (
	"encoding/json"
	"net/http"

	"openschool/internal/api/v1/dto"
	"openschool/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SubscriptionHandler handles the subscription toggle endpoint.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	validate            *validator.Validate
	logger              zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, validate *validator.Validate, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, validate: validate, logger: logger}
}

// RegisterRoutes mounts the toggle route.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses/subscriptions/", authMw(http.HandlerFunc(h.toggle)))
}

// toggle godoc
// @Summary Toggle a course subscription
// @Description Subscribes the caller to the course, or unsubscribes them if
// @Description already subscribed. 201 with "Subscription added" on subscribe,
// @Description 200 with "Subscription removed" on unsubscribe.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.SubscriptionToggleDTO true "Toggle request"
// @Success 200 {object} dto.MessageDTO
// @Success 201 {object} dto.MessageDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Not found"
// @Router /courses/subscriptions [post]
func (h *SubscriptionHandler) toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.SubscriptionToggleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	added, err := h.subscriptionService.Toggle(r.Context(), p.ID, req.CourseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if added {
		respondJSON(w, http.StatusCreated, dto.MessageDTO{Message: "Subscription added"})
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageDTO{Message: "Subscription removed"})
}
