package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"openschool/internal/api/v1/dto"
	"openschool/internal/model"
	"openschool/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment endpoints under /users/payments/.
type PaymentHandler struct {
	paymentService service.PaymentService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, validate *validator.Validate, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validate: validate, logger: logger}
}

// RegisterRoutes mounts payment routes.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/payments/", authMw(http.HandlerFunc(h.handlePayment)))
}

func (h *PaymentHandler) handlePayment(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/payments/"), "/")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.listPayments(w, r)
	// The collection path takes the POST; /create is kept as an alias.
	case (rest == "" || rest == "create") && r.Method == http.MethodPost:
		h.createPayment(w, r)
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
			h.getPayment(w, r, id)
		case sub == "delete" && r.Method == http.MethodDelete:
			h.deletePayment(w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Records a payment made by the authenticated user. Stripe
// @Description payments require a paid course and return a checkout link.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.PaymentCreateDTO true "Payment creation request"
// @Success 201 {object} dto.PaymentResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "Course not found"
// @Failure 500 {string} string "Checkout session could not be opened"
// @Router /users/payments [post]
func (h *PaymentHandler) createPayment(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.PaymentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	payment := &model.Payment{
		PaidCourseID: req.PaidCourseID,
		PaidLessonID: req.PaidLessonID,
		Amount:       req.Amount,
		Method:       req.Method,
	}
	created, err := h.paymentService.Create(r.Context(), p, payment)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create payment")
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, paymentResponse(created, nil))
}

// listPayments godoc
// @Summary List payments
// @Description Returns payments filtered by course, lesson or method. The
// @Description ordering param accepts payment_date and -payment_date.
// @Tags payments
// @Produce json
// @Param paid_course query int false "Filter by paid course ID"
// @Param paid_lesson query int false "Filter by paid lesson ID"
// @Param payment_method query string false "Filter by method (cash, credit_card, stripe)"
// @Param ordering query string false "payment_date or -payment_date"
// @Success 200 {array} dto.PaymentResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /users/payments [get]
func (h *PaymentHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalFrom(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	var filter model.PaymentFilter
	if v, err := strconv.ParseInt(q.Get("paid_course"), 10, 64); err == nil && v > 0 {
		filter.PaidCourseID = &v
	}
	if v, err := strconv.ParseInt(q.Get("paid_lesson"), 10, 64); err == nil && v > 0 {
		filter.PaidLessonID = &v
	}
	filter.Method = q.Get("payment_method")
	filter.OrderByDateDesc = q.Get("ordering") == "-payment_date"

	payments, err := h.paymentService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.PaymentResponseDTO, 0, len(payments))
	for i := range payments {
		out = append(out, paymentResponse(&payments[i], nil))
	}
	respondJSON(w, http.StatusOK, out)
}

// getPayment godoc
// @Summary Payment details
// @Description Returns the payment. Stripe payments are reconciled against the
// @Description gateway; the ephemeral paid field reports the session state.
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.PaymentResponseDTO
// @Failure 404 {string} string "Not found"
// @Router /users/payments/{id} [get]
func (h *PaymentHandler) getPayment(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := principalFrom(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	payment, paid, err := h.paymentService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paymentResponse(payment, &paid))
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Removes a payment record.
// @Tags payments
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 404 {string} string "Not found"
// @Router /users/payments/{id}/delete [delete]
func (h *PaymentHandler) deletePayment(w http.ResponseWriter, r *http.Request, id int64) {
	if _, ok := principalFrom(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.paymentService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func paymentResponse(pm *model.Payment, paid *bool) dto.PaymentResponseDTO {
	return dto.PaymentResponseDTO{
		ID:              pm.ID,
		UserID:          pm.UserID,
		PaidCourseID:    pm.PaidCourseID,
		PaidLessonID:    pm.PaidLessonID,
		Amount:          pm.Amount,
		Method:          pm.Method,
		PaymentDate:     pm.PaymentDate,
		StripeSessionID: pm.StripeSessionID,
		StripeLink:      pm.StripeLink,
		IsPaid:          pm.IsPaid,
		Paid:            paid,
	}
}
