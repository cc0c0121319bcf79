package service

import (
	"context"
	"fmt"

	"openschool/internal/model"
	"openschool/internal/permission"
	"openschool/internal/repository"

	"github.com/rs/zerolog"
)

// PaymentService records payments and bridges stripe payments to the
// checkout gateway.
type PaymentService interface {
	Create(ctx context.Context, p permission.Principal, payment *model.Payment) (*model.Payment, error)
	// Get returns the payment and its reconciled paid state. For stripe
	// payments with a stored session the gateway is polled; a confirmed
	// session persists IsPaid on the row.
	Get(ctx context.Context, id int64) (payment *model.Payment, paid bool, err error)
	List(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error)
	Delete(ctx context.Context, id int64) error
}

type paymentService struct {
	repo       repository.PaymentRepository
	courseRepo repository.CourseRepository
	gateway    CheckoutGateway
	logger     zerolog.Logger
}

// NewPaymentService creates a new PaymentService with a scoped logger.
func NewPaymentService(repo repository.PaymentRepository, courseRepo repository.CourseRepository, gateway CheckoutGateway, logger zerolog.Logger) PaymentService {
	return &paymentService{
		repo:       repo,
		courseRepo: courseRepo,
		gateway:    gateway,
		logger:     logger.With().Str("service", "PaymentService").Logger(),
	}
}

// Create persists the payment bound to the acting user, then opens a checkout
// session when the method is stripe. A gateway failure propagates to the
// caller; the already persisted row keeps empty session fields for an
// operator to reconcile.
func (s *paymentService) Create(ctx context.Context, p permission.Principal, payment *model.Payment) (*model.Payment, error) {
	payment.UserID = &p.ID

	if payment.Method == model.PaymentMethodStripe {
		if payment.PaidCourseID == nil {
			return nil, &ValidationError{Field: "paid_course_id", Message: "stripe payments require a paid course"}
		}
		course, err := s.courseRepo.GetCourseByID(ctx, *payment.PaidCourseID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, ErrNotFound
		}
		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			return nil, err
		}
		sessionID, link, err := s.gateway.CreateCheckoutSession(ctx, course.Name, payment.Amount)
		if err != nil {
			return nil, fmt.Errorf("payment %d persisted without checkout session: %w", payment.ID, err)
		}
		if err := s.repo.SetStripeSession(ctx, payment.ID, sessionID, link); err != nil {
			return nil, err
		}
		payment.StripeSessionID = &sessionID
		payment.StripeLink = &link
		return payment, nil
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Get reconciles the stripe session state on retrieval.
func (s *paymentService) Get(ctx context.Context, id int64) (*model.Payment, bool, error) {
	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if payment == nil {
		return nil, false, ErrNotFound
	}

	paid := false
	if payment.Method == model.PaymentMethodStripe && payment.StripeSessionID != nil {
		paid, err = s.gateway.IsSessionPaid(ctx, *payment.StripeSessionID)
		if err != nil {
			return nil, false, err
		}
		if paid && !payment.IsPaid {
			if err := s.repo.MarkPaid(ctx, payment.ID); err != nil {
				return nil, false, err
			}
			payment.IsPaid = true
		}
	}
	return payment, paid, nil
}

// List applies the repository-side filter and ordering.
func (s *paymentService) List(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}

// Delete removes a payment record.
func (s *paymentService) Delete(ctx context.Context, id int64) error {
	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrNotFound
	}
	return s.repo.DeletePayment(ctx, id)
}
