package service

import (
	"context"
	"errors"
	"testing"

	"openschool/internal/model"

	"github.com/rs/zerolog"
)

type paymentFixture struct {
	repo       *fakePaymentRepo
	courseRepo *fakeCourseRepo
	gateway    *fakeGateway
	svc        PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		repo:       newFakePaymentRepo(),
		courseRepo: newFakeCourseRepo(),
		gateway: &fakeGateway{
			sessionID:    "cs_test_123",
			link:         "https://checkout.stripe.com/pay/cs_test_123",
			paidSessions: make(map[string]bool),
		},
	}
	f.svc = NewPaymentService(f.repo, f.courseRepo, f.gateway, zerolog.Nop())
	return f
}

func (f *paymentFixture) addCourse(t *testing.T) *model.Course {
	t.Helper()
	course := &model.Course{Name: "Go basics"}
	if err := f.courseRepo.CreateCourse(context.Background(), course); err != nil {
		t.Fatal(err)
	}
	return course
}

func TestCreateCashPaymentBindsActingUser(t *testing.T) {
	f := newPaymentFixture()
	other := int64(99)

	created, err := f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		UserID: &other,
		Amount: 150,
		Method: model.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserID == nil || *created.UserID != 7 {
		t.Fatalf("user = %v, want 7 (payer comes from the token, not the body)", created.UserID)
	}
	if created.StripeSessionID != nil {
		t.Error("cash payment must not carry a stripe session")
	}
}

func TestCreateStripePaymentRequiresCourse(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		Amount: 150,
		Method: model.PaymentMethodStripe,
	})
	if ve, ok := IsValidationError(err); !ok || ve.Field != "paid_course_id" {
		t.Fatalf("err = %v, want ValidationError on paid_course_id", err)
	}

	missing := int64(99)
	_, err = f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		PaidCourseID: &missing,
		Amount:       150,
		Method:       model.PaymentMethodStripe,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(f.repo.payments) != 0 {
		t.Fatal("nothing should be persisted when validation fails")
	}
}

func TestCreateStripePaymentOpensCheckoutSession(t *testing.T) {
	f := newPaymentFixture()
	course := f.addCourse(t)

	created, err := f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		PaidCourseID: &course.ID,
		Amount:       150,
		Method:       model.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.StripeSessionID == nil || *created.StripeSessionID != "cs_test_123" {
		t.Fatalf("session = %v", created.StripeSessionID)
	}
	if created.StripeLink == nil || *created.StripeLink != "https://checkout.stripe.com/pay/cs_test_123" {
		t.Fatalf("link = %v", created.StripeLink)
	}
	stored, _ := f.repo.GetPaymentByID(context.Background(), created.ID)
	if stored.StripeSessionID == nil {
		t.Fatal("session should be persisted on the row")
	}
}

func TestCreateStripePaymentKeepsRowOnGatewayFailure(t *testing.T) {
	f := newPaymentFixture()
	course := f.addCourse(t)
	f.gateway.createErr = errors.New("stripe unreachable")

	_, err := f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		PaidCourseID: &course.ID,
		Amount:       150,
		Method:       model.PaymentMethodStripe,
	})
	if err == nil {
		t.Fatal("expected gateway failure to propagate")
	}
	if len(f.repo.payments) != 1 {
		t.Fatalf("payments = %d, want 1 (row persisted for reconciliation)", len(f.repo.payments))
	}
	for _, p := range f.repo.payments {
		if p.StripeSessionID != nil {
			t.Error("failed checkout must leave session fields empty")
		}
	}
}

func TestGetReconcilesStripeSession(t *testing.T) {
	f := newPaymentFixture()
	course := f.addCourse(t)
	created, err := f.svc.Create(context.Background(), userPrincipal(7), &model.Payment{
		PaidCourseID: &course.ID,
		Amount:       150,
		Method:       model.PaymentMethodStripe,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Session still open.
	payment, paid, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if paid || payment.IsPaid {
		t.Fatal("unpaid session must not be reported paid")
	}

	f.gateway.paidSessions["cs_test_123"] = true
	payment, paid, err = f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get after payment: %v", err)
	}
	if !paid || !payment.IsPaid {
		t.Fatal("paid session should flip both the ephemeral flag and the row")
	}
	if len(f.repo.marked) != 1 {
		t.Fatalf("MarkPaid calls = %d, want 1", len(f.repo.marked))
	}

	// Already persisted as paid: reconciled again but not re-marked.
	if _, _, err := f.svc.Get(context.Background(), created.ID); err != nil {
		t.Fatal(err)
	}
	if len(f.repo.marked) != 1 {
		t.Fatalf("MarkPaid calls = %d after second Get, want 1", len(f.repo.marked))
	}
}

func TestGetMissingPayment(t *testing.T) {
	f := newPaymentFixture()
	if _, _, err := f.svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListPaymentsAppliesFilter(t *testing.T) {
	f := newPaymentFixture()
	course := f.addCourse(t)
	uid := int64(7)
	f.repo.CreatePayment(context.Background(), &model.Payment{UserID: &uid, PaidCourseID: &course.ID, Amount: 100, Method: model.PaymentMethodCash})
	f.repo.CreatePayment(context.Background(), &model.Payment{UserID: &uid, Amount: 50, Method: model.PaymentMethodCard})

	payments, err := f.svc.List(context.Background(), model.PaymentFilter{Method: model.PaymentMethodCash})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(payments) != 1 || payments[0].Method != model.PaymentMethodCash {
		t.Fatalf("payments = %+v", payments)
	}
}
