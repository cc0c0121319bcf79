package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"openschool/internal/model"
)

// PaymentRepository defines methods for accessing payment data.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPaymentByID(ctx context.Context, id int64) (*model.Payment, error)
	ListPayments(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error)
	ListPaymentsByUserID(ctx context.Context, userID int64) ([]model.Payment, error)
	SetStripeSession(ctx context.Context, id int64, sessionID, link string) error
	MarkPaid(ctx context.Context, id int64) error
	DeletePayment(ctx context.Context, id int64) error
}

type paymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo creates a new PaymentRepository.
func NewPaymentRepo(db *sql.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, user_id, paid_course_id, paid_lesson_id, amount, method, payment_date, stripe_session_id, stripe_link, is_paid`

func scanPayment(row interface{ Scan(...any) error }, p *model.Payment) error {
	return row.Scan(
		&p.ID,
		&p.UserID,
		&p.PaidCourseID,
		&p.PaidLessonID,
		&p.Amount,
		&p.Method,
		&p.PaymentDate,
		&p.StripeSessionID,
		&p.StripeLink,
		&p.IsPaid,
	)
}

// CreatePayment inserts a payment row and fills in the generated fields.
func (r *paymentRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (user_id, paid_course_id, paid_lesson_id, amount, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, payment_date, is_paid
	`
	return r.db.QueryRowContext(ctx, query,
		p.UserID, p.PaidCourseID, p.PaidLessonID, p.Amount, p.Method,
	).Scan(&p.ID, &p.PaymentDate, &p.IsPaid)
}

// GetPaymentByID retrieves a payment by id; returns nil when absent.
func (r *paymentRepo) GetPaymentByID(ctx context.Context, id int64) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	var p model.Payment
	err := scanPayment(r.db.QueryRowContext(ctx, query, id), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListPayments retrieves payments matching the filter, ordered by date.
func (r *paymentRepo) ListPayments(ctx context.Context, filter model.PaymentFilter) ([]model.Payment, error) {
	conds := []string{}
	args := []any{}
	if filter.PaidCourseID != nil {
		args = append(args, *filter.PaidCourseID)
		conds = append(conds, fmt.Sprintf("paid_course_id = $%d", len(args)))
	}
	if filter.PaidLessonID != nil {
		args = append(args, *filter.PaidLessonID)
		conds = append(conds, fmt.Sprintf("paid_lesson_id = $%d", len(args)))
	}
	if filter.Method != "" {
		args = append(args, filter.Method)
		conds = append(conds, fmt.Sprintf("method = $%d", len(args)))
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY payment_date ASC, id ASC"
	if filter.OrderByDateDesc {
		query = strings.Replace(query, "payment_date ASC, id ASC", "payment_date DESC, id DESC", 1)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListPaymentsByUserID retrieves a user's payment history, oldest first.
func (r *paymentRepo) ListPaymentsByUserID(ctx context.Context, userID int64) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY payment_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]model.Payment, error) {
	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SetStripeSession stores the checkout session reference on the payment.
func (r *paymentRepo) SetStripeSession(ctx context.Context, id int64, sessionID, link string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET stripe_session_id = $1, stripe_link = $2 WHERE id = $3`,
		sessionID, link, id,
	)
	return err
}

// MarkPaid flips the reconciliation flag.
func (r *paymentRepo) MarkPaid(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE payments SET is_paid = TRUE WHERE id = $1`, id)
	return err
}

// DeletePayment removes a payment row.
func (r *paymentRepo) DeletePayment(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}
