package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"openschool/internal/config"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	pricepkg "github.com/stripe/stripe-go/v82/price"
	productpkg "github.com/stripe/stripe-go/v82/product"
)

// CheckoutGateway is the slice of the payment gateway the payment service
// needs: open a checkout session for a named product and poll its status.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, productName string, amount float64) (sessionID, checkoutURL string, err error)
	// IsSessionPaid reports whether the session has been paid. A session the
	// gateway no longer knows about counts as unpaid, not as an error.
	IsSessionPaid(ctx context.Context, sessionID string) (bool, error)
}

// StripeService implements CheckoutGateway against the Stripe API.
type StripeService struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, logger: lg}
}

// minorUnits converts a major-unit amount to the gateway's minor unit.
// Rounded, not truncated: 19.99 has no exact float64 representation and
// 19.99*100 lands just below 1999.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateCheckoutSession chains product -> price -> session. The amount is
// converted to the gateway's minor unit (kopecks), currency fixed to RUB,
// single quantity, one-time payment mode, fixed success URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, productName string, amount float64) (string, string, error) {
	prod, err := productpkg.New(&stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(productName),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("product", productName).Msg("Failed to create Stripe product")
		return "", "", fmt.Errorf("create stripe product: %w", err)
	}

	price, err := pricepkg.New(&stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		Currency:   stripe.String(string(stripe.CurrencyRUB)),
		UnitAmount: stripe.Int64(minorUnits(amount)),
		Product:    stripe.String(prod.ID),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", prod.ID).Msg("Failed to create Stripe price")
		return "", "", fmt.Errorf("create stripe price: %w", err)
	}

	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		SuccessURL: stripe.String(s.cfg.StripeSuccessURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price.ID), Quantity: stripe.Int64(1)},
		},
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("price_id", price.ID).Msg("Failed to create Stripe checkout session")
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// IsSessionPaid polls the checkout session. An invalid or expired session
// reference is reported as unpaid.
func (s *StripeService) IsSessionPaid(ctx context.Context, sessionID string) (bool, error) {
	sess, err := checkoutsession.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeInvalidRequest {
			s.logger.Warn().Str("session_id", sessionID).Msg("Stripe session not found, treating as unpaid")
			return false, nil
		}
		return false, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
