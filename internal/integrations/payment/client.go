package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// paymentIntents часть API Stripe, используемая клиентом
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Client клиент платежного шлюза Stripe
type Client struct {
	intents paymentIntents
	log     Logger
}

// NewClient создает клиент Stripe; backendURL пустой = боевой API
func NewClient(secretKey, backendURL string, timeout time.Duration, log Logger) *Client {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if backendURL != "" {
		cfg.URL = stripe.String(backendURL)
	}

	sc := &client.API{}
	sc.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})

	return &Client{intents: sc.PaymentIntents, log: log}
}

// ProcessPayment создает и сразу подтверждает PaymentIntent на сумму депозита
// Повтор с тем же IdempotencyKey не приводит к повторному списанию
func (c *Client) ProcessPayment(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.AmountCents),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.Token),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	intent, err := c.intents.New(params)
	if err != nil {
		return nil, c.classify(err)
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		c.log.Info("Payment: intent %s succeeded, amount=%d %s", intent.ID, intent.Amount, intent.Currency)
		return &Result{
			TransactionID: intent.ID,
			AmountCents:   intent.Amount,
			Currency:      string(intent.Currency),
		}, nil
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresPaymentMethod:
		c.log.Warn("Payment: intent %s not completed, status=%s", intent.ID, intent.Status)
		return nil, &DeclineError{Reason: "The card requires additional authentication. Please use a different card."}
	default:
		c.log.Error("Payment: intent %s has unexpected status %s", intent.ID, intent.Status)
		return nil, fmt.Errorf("%w: unexpected intent status %s", ErrPaymentUnavailable, intent.Status)
	}
}

func (c *Client) classify(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			c.log.Warn("Payment: card declined, code=%s, decline_code=%s", stripeErr.Code, stripeErr.DeclineCode)
			return &DeclineError{Reason: stripeErr.Msg, Code: string(stripeErr.DeclineCode)}
		}
		if stripeErr.Type == stripe.ErrorTypeInvalidRequest {
			c.log.Error("Payment: invalid request: %s", stripeErr.Msg)
			return fmt.Errorf("%w: %s", ErrInvalidRequest, stripeErr.Msg)
		}
	}

	c.log.Error("Payment: gateway error: %v", err)
	return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
}

func validateRequest(req Request) error {
	if req.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if req.Token == "" {
		return fmt.Errorf("%w: payment token is required", ErrInvalidRequest)
	}
	if req.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidRequest)
	}
	return nil
}
