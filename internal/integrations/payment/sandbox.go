package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Тестовые токены песочницы
const (
	SandboxDeclineToken     = "tok_chargeDeclined"
	SandboxUnavailableToken = "tok_gatewayDown"
)

// Sandbox шлюз для локального запуска без Stripe
// Одинаковый IdempotencyKey возвращает одну и ту же транзакцию
type Sandbox struct {
	log Logger

	mu      sync.Mutex
	charges map[string]string
}

// NewSandbox создает шлюз-песочницу
func NewSandbox(log Logger) *Sandbox {
	return &Sandbox{log: log, charges: make(map[string]string)}
}

// ProcessPayment имитирует списание
func (s *Sandbox) ProcessPayment(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ErrPaymentUnavailable
	}

	switch req.Token {
	case SandboxDeclineToken:
		return nil, &DeclineError{Reason: "Your card was declined.", Code: "generic_decline"}
	case SandboxUnavailableToken:
		return nil, ErrPaymentUnavailable
	}

	s.mu.Lock()
	id, ok := s.charges[req.IdempotencyKey]
	if !ok || req.IdempotencyKey == "" {
		id = "sandbox_" + uuid.NewString()
		if req.IdempotencyKey != "" {
			s.charges[req.IdempotencyKey] = id
		}
	}
	s.mu.Unlock()
	s.log.Info("Payment: sandbox charge %s, amount=%d %s", id, req.AmountCents, req.Currency)

	return &Result{TransactionID: id, AmountCents: req.AmountCents, Currency: req.Currency}, nil
}
