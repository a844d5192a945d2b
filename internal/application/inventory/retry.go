package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// RetryPolicy política del caller ante domain.ErrConcurrencyConflict: intentos acotados con
// espera exponencial (Backoff, 2*Backoff, 4*Backoff...).
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// RetryOnConflict ejecuta fn y la reintenta solo mientras el error sea retryable.
// Agotados los intentos devuelve el último error.
func RetryOnConflict[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := policy.Backoff
	var (
		result T
		err    error
	)
	for i := 0; i < attempts; i++ {
		result, err = fn()
		if err == nil || !domain.IsRetryable(err) || i == attempts-1 {
			return result, err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, err
		case <-timer.C:
		}
		wait *= 2
	}
	return result, err
}
