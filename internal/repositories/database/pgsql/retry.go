package pgsql

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// RetryPolicy bounds the retries of a serializable append.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy is used when the configuration leaves the policy unset.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, BaseDelay: 20 * time.Millisecond}

var errRetriesExhausted = errors.New("serialization retries exhausted")

func isRetryable(err error) bool {
	code, _ := pgErrorCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// backoff returns a full-jitter delay in [0, base*2^attempt).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	if attempt > 16 {
		attempt = 16
	}
	ceiling := p.BaseDelay << attempt
	return time.Duration(rand.Int64N(int64(ceiling)))
}

// run calls fn until it succeeds, fails with a non-retryable error, or the
// attempts run out. Every attempt starts from scratch in a new transaction.
func (p RetryPolicy) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil || !isRetryable(err) {
			return err
		}
		delay := p.backoff(attempt)
		middleware.GetLoggerFromCtx(ctx).Debug("Retrying serializable transaction",
			"operation", op, "attempt", attempt+1, "delay", delay.String())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return apperrors.NewAppError(503, op+": "+errRetriesExhausted.Error(), err)
}
