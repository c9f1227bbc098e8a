package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATE codes of transaction conflicts that succeed when replayed.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// RetryPolicy bounds how often and how long a conflicting transaction is
// replayed.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy allows three replays within ten seconds.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier implements usecase.Retrier. Only transaction conflicts are
// retried; any other error is returned after the first attempt.
type Retrier struct {
	policy RetryPolicy
	logger zerolog.Logger
}

// NewRetrier creates a Retrier with DefaultRetryPolicy.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return NewRetrierWithPolicy(DefaultRetryPolicy, logger)
}

// NewRetrierWithPolicy creates a Retrier with a custom policy.
func NewRetrierWithPolicy(policy RetryPolicy, logger zerolog.Logger) *Retrier {
	return &Retrier{
		policy: policy,
		logger: logger.With().Str("component", "retrier").Logger(),
	}
}

// Retry runs operation, replaying it with exponential backoff while it
// fails with a transaction conflict.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.InitialInterval
	exp.MaxInterval = r.policy.MaxInterval
	exp.MaxElapsedTime = r.policy.MaxElapsedTime

	schedule := backoff.WithContext(backoff.WithMaxRetries(exp, r.policy.MaxRetries), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, schedule, func(err error, wait time.Duration) {
		r.logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("transaction conflict, retrying")
	})
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return true
	default:
		return false
	}
}
