// Package retry runs an operation until it succeeds, the attempts are exhausted, the error is not
// worth retrying, or the context is cancelled.
package retry

import (
	"context"
	"time"

	"github.com/commerceblock/mercuryclient/ulogger"
)

type Options struct {
	retryCount          int
	backoffMultiplier   int
	backoffDurationType time.Duration
	message             string
	shouldRetry         func(error) bool
}

type Option func(*Options)

func WithRetryCount(n int) Option {
	return func(o *Options) {
		o.retryCount = n
	}
}

func WithBackoffMultiplier(m int) Option {
	return func(o *Options) {
		o.backoffMultiplier = m
	}
}

func WithBackoffDurationType(d time.Duration) Option {
	return func(o *Options) {
		o.backoffDurationType = d
	}
}

func WithMessage(msg string) Option {
	return func(o *Options) {
		o.message = msg
	}
}

// WithShouldRetry stops retrying as soon as fn returns false for an error.
func WithShouldRetry(fn func(error) bool) Option {
	return func(o *Options) {
		o.shouldRetry = fn
	}
}

// Retry calls f up to retryCount times (at least once), sleeping with BackoffAndSleep between attempts.
// The last error is returned when every attempt fails.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), opts ...Option) (T, error) {
	options := &Options{
		retryCount:          3,
		backoffMultiplier:   2,
		backoffDurationType: time.Second,
		message:             "retrying",
	}

	for _, o := range opts {
		o(options)
	}

	if options.retryCount < 1 {
		options.retryCount = 1
	}

	var (
		result T
		err    error
	)

	for i := 0; i < options.retryCount; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result, err = f()
		if err == nil {
			return result, nil
		}

		if options.shouldRetry != nil && !options.shouldRetry(err) {
			return result, err
		}

		if i == options.retryCount-1 {
			break
		}

		logger.Warnf("%s (attempt %d/%d): %v", options.message, i+1, options.retryCount, err)

		if sleepErr := BackoffAndSleep(ctx, i, options.backoffMultiplier, options.backoffDurationType); sleepErr != nil {
			return result, sleepErr
		}
	}

	return result, err
}

// RetryWithLogger is the positional form of Retry.
func RetryWithLogger[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), retryCount int, backoffMultiplier int, backoffDurationType time.Duration, retryMessage string) (T, error) {
	return Retry(ctx, logger, f,
		WithRetryCount(retryCount),
		WithBackoffMultiplier(backoffMultiplier),
		WithBackoffDurationType(backoffDurationType),
		WithMessage(retryMessage),
	)
}
