// Package retry repeats fallible calls with a linear backoff.
package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

type Options struct {
	RetryCount          int
	BackoffMultiplier   int
	BackoffDurationType time.Duration
	Message             string
	Retryable           func(err error) bool
}

type Option func(*Options)

func WithRetryCount(retryCount int) Option {
	return func(o *Options) {
		o.RetryCount = retryCount
	}
}

func WithBackoffMultiplier(backoffMultiplier int) Option {
	return func(o *Options) {
		o.BackoffMultiplier = backoffMultiplier
	}
}

func WithBackoffDurationType(durationType time.Duration) Option {
	return func(o *Options) {
		o.BackoffDurationType = durationType
	}
}

func WithMessage(message string) Option {
	return func(o *Options) {
		o.Message = message
	}
}

// WithRetryable stops retrying as soon as fn reports an error as permanent.
func WithRetryable(fn func(err error) bool) Option {
	return func(o *Options) {
		o.Retryable = fn
	}
}

// Retry calls f until it succeeds, at most RetryCount times. Between attempts
// it sleeps according to BackoffAndSleep. The last error is returned.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), opts ...Option) (T, error) {
	options := &Options{
		RetryCount:          3,
		BackoffMultiplier:   2,
		BackoffDurationType: time.Second,
		Retryable:           func(error) bool { return true },
	}

	for _, opt := range opts {
		opt(options)
	}

	var (
		result T
		err    error
	)

	attempts := max(options.RetryCount, 1)

	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return result, errors.NewContextCanceledError("%s: gave up after %d attempts", options.Message, i, err)
			}

			return result, errors.NewContextCanceledError("%s: context done", options.Message, ctxErr)
		}

		result, err = f()
		if err == nil {
			return result, nil
		}

		if !options.Retryable(err) || i >= attempts-1 {
			break
		}

		logger.Warnf("%s (attempt %d of %d): %v", options.Message, i+1, attempts, err)

		if sleepErr := BackoffAndSleep(ctx, i, options.BackoffMultiplier, options.BackoffDurationType); sleepErr != nil {
			return result, errors.NewContextCanceledError("%s: gave up after %d attempts", options.Message, i+1, err)
		}
	}

	return result, err
}
