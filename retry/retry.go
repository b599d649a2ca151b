package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/safecast"
)

// backoffJitterCap bounds the random spread added to waits between attempts.
const backoffJitterCap = 25 * time.Millisecond

// run funnels every retry loop through a single retry.Do call so that attempt logging,
// context handling and error conversion behave the same everywhere.
func run(ctx context.Context, logger logr.Logger, fn func() error, msgOnRetry string, options ...retry.Option) error {
	base := []retry.Option{
		retry.OnRetry(func(n uint, err error) {
			logger.Error(err, fmt.Sprintf("%v (attempt #%v)", msgOnRetry, n+1), "attempt", n+1)
		}),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	}
	return commonerrors.ConvertContextError(retry.Do(fn, append(base, options...)...))
}

// Execute runs operation under policy. Attempts are numbered from 1 and stop as soon as
// the policy declines the error or attempts exhaust; only the last error is returned.
// Context cancellation interrupts both attempts and waits.
func Execute(ctx context.Context, logger logr.Logger, policy IRetryPolicy, operation func(context.Context) error, msgOnRetry string) error {
	if policy == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "missing retry policy")
	}
	// The attempt counter lives here because the RetryIf callback is not told which
	// attempt it is deciding for.
	attempt := uint(0)
	return run(ctx, logger,
		func() error {
			attempt++
			return commonerrors.ConvertContextError(operation(ctx))
		},
		msgOnRetry,
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			_, delay := policy.ShouldRetry(err, n+1)
			return delay
		}),
		retry.RetryIf(func(err error) bool {
			retryNeeded, _ := policy.ShouldRetry(err, attempt)
			return retryNeeded
		}),
		retry.Attempts(policy.MaxAttempts()),
	)
}

// RetryIf runs fn under cfg, retrying while retryConditionFn accepts the returned error.
// A disabled configuration runs fn exactly once.
func RetryIf(ctx context.Context, logger logr.Logger, cfg *RetryPolicyConfiguration, fn func() error, msgOnRetry string, retryConditionFn func(err error) bool) error {
	if cfg == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "missing retry policy configuration")
	}
	if !cfg.Enabled {
		return fn()
	}
	return run(ctx, logger, fn, msgOnRetry,
		retry.Delay(cfg.RetryWaitMin),
		retry.MaxDelay(cfg.RetryWaitMax),
		retry.MaxJitter(backoffJitterCap),
		retry.DelayType(cfg.delayStrategy()),
		retry.Attempts(safecast.ToUint(cfg.RetryMax)),
		retry.RetryIf(retryConditionFn),
	)
}

// RetryOnError retries fn whenever its error matches one of retriableErrs; any other
// error returns immediately. Waits and attempt counts come from cfg.
func RetryOnError(ctx context.Context, logger logr.Logger, cfg *RetryPolicyConfiguration, fn func() error, msgOnRetry string, retriableErrs ...error) error {
	return RetryIf(ctx, logger, cfg, fn, msgOnRetry, func(err error) bool {
		return commonerrors.Any(err, retriableErrs...)
	})
}
