package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/config"
	"github.com/txkit-go/txkit/safecast"
)

// RetryPolicyConfiguration describes a retry policy the twelve-factor way so that it can
// be loaded from the environment.
type RetryPolicyConfiguration struct {
	// Enabled states whether retries are enabled. When false a failing operation is
	// attempted exactly once.
	Enabled bool `mapstructure:"enabled"`
	// RetryMax is the total number of attempts which can be made, first try included.
	RetryMax int `mapstructure:"retry_max"`
	// RetryWaitMin is the initial wait between attempts. A zero wait with backoffs
	// disabled means immediate retries.
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	// RetryWaitMax caps the wait between attempts.
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	// RetryAfterDisabled states whether `Retry-After` hints from servers should be ignored.
	RetryAfterDisabled bool `mapstructure:"retry_after_disabled"`
	// LinearBackOffEnabled makes the wait grow linearly with the attempt number.
	LinearBackOffEnabled bool `mapstructure:"linear_back_off"`
	// BackOffEnabled makes the wait double on every attempt.
	BackOffEnabled bool `mapstructure:"back_off"`
	// JitterFactor in [0,1] controls the random spread added to backoff waits.
	JitterFactor float64 `mapstructure:"jitter_factor"`
}

// delayStrategy maps the backoff flags onto a wait strategy for the retry loop.
func (cfg *RetryPolicyConfiguration) delayStrategy() retry.DelayTypeFunc {
	switch {
	case cfg.LinearBackOffEnabled:
		return retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)
	case cfg.BackOffEnabled:
		return retry.BackOffDelay
	default:
		return retry.FixedDelay
	}
}

func (cfg *RetryPolicyConfiguration) Validate() error {
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.RetryMax, validation.Min(0)),
		validation.Field(&cfg.RetryWaitMin, validation.Min(time.Duration(0))),
		validation.Field(&cfg.RetryWaitMax, validation.Min(time.Duration(0))),
		validation.Field(&cfg.JitterFactor, validation.Min(float64(0)), validation.Max(float64(1))),
	))
}

// DefaultNoRetryPolicyConfiguration returns a configuration attempting operations exactly once.
func DefaultNoRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		RetryAfterDisabled: true,
		RetryMax:           1,
	}
}

// DefaultImmediateRetryPolicyConfiguration returns a configuration retrying without any wait.
func DefaultImmediateRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		Enabled:            true,
		RetryAfterDisabled: true,
		RetryMax:           4,
	}
}

// DefaultBasicRetryPolicyConfiguration returns a configuration retrying after a constant wait.
func DefaultBasicRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		Enabled:            true,
		RetryAfterDisabled: true,
		RetryMax:           4,
		RetryWaitMin:       100 * time.Millisecond,
		RetryWaitMax:       100 * time.Millisecond,
	}
}

// DefaultRobustRetryPolicyConfiguration returns a configuration for flaky dependencies:
// exponential backoff with jitter, honouring `Retry-After` hints.
func DefaultRobustRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		Enabled:        true,
		RetryMax:       10,
		RetryWaitMin:   100 * time.Millisecond,
		RetryWaitMax:   10 * time.Second,
		BackOffEnabled: true,
		JitterFactor:   0.25,
	}
}

// DefaultLinearBackoffRetryPolicyConfiguration returns a configuration whose wait grows
// linearly with the attempt number.
func DefaultLinearBackoffRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		Enabled:              true,
		RetryAfterDisabled:   true,
		RetryMax:             5,
		RetryWaitMin:         100 * time.Millisecond,
		RetryWaitMax:         10 * time.Second,
		LinearBackOffEnabled: true,
	}
}

// DefaultExponentialBackoffRetryPolicyConfiguration returns a configuration whose wait
// doubles on every attempt up to the cap, with jitter.
func DefaultExponentialBackoffRetryPolicyConfiguration() *RetryPolicyConfiguration {
	return &RetryPolicyConfiguration{
		Enabled:            true,
		RetryAfterDisabled: true,
		RetryMax:           8,
		RetryWaitMin:       100 * time.Millisecond,
		RetryWaitMax:       10 * time.Second,
		BackOffEnabled:     true,
		JitterFactor:       0.25,
	}
}

// NewPolicyFromConfiguration builds the retry policy matching cfg. A nil classifier
// defaults to the transient error categories.
func NewPolicyFromConfiguration(cfg *RetryPolicyConfiguration, classifier *ErrorClassifier) (IRetryPolicy, error) {
	if cfg == nil {
		return nil, commonerrors.New(commonerrors.ErrUndefined, "missing retry policy configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid retry policy configuration")
	}
	attempts := safecast.ToUint(cfg.RetryMax)
	switch {
	case !cfg.Enabled:
		return NewNoRetryPolicy(), nil
	case cfg.BackOffEnabled:
		return NewExponentialBackoffPolicy(cfg.RetryWaitMin, cfg.RetryWaitMax, cfg.JitterFactor, attempts, classifier), nil
	case cfg.LinearBackOffEnabled:
		return NewLinearBackoffPolicy(cfg.RetryWaitMin, cfg.RetryWaitMax, attempts, classifier), nil
	case cfg.RetryWaitMin <= 0:
		return NewImmediateRetryPolicy(attempts, classifier), nil
	default:
		return NewFixedDelayPolicy(cfg.RetryWaitMin, attempts, classifier), nil
	}
}
