package transaction

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/txkit-go/txkit/config"
	"github.com/txkit-go/txkit/retry"
)

// TransactionConfiguration parameterises one coordinator run. It is immutable for the
// duration of the run.
type TransactionConfiguration struct {
	// Timeout bounds every lifecycle attempt. Zero disables the per-attempt deadline.
	Timeout time.Duration `mapstructure:"timeout"`
	// Retry drives re-attempts of the whole lifecycle.
	Retry *retry.RetryPolicyConfiguration `mapstructure:"retry"`
	// IsolationHint is informational only and is recorded alongside the workflow; the
	// coordinator does not interpret it.
	IsolationHint string `mapstructure:"isolation_hint"`
}

func (cfg *TransactionConfiguration) Validate() error {
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&cfg.Retry, validation.Required),
	))
}

// DefaultTransactionConfiguration returns the configuration used when a run does not
// supply one: 30s attempts retried with exponential backoff.
func DefaultTransactionConfiguration() *TransactionConfiguration {
	return &TransactionConfiguration{
		Timeout: 30 * time.Second,
		Retry:   retry.DefaultExponentialBackoffRetryPolicyConfiguration(),
	}
}

// DefaultSingleAttemptTransactionConfiguration returns a configuration attempting the
// lifecycle exactly once.
func DefaultSingleAttemptTransactionConfiguration() *TransactionConfiguration {
	return &TransactionConfiguration{
		Timeout: 30 * time.Second,
		Retry:   retry.DefaultNoRetryPolicyConfiguration(),
	}
}
