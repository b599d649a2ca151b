package workflow

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/config"
	configvalidation "github.com/txkit-go/txkit/config/validation"
)

// RecorderConfiguration describes an operation recorder the twelve-factor way so that it
// can be loaded from the environment.
type RecorderConfiguration struct {
	// RingSize is the capacity of the buffer decoupling recording from journalling.
	RingSize int `mapstructure:"ring_size"`
	// PollInterval is how often the journalling goroutine drains the buffer.
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

func (cfg *RecorderConfiguration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.RingSize, validation.Required, validation.Min(1)),
		validation.Field(&cfg.PollInterval, configvalidation.IsPositiveDuration()),
	))
}

// DefaultRecorderConfiguration returns the recorder configuration used when none is
// supplied.
func DefaultRecorderConfiguration() *RecorderConfiguration {
	return &RecorderConfiguration{
		RingSize:     1024,
		PollInterval: 10 * time.Millisecond,
	}
}

// NewRecorderFromConfiguration returns a recorder over store set up as cfg describes.
func NewRecorderFromConfiguration(logger logr.Logger, store IStore, cfg *RecorderConfiguration) (*Recorder, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("recorder configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid recorder configuration")
	}
	return NewRecorder(logger, store, cfg.RingSize, cfg.PollInterval)
}

// RetentionConfiguration describes how long settled workflows are kept before the
// retention janitor removes them.
type RetentionConfiguration struct {
	// Period is the time between two cleanup passes.
	Period time.Duration `mapstructure:"period"`
	// Retention is how long settled workflows are kept after completion.
	Retention time.Duration `mapstructure:"retention"`
}

func (cfg *RetentionConfiguration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.Period, configvalidation.IsPositiveDuration()),
		validation.Field(&cfg.Retention, validation.Min(time.Duration(0))),
	))
}

// DefaultRetentionConfiguration returns a configuration pruning settled workflows every
// six hours once they are thirty days old.
func DefaultRetentionConfiguration() *RetentionConfiguration {
	return &RetentionConfiguration{
		Period:    6 * time.Hour,
		Retention: 30 * 24 * time.Hour,
	}
}

// NewRetentionJanitorFromConfiguration returns a janitor over store set up as cfg
// describes.
func NewRetentionJanitorFromConfiguration(logger logr.Logger, store IStore, cfg *RetentionConfiguration) (*RetentionJanitor, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("retention configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid retention configuration")
	}
	return NewRetentionJanitor(logger, store, cfg.Period, cfg.Retention)
}

// SQLiteStoreConfiguration describes the durable workflow store location.
type SQLiteStoreConfiguration struct {
	// Path is the database file. There is no usable default as the location is entirely
	// deployment specific.
	Path string `mapstructure:"path"`
}

func (cfg *SQLiteStoreConfiguration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.Path, validation.Required),
	))
}

// DefaultSQLiteStoreConfiguration returns a configuration with no database path set; the
// path must come from the environment.
func DefaultSQLiteStoreConfiguration() *SQLiteStoreConfiguration {
	return &SQLiteStoreConfiguration{}
}

// NewSQLiteStoreFromConfiguration opens the durable store cfg describes.
func NewSQLiteStoreFromConfiguration(ctx context.Context, cfg *SQLiteStoreConfiguration) (*SQLiteStore, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("store configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid store configuration")
	}
	return NewSQLiteStore(ctx, cfg.Path)
}
