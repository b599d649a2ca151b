package events

import (
	"net"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/redis/go-redis/v9"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/config"
	configvalidation "github.com/txkit-go/txkit/config/validation"
)

// DeduplicationJanitorConfiguration describes the cleanup cadence of a deduplication
// store the twelve-factor way so that it can be loaded from the environment.
type DeduplicationJanitorConfiguration struct {
	// Period is the time between two cleanup passes.
	Period time.Duration `mapstructure:"period"`
	// Retention is how long publication marks are kept. It must comfortably exceed the
	// longest plausible retry horizon of a workflow.
	Retention time.Duration `mapstructure:"retention"`
}

func (cfg *DeduplicationJanitorConfiguration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.Period, configvalidation.IsPositiveDuration()),
		validation.Field(&cfg.Retention, validation.Min(time.Duration(0))),
	))
}

// DefaultDeduplicationJanitorConfiguration returns a configuration pruning hourly and
// keeping a day of publication marks.
func DefaultDeduplicationJanitorConfiguration() *DeduplicationJanitorConfiguration {
	return &DeduplicationJanitorConfiguration{
		Period:    time.Hour,
		Retention: 24 * time.Hour,
	}
}

// NewDeduplicationJanitorFromConfiguration returns a janitor over store set up as cfg
// describes.
func NewDeduplicationJanitorFromConfiguration(logger logr.Logger, store IDeduplicationStore, cfg *DeduplicationJanitorConfiguration) (*DeduplicationJanitor, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("janitor configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid janitor configuration")
	}
	return NewDeduplicationJanitor(logger, store, cfg.Period, cfg.Retention)
}

// RedisStoreConfiguration describes the connection to the Redis instance keeping the
// publication marks shared across service instances.
type RedisStoreConfiguration struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	// Key names the sorted set holding the marks. Blank selects a default shared by all
	// services on that database.
	Key string `mapstructure:"key"`
}

func (cfg *RedisStoreConfiguration) Validate() error {
	err := config.ValidateEmbedded(cfg)
	if err != nil {
		return err
	}
	return config.ConvertValidationError(validation.ValidateStruct(cfg,
		validation.Field(&cfg.Host, validation.Required),
		validation.Field(&cfg.Port, configvalidation.IsPort()),
		validation.Field(&cfg.Database, validation.Min(0)),
	))
}

// DefaultRedisStoreConfiguration returns a configuration pointing at a local Redis.
func DefaultRedisStoreConfiguration() *RedisStoreConfiguration {
	return &RedisStoreConfiguration{
		Host: "localhost",
		Port: 6379,
	}
}

// NewRedisDeduplicationStoreFromConfiguration returns a store over the Redis instance
// cfg describes. The connection is established lazily on first use.
func NewRedisDeduplicationStoreFromConfiguration(cfg *RedisStoreConfiguration) (*RedisDeduplicationStore, error) {
	if cfg == nil {
		return nil, commonerrors.UndefinedVariable("redis configuration")
	}
	err := cfg.Validate()
	if err != nil {
		return nil, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid redis configuration")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	return NewRedisDeduplicationStore(client, cfg.Key)
}
