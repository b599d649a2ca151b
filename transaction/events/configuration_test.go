package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
	"github.com/txkit-go/txkit/config"
	"github.com/txkit-go/txkit/logs/logstest"
)

func TestDeduplicationJanitorConfiguration(t *testing.T) {
	require.NoError(t, DefaultDeduplicationJanitorConfiguration().Validate())

	t.Run("a janitor comes up from the default configuration", func(t *testing.T) {
		janitor, err := NewDeduplicationJanitorFromConfiguration(logstest.NewTestLogger(t), NewMemoryDeduplicationStore(), DefaultDeduplicationJanitorConfiguration())
		require.NoError(t, err)
		assert.NotNil(t, janitor)
	})
	t.Run("a missing period is rejected", func(t *testing.T) {
		cfg := DefaultDeduplicationJanitorConfiguration()
		cfg.Period = 0
		_, err := NewDeduplicationJanitorFromConfiguration(logstest.NewTestLogger(t), NewMemoryDeduplicationStore(), cfg)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
	})
	t.Run("a missing configuration is rejected", func(t *testing.T) {
		_, err := NewDeduplicationJanitorFromConfiguration(logstest.NewTestLogger(t), NewMemoryDeduplicationStore(), nil)
		errortest.AssertError(t, err, commonerrors.ErrUndefined)
	})
}

func TestDeduplicationJanitorConfigurationFromEnvironment(t *testing.T) {
	t.Setenv("TXKITTEST_PERIOD", "30m")
	t.Setenv("TXKITTEST_RETENTION", "48h")

	cfg := &DeduplicationJanitorConfiguration{}
	require.NoError(t, config.Load("TXKITTEST", cfg, DefaultDeduplicationJanitorConfiguration()))
	assert.Equal(t, 30*time.Minute, cfg.Period)
	assert.Equal(t, 48*time.Hour, cfg.Retention)
}

func TestRedisStoreConfiguration(t *testing.T) {
	require.NoError(t, DefaultRedisStoreConfiguration().Validate())

	t.Run("a store comes up from the default configuration", func(t *testing.T) {
		store, err := NewRedisDeduplicationStoreFromConfiguration(DefaultRedisStoreConfiguration())
		require.NoError(t, err)
		assert.NotNil(t, store)
	})
	t.Run("an out of range port is rejected", func(t *testing.T) {
		cfg := DefaultRedisStoreConfiguration()
		cfg.Port = 70000
		_, err := NewRedisDeduplicationStoreFromConfiguration(cfg)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
	})
	t.Run("a blank host is rejected", func(t *testing.T) {
		cfg := DefaultRedisStoreConfiguration()
		cfg.Host = ""
		_, err := NewRedisDeduplicationStoreFromConfiguration(cfg)
		errortest.AssertError(t, err, commonerrors.ErrInvalid)
	})
	t.Run("a missing configuration is rejected", func(t *testing.T) {
		_, err := NewRedisDeduplicationStoreFromConfiguration(nil)
		errortest.AssertError(t, err, commonerrors.ErrUndefined)
	})
}
