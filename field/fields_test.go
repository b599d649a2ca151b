package field

import (
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOptional(t *testing.T) {
	str := faker.Word()
	ptr := ToOptional(str)
	require.NotNil(t, ptr)
	assert.Equal(t, str, *ptr)

	now := time.Now()
	assert.Equal(t, now, *ToOptional(now))
	assert.Equal(t, 42, *ToOptional(42))
}

func TestOptional(t *testing.T) {
	assert.Equal(t, "fallback", Optional(nil, "fallback"))
	assert.Equal(t, "set", Optional(ToOptional("set"), "fallback"))
	assert.Equal(t, time.Minute, Optional(nil, time.Minute))
	assert.Equal(t, time.Second, Optional(ToOptional(time.Second), time.Minute))
}

func TestOptionalZero(t *testing.T) {
	assert.Zero(t, OptionalZero[int](nil))
	assert.Equal(t, 7, OptionalZero(ToOptional(7)))
	assert.True(t, OptionalZero[time.Time](nil).IsZero())
}
