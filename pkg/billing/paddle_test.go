package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaddleProvider(t *testing.T) {
	t.Parallel()

	t.Run("MissingAPIKey", func(t *testing.T) {
		t.Parallel()
		_, err := NewPaddleProvider(PaddleConfig{})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("InvalidEnvironment", func(t *testing.T) {
		t.Parallel()
		_, err := NewPaddleProvider(PaddleConfig{APIKey: "pdl_test", Environment: "staging"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid paddle environment")
	})
}

func TestIsPendingScheduleError(t *testing.T) {
	t.Parallel()

	assert.True(t, isPendingScheduleError(errors.New("subscription has a scheduled_change pending")))
	assert.True(t, isPendingScheduleError(errors.New("cannot update: scheduled change exists")))
	assert.False(t, isPendingScheduleError(errors.New("card declined")))
	assert.False(t, isPendingScheduleError(nil))
}
