package txmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serializationFailure() error {
	return fmt.Errorf("txmanager: commit transaction: %w", &pq.Error{Code: "40001"})
}

func TestRetrySerializable_RetriesAfterSerializationFailure(t *testing.T) {
	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		if calls == 1 {
			return serializationFailure()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetrySerializable_DomainErrorNotRetried(t *testing.T) {
	errSlotTaken := errors.New("slot not available")

	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		return errSlotTaken
	})

	assert.ErrorIs(t, err, errSlotTaken)
	assert.Equal(t, 1, calls)
}

func TestRetrySerializable_AttemptsExhausted(t *testing.T) {
	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		return serializationFailure()
	})

	assert.True(t, isSerializationFailure(err))
	assert.Equal(t, maxSerializableAttempts, calls)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(serializationFailure()))
	assert.False(t, isSerializationFailure(errors.New("connection reset")))
	// Другие коды postgres (например, unique_violation) не повторяются
	assert.False(t, isSerializationFailure(fmt.Errorf("wrap: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isSerializationFailure(nil))
}
