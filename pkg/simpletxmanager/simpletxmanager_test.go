package simpletxmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySerializable_RetriesAfterSerializationFailure(t *testing.T) {
	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("simpletxmanager: commit transaction: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetrySerializable_DomainErrorNotRetried(t *testing.T) {
	errConflict := errors.New("conflict")

	calls := 0
	err := retrySerializable(context.Background(), func() error {
		calls++
		return errConflict
	})

	assert.ErrorIs(t, err, errConflict)
	assert.Equal(t, 1, calls)
}
