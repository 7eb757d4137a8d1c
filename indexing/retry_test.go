package indexing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/xfts/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conflict = fmt.Errorf("%w: conflict", storage.ErrTransactionFailed)

func TestRetryWithBackoff_SucceedsAfterConflicts(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return conflict
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return conflict
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, storage.ErrTransactionFailed)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_PermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("disk full")
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return permanent
	}, 5, time.Millisecond)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		cancel()
		return conflict
	}, 5, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
