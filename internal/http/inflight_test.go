package http

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInFlightTracker_Counts(t *testing.T) {
	tr := &InFlightTracker{}
	assert.Equal(t, int64(0), tr.Count())

	tr.Increment()
	tr.Increment()
	assert.Equal(t, int64(2), tr.Count())

	tr.Decrement()
	assert.Equal(t, int64(1), tr.Count())
}

func TestInFlightTracker_ConcurrentCounts(t *testing.T) {
	tr := &InFlightTracker{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Increment()
			tr.Decrement()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(0), tr.Count())
}

func TestInFlightTracker_WaitForZero(t *testing.T) {
	tr := &InFlightTracker{}
	tr.Increment()

	go func() {
		time.Sleep(20 * time.Millisecond)
		tr.Decrement()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tr.WaitForZero(ctx, 5*time.Millisecond))
}

func TestInFlightTracker_WaitForZeroTimeout(t *testing.T) {
	tr := &InFlightTracker{}
	tr.Increment()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := tr.WaitForZero(ctx, 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
