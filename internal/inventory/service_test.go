package inventory

import (
	"context"
	"sync"
	"testing"

	"ms-booking/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *DB) {
	d := setupTestDB(t)
	svc := NewService(d, NewKeyedMutex(), &logger.Logger{})
	return svc, d
}

func TestReserve(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 50)
	ctx := context.Background()

	err := svc.Reserve(ctx, "show-1", 3)
	require.NoError(t, err)

	available, err := svc.AvailableSeats(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 47, available)
}

func TestReserve_InsufficientSeats(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 47)
	ctx := context.Background()

	err := svc.Reserve(ctx, "show-1", 50)
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	available, err := svc.AvailableSeats(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 47, available, "failed reserve must not decrement")
}

func TestReserve_InvalidSeatCount(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 50)

	assert.ErrorIs(t, svc.Reserve(context.Background(), "show-1", 0), ErrInvalidSeatCount)
	assert.ErrorIs(t, svc.Reserve(context.Background(), "show-1", -2), ErrInvalidSeatCount)
}

func TestReserve_UnknownShowtime(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Reserve(context.Background(), "no-such-show", 1)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestReserve_Boundary(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 4)
	ctx := context.Background()

	// Exactly the remaining count succeeds and drives availability to zero.
	require.NoError(t, svc.Reserve(ctx, "show-1", 4))

	available, err := svc.AvailableSeats(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 0, available)

	// The next single seat is a shortfall.
	assert.ErrorIs(t, svc.Reserve(ctx, "show-1", 1), ErrInsufficientSeats)
}

func TestRelease(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 50)
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, "show-1", 5))
	require.NoError(t, svc.Release(ctx, "show-1", 5))

	available, err := svc.AvailableSeats(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 50, available)
}

func TestRelease_OverRelease(t *testing.T) {
	svc, d := newTestService(t)
	seedShowtime(t, d, "show-1", 50, 50)
	ctx := context.Background()

	err := svc.Release(ctx, "show-1", 1)
	assert.ErrorIs(t, err, ErrOverRelease)

	available, err := svc.AvailableSeats(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 50, available, "over-release must not be clamped into the count")
}

func TestReserve_ConcurrentDemand(t *testing.T) {
	svc, d := newTestService(t)

	const capacity = 50
	const callers = 60
	seedShowtime(t, d, "race-show", capacity, capacity)

	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Reserve(context.Background(), "race-show", 1)
		}()
	}
	wg.Wait()
	close(results)

	var confirmed, rejected int
	for err := range results {
		switch {
		case err == nil:
			confirmed++
		case assert.ErrorIs(t, err, ErrInsufficientSeats):
			rejected++
		}
	}

	assert.Equal(t, capacity, confirmed, "every seat sold exactly once")
	assert.Equal(t, callers-capacity, rejected)

	available, err := svc.AvailableSeats(context.Background(), "race-show")
	require.NoError(t, err)
	assert.Equal(t, 0, available, "no underflow")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	locks := NewKeyedMutex()
	ctx := context.Background()

	releaseA, err := locks.Acquire(ctx, "show-a")
	require.NoError(t, err)
	defer releaseA()

	// A held lock on one showtime must not block another showtime.
	done := make(chan struct{})
	go func() {
		releaseB, err := locks.Acquire(ctx, "show-b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()
	<-done
}
