package inventory

import (
	"context"
	"errors"
	"fmt"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// ErrInsufficientSeats is the expected business outcome when a showtime cannot
// cover the requested seat count. Nothing is decremented.
var ErrInsufficientSeats = errors.New("insufficient seats available")

// ErrShowtimeNotFound is returned when the showtime id is unknown to the store.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrOverRelease means a release had no matching prior reserve. Clamping it
// silently would hide a bug in the caller's compensation logic, so it surfaces.
var ErrOverRelease = errors.New("release exceeds showtime capacity")

// ErrInvalidSeatCount is returned for zero or negative seat counts.
var ErrInvalidSeatCount = errors.New("seat count must be at least 1")

type Store interface {
	GetShowtime(ctx context.Context, id string) (*models.Showtime, error)
	DecrementSeats(ctx context.Context, id string, seatCount int) (bool, error)
	IncrementSeats(ctx context.Context, id string, seatCount int) (bool, error)
}

// Locker serializes reserve/release per showtime id. Acquire blocks until the
// lock is held or ctx is done, and returns the function that releases it.
type Locker interface {
	Acquire(ctx context.Context, showtimeID string) (func(), error)
}

// Service owns authoritative seat availability. All mutations for one showtime
// run under that showtime's lock; different showtimes never contend.
type Service struct {
	Store Store
	Locks Locker
	Log   *logger.Logger
}

func NewService(store Store, locks Locker, log *logger.Logger) *Service {
	return &Service{Store: store, Locks: locks, Log: log}
}

// Reserve atomically checks availability and decrements it. On a shortfall it
// returns ErrInsufficientSeats with no mutation.
func (s *Service) Reserve(ctx context.Context, showtimeID string, seatCount int) error {
	if seatCount < 1 {
		return ErrInvalidSeatCount
	}

	release, err := s.Locks.Acquire(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("acquire showtime lock: %w", err)
	}
	defer release()

	ok, err := s.Store.DecrementSeats(ctx, showtimeID, seatCount)
	if err != nil {
		return err
	}
	if !ok {
		// Tell an unknown showtime apart from a genuine shortfall.
		if _, err := s.Store.GetShowtime(ctx, showtimeID); err != nil {
			return err
		}
		return ErrInsufficientSeats
	}

	s.Log.LogInventory("RESERVE", showtimeID, fmt.Sprintf("%d seat(s) taken", seatCount))
	return nil
}

// Release returns seats taken by a prior successful Reserve of equal size.
// Releasing more than was reserved is a caller bug and fails with
// ErrOverRelease instead of being clamped.
func (s *Service) Release(ctx context.Context, showtimeID string, seatCount int) error {
	if seatCount < 1 {
		return ErrInvalidSeatCount
	}

	release, err := s.Locks.Acquire(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("acquire showtime lock: %w", err)
	}
	defer release()

	ok, err := s.Store.IncrementSeats(ctx, showtimeID, seatCount)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Store.GetShowtime(ctx, showtimeID); err != nil {
			return err
		}
		s.Log.Error("INVENTORY", fmt.Sprintf("over-release of %d seat(s) on showtime %s", seatCount, showtimeID))
		return ErrOverRelease
	}

	s.Log.LogInventory("RELEASE", showtimeID, fmt.Sprintf("%d seat(s) returned", seatCount))
	return nil
}

// AvailableSeats is a read-only snapshot. It may be stale the moment it
// returns; only Reserve guarantees seats.
func (s *Service) AvailableSeats(ctx context.Context, showtimeID string) (int, error) {
	showtime, err := s.Store.GetShowtime(ctx, showtimeID)
	if err != nil {
		return 0, err
	}
	return showtime.AvailableSeats, nil
}
