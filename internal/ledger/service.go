package ledger

import (
	"context"
	"errors"
	"fmt"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// ErrNotFound is returned when no ledger entry exists for a booking id.
var ErrNotFound = errors.New("booking not found")

// ErrConflictingRetry means a booking id was reused with different
// user/showtime/seat-count parameters. That is a caller bug and is never
// silently resolved in favor of either version.
var ErrConflictingRetry = errors.New("booking id reused with different parameters")

type Store interface {
	InsertBooking(ctx context.Context, booking models.Booking) (bool, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByShowtime(ctx context.Context, showtimeID string) ([]models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

// Service is the durable, idempotent record of booking outcomes.
type Service struct {
	Store Store
	Log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{Store: store, Log: log}
}

// Record appends the booking. If an entry already exists under the same id it
// is returned unchanged with duplicate=true when the parameters match, making
// retries a no-op; mismatched parameters fail with ErrConflictingRetry.
// Safe under concurrent calls with the same booking id: the insert itself
// resolves the race, and exactly one caller sees duplicate=false.
func (s *Service) Record(ctx context.Context, booking models.Booking) (entry *models.Booking, duplicate bool, err error) {
	inserted, err := s.Store.InsertBooking(ctx, booking)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		s.Log.LogLedger("RECORD", booking.BookingID, fmt.Sprintf("status %s for showtime %s", booking.Status, booking.ShowtimeID))
		return &booking, false, nil
	}

	existing, err := s.Store.GetBookingByID(ctx, booking.BookingID)
	if err != nil {
		return nil, false, err
	}
	if !existing.SameRequest(&booking) {
		s.Log.Error("LEDGER", fmt.Sprintf("conflicting retry for booking %s", booking.BookingID))
		return nil, false, ErrConflictingRetry
	}

	s.Log.LogLedger("RECORD", booking.BookingID, "duplicate submission, returning existing entry")
	return existing, true, nil
}

// Lookup returns the ledger entry for a booking id or ErrNotFound.
func (s *Service) Lookup(ctx context.Context, id string) (*models.Booking, error) {
	return s.Store.GetBookingByID(ctx, id)
}

// BookingsForShowtime exposes the showtime's append-only history.
func (s *Service) BookingsForShowtime(ctx context.Context, showtimeID string) ([]models.Booking, error) {
	return s.Store.GetBookingsByShowtime(ctx, showtimeID)
}

// BookingsForUser exposes a user's booking history.
func (s *Service) BookingsForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Store.GetBookingsByUser(ctx, userID)
}
