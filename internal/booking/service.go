package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-booking/internal/catalog"
	"ms-booking/internal/inventory"
	"ms-booking/internal/ledger"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/users"

	"github.com/google/uuid"
)

// ValidationError carries the reason a request was rejected before any
// inventory was touched. It is recovered locally: the orchestrator turns it
// into a Rejected booking rather than surfacing it as a fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

type Inventory interface {
	Reserve(ctx context.Context, showtimeID string, seatCount int) error
	Release(ctx context.Context, showtimeID string, seatCount int) error
	AvailableSeats(ctx context.Context, showtimeID string) (int, error)
}

type Ledger interface {
	Record(ctx context.Context, booking models.Booking) (entry *models.Booking, duplicate bool, err error)
	Lookup(ctx context.Context, id string) (*models.Booking, error)
}

type Catalog interface {
	GetShowtime(ctx context.Context, id string) (*models.Showtime, error)
	GetMovie(ctx context.Context, id string) (*models.Movie, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type EventPublisher interface {
	PublishBookingConfirmed(booking models.Booking) error
	PublishBookingRejected(booking models.Booking) error
}

// BookingService is the single entry point for booking attempts. It composes
// inventory and ledger so that "book N seats" looks atomic from outside:
// every call ends in a terminal booking or a surfaced store fault, never a
// half-applied decrement.
type BookingService struct {
	Inventory Inventory
	Ledger    Ledger
	Catalog   Catalog
	Users     UserDirectory
	Events    EventPublisher
	Log       *logger.Logger
}

func NewBookingService(inv Inventory, led Ledger, cat Catalog, usr UserDirectory, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{
		Inventory: inv,
		Ledger:    led,
		Catalog:   cat,
		Users:     usr,
		Events:    events,
		Log:       log,
	}
}

// Book runs one attempt through the state machine:
// validate -> reserve -> record, with a compensating release if the ledger
// write fails after seats were taken. Callers that pass their own booking id
// get idempotent retries; an id reused with different parameters fails with
// ledger.ErrConflictingRetry.
func (s *BookingService) Book(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	bookingID := req.BookingID
	if bookingID == "" {
		bookingID = uuid.NewString()
	}

	// A prior terminal outcome for a caller-supplied id wins outright, with
	// no second trip through inventory.
	if req.BookingID != "" {
		existing, err := s.Ledger.Lookup(ctx, bookingID)
		switch {
		case err == nil:
			attempt := models.Booking{UserID: req.UserID, ShowtimeID: req.ShowtimeID, SeatCount: req.SeatCount}
			if !existing.SameRequest(&attempt) {
				return nil, ledger.ErrConflictingRetry
			}
			s.Log.LogBooking("RETRY", bookingID, "returning existing terminal booking")
			return existing, nil
		case errors.Is(err, ledger.ErrNotFound):
			// first attempt under this id
		default:
			return nil, fmt.Errorf("ledger lookup: %w", err)
		}
	}

	if verr, err := s.validate(ctx, req); err != nil {
		return nil, err
	} else if verr != nil {
		s.Log.LogBooking("REJECT", bookingID, verr.Reason)
		return s.reject(ctx, bookingID, req, verr.Reason)
	}

	if err := s.Inventory.Reserve(ctx, req.ShowtimeID, req.SeatCount); err != nil {
		if errors.Is(err, inventory.ErrInsufficientSeats) {
			s.Log.LogBooking("REJECT", bookingID, "insufficient seats")
			return s.reject(ctx, bookingID, req, "insufficient seats")
		}
		return nil, fmt.Errorf("reserve seats: %w", err)
	}

	confirmed := models.Booking{
		BookingID:  bookingID,
		UserID:     req.UserID,
		ShowtimeID: req.ShowtimeID,
		SeatCount:  req.SeatCount,
		Status:     models.StatusConfirmed,
		CreatedAt:  time.Now().UTC(),
	}

	entry, duplicate, err := s.Ledger.Record(ctx, confirmed)
	if err != nil {
		// The decrement is already applied but not durable. Hand the seats
		// back before surfacing the fault so nothing leaks.
		s.compensate(ctx, bookingID, req)
		return nil, fmt.Errorf("record booking: %w", err)
	}
	if duplicate {
		// A concurrent retry won the insert race. Its decrement (if any)
		// stands; ours must be returned.
		s.compensate(ctx, bookingID, req)
		s.Log.LogBooking("RETRY", bookingID, "lost insert race to concurrent retry")
		return entry, nil
	}

	s.Log.LogBooking("CONFIRM", bookingID, fmt.Sprintf("%d seat(s) on showtime %s", req.SeatCount, req.ShowtimeID))
	s.publish(entry)
	return entry, nil
}

// validate checks the request without touching inventory. A *ValidationError
// means the request itself is bad; a non-nil error means a store failed.
func (s *BookingService) validate(ctx context.Context, req models.BookingRequest) (*ValidationError, error) {
	if req.SeatCount < 1 {
		return &ValidationError{Reason: "seat count must be at least 1"}, nil
	}

	if _, err := s.Users.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return &ValidationError{Reason: "unknown user"}, nil
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	if _, err := s.Catalog.GetShowtime(ctx, req.ShowtimeID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return &ValidationError{Reason: "unknown showtime"}, nil
		}
		return nil, fmt.Errorf("resolve showtime: %w", err)
	}

	return nil, nil
}

func (s *BookingService) reject(ctx context.Context, bookingID string, req models.BookingRequest, reason string) (*models.Booking, error) {
	rejected := models.Booking{
		BookingID:  bookingID,
		UserID:     req.UserID,
		ShowtimeID: req.ShowtimeID,
		SeatCount:  req.SeatCount,
		Status:     models.StatusRejected,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}

	// No seats are held on this path, so a ledger failure needs no
	// compensation; it just fails the attempt.
	entry, _, err := s.Ledger.Record(ctx, rejected)
	if err != nil {
		return nil, fmt.Errorf("record rejection: %w", err)
	}

	s.publish(entry)
	return entry, nil
}

func (s *BookingService) compensate(ctx context.Context, bookingID string, req models.BookingRequest) {
	if err := s.Inventory.Release(ctx, req.ShowtimeID, req.SeatCount); err != nil {
		s.Log.Error("BOOKING", fmt.Sprintf("compensating release for booking %s failed: %v", bookingID, err))
	}
}

func (s *BookingService) publish(booking *models.Booking) {
	if s.Events == nil {
		return
	}

	var err error
	switch booking.Status {
	case models.StatusConfirmed:
		err = s.Events.PublishBookingConfirmed(*booking)
	case models.StatusRejected:
		err = s.Events.PublishBookingRejected(*booking)
	}
	if err != nil {
		// Event delivery is best effort; the booking outcome already stands.
		s.Log.Error("KAFKA", fmt.Sprintf("publish booking %s: %v", booking.BookingID, err))
	}
}

// AvailableSeats is the pass-through read; the snapshot carries no
// reservation guarantee.
func (s *BookingService) AvailableSeats(ctx context.Context, showtimeID string) (int, error) {
	return s.Inventory.AvailableSeats(ctx, showtimeID)
}

// LookupBooking returns the terminal booking for an id, or ledger.ErrNotFound.
func (s *BookingService) LookupBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.Ledger.Lookup(ctx, id)
}

// BookingDetails re-resolves the booking's identifiers against the current
// catalog and user records. Missing references leave nil fields rather than
// failing the read: the ledger entry outlives its referents.
func (s *BookingService) BookingDetails(ctx context.Context, id string) (*models.BookingDetails, error) {
	booking, err := s.Ledger.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &models.BookingDetails{Booking: *booking}

	if user, err := s.Users.GetUser(ctx, booking.UserID); err == nil {
		details.User = user
	}
	if showtime, err := s.Catalog.GetShowtime(ctx, booking.ShowtimeID); err == nil {
		details.Showtime = showtime
		if movie, err := s.Catalog.GetMovie(ctx, showtime.MovieID); err == nil {
			details.Movie = movie
		}
	}

	return details, nil
}
