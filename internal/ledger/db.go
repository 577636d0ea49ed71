package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-booking/internal/models"

	"github.com/uptrace/bun"
)

// DB is the bun-backed booking ledger store. The ledger is append-only: rows
// are inserted once and never updated or deleted.
type DB struct {
	Bun *bun.DB
}

// InsertBooking appends a booking entry. The insert is a no-op when the
// booking id already exists; the return value reports whether a row was
// actually written, so callers can fetch and classify the existing entry.
func (d *DB) InsertBooking(ctx context.Context, booking models.Booking) (bool, error) {
	res, err := d.Bun.NewInsert().
		Model(&booking).
		Ignore().
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert booking: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert booking: %w", err)
	}
	return rows > 0, nil
}

func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("booking_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return &booking, nil
}

// GetBookingsByShowtime lists all ledger entries for one showtime, oldest
// first. Used by operators to audit confirmed seat totals against capacity.
func (d *DB) GetBookingsByShowtime(ctx context.Context, showtimeID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("showtime_id = ?", showtimeID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select bookings by showtime: %w", err)
	}
	return bookings, nil
}

// GetBookingsByUser lists a user's ledger entries, newest first.
func (d *DB) GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select bookings by user: %w", err)
	}
	return bookings, nil
}
