package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking status values. Confirmed and Rejected are terminal; a booking never
// leaves a terminal status and ledger entries are never rewritten.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Booking stores identifiers, not live references: user and showtime are
// re-resolved through their own stores when a caller needs current details.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	BookingID  string    `bun:"booking_id,pk" json:"booking_id"`
	UserID     string    `bun:"user_id,notnull" json:"user_id"`
	ShowtimeID string    `bun:"showtime_id,notnull" json:"showtime_id"`
	SeatCount  int       `bun:"seat_count,notnull" json:"seat_count"`
	Status     string    `bun:"status,notnull" json:"status"`
	Reason     string    `bun:"reason,nullzero" json:"reason,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Terminal reports whether the booking reached an outcome that will not change.
func (b *Booking) Terminal() bool {
	return b.Status == StatusConfirmed || b.Status == StatusRejected
}

// SameRequest reports whether another booking was produced by an identical
// request. Used to tell an idempotent retry apart from a conflicting one.
func (b *Booking) SameRequest(other *Booking) bool {
	return b.UserID == other.UserID &&
		b.ShowtimeID == other.ShowtimeID &&
		b.SeatCount == other.SeatCount
}

// BookingRequest is the caller-facing input for Book. BookingID is optional;
// suppliers of their own id get idempotent retry semantics.
type BookingRequest struct {
	BookingID  string `json:"booking_id,omitempty"`
	UserID     string `json:"user_id"`
	ShowtimeID string `json:"showtime_id"`
	SeatCount  int    `json:"seat_count"`
}

// BookingDetails is a read-time join of a booking with the current catalog and
// user records its identifiers point at.
type BookingDetails struct {
	Booking  Booking   `json:"booking"`
	User     *User     `json:"user,omitempty"`
	Showtime *Showtime `json:"showtime,omitempty"`
	Movie    *Movie    `json:"movie,omitempty"`
}
