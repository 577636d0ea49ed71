package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ms-booking/internal/booking"
	"ms-booking/internal/booking/qr"
	"ms-booking/internal/inventory"
	"ms-booking/internal/ledger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	BookingService *booking.BookingService
	QR             *qr.Generator
}

// CreateBooking runs one booking attempt. Rejections are normal outcomes and
// come back 200 with the rejected booking; only store faults and conflicting
// retries are HTTP errors.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	result, err := h.BookingService.Book(r.Context(), req)
	if err != nil {
		if errors.Is(err, ledger.ErrConflictingRetry) {
			writeJSON(w, http.StatusConflict, utils.ErrorResponse("booking id reused with different parameters", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("booking attempt failed", err.Error()))
		return
	}

	status := http.StatusOK
	if result.Status == models.StatusConfirmed {
		status = http.StatusCreated
	}
	writeJSON(w, status, utils.SuccessResponse("booking "+result.Status, result))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	details, err := h.BookingService.BookingDetails(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, utils.ErrorResponse("booking not found", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("lookup failed", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("booking found", details))
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	showtimeID := chi.URLParam(r, "showtimeId")

	available, err := h.BookingService.AvailableSeats(r.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, inventory.ErrShowtimeNotFound) {
			writeJSON(w, http.StatusNotFound, utils.ErrorResponse("showtime not found", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("availability lookup failed", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, utils.SuccessResponse("availability", map[string]interface{}{
		"showtime_id":     showtimeID,
		"available_seats": available,
	}))
}

// GetBookingQR returns the encrypted confirmation QR for a confirmed booking.
func (h *Handler) GetBookingQR(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	result, err := h.BookingService.LookupBooking(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, utils.ErrorResponse("booking not found", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("lookup failed", err.Error()))
		return
	}
	if result.Status != models.StatusConfirmed {
		writeJSON(w, http.StatusConflict, utils.ErrorResponse("no QR for unconfirmed booking", "booking status is "+result.Status))
		return
	}

	png, err := h.QR.GenerateEncryptedQR(*result)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("QR generation failed", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
