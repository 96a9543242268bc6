package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req api.BookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.admission.CreateBooking(r.Context(), admission.BookingInput{
		ShowtimeID: req.ShowtimeId,
		SeatNumber: *req.SeatNumber,
		UserID:     req.UserId,
	})
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	app.publish(r, events.BookingCreated, events.NewBookingEvent(booking))

	err = app.writeJSON(w, http.StatusOK, toApiBooking(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtimeBookings(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	bookings, err := app.admission.ListBookings(r.Context(), showtimeId)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	resp := make([]api.Booking, len(bookings))
	for i := range bookings {
		resp[i] = toApiBooking(&bookings[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking *domain.Booking) api.Booking {
	if booking == nil {
		return api.Booking{}
	}

	return api.Booking{
		BookingId:  booking.ID,
		ShowtimeId: booking.ShowtimeID,
		SeatNumber: booking.SeatNumber,
		UserId:     booking.UserID,
		CreatedAt:  booking.CreatedAt,
	}
}
