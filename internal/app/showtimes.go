package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
)

var errInvalidShowtimeId = errors.New("showtime ID must be a positive integer")

func (app *Application) AddShowtime(w http.ResponseWriter, r *http.Request) {
	input, ok := app.readShowtimeRequest(w, r)
	if !ok {
		return
	}

	showtime, err := app.admission.AddShowtime(r.Context(), input)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	app.publish(r, events.ShowtimeCreated, events.NewShowtimeEvent(showtime))

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	input, ok := app.readShowtimeRequest(w, r)
	if !ok {
		return
	}

	showtime, err := app.admission.UpdateShowtime(r.Context(), showtimeId, input)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	app.publish(r, events.ShowtimeUpdated, events.NewShowtimeEvent(showtime))

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	showtime, err := app.admission.GetShowtime(r.Context(), showtimeId)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, errInvalidShowtimeId)
		return
	}

	showtime, err := app.admission.DeleteShowtime(r.Context(), showtimeId)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	app.publish(r, events.ShowtimeDeleted, events.NewShowtimeEvent(showtime))

	w.WriteHeader(http.StatusOK)
}

func (app *Application) DeleteShowtimeByDetails(w http.ResponseWriter, r *http.Request, params api.DeleteShowtimeByDetailsParams) {
	showtime, err := app.admission.DeleteShowtimeByDetails(r.Context(), params.MovieTitle, params.Theater, params.StartTime)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	app.publish(r, events.ShowtimeDeleted, events.NewShowtimeEvent(showtime))

	w.WriteHeader(http.StatusOK)
}

func (app *Application) readShowtimeRequest(w http.ResponseWriter, r *http.Request) (admission.ShowtimeInput, bool) {
	var req api.ShowtimeRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return admission.ShowtimeInput{}, false
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return admission.ShowtimeInput{}, false
	}

	return admission.ShowtimeInput{
		MovieID:   req.MovieId,
		Theater:   req.Theater,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Price:     req.Price,
	}, true
}

func toApiShowtime(showtime *domain.Showtime) api.Showtime {
	if showtime == nil {
		return api.Showtime{}
	}

	return api.Showtime{
		Id:        showtime.ID,
		MovieId:   showtime.MovieID,
		Theater:   showtime.Theater,
		StartTime: showtime.StartTime,
		EndTime:   showtime.EndTime,
		Price:     showtime.Price,
	}
}
