package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/keylock"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The %s method is not supported for this resource"
	ErrValidationFailed   = "One or more fields failed validation"
	ErrServiceUnavailable = "The server is busy, please retry the request"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).ErrorContext(r.Context(), err.Error(), "method", method, "uri", uri)
}

// errorResponse sends a JSON-formatted error message with the given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.errorResponseWithReason(w, r, status, message, "")
}

func (app *Application) errorResponseWithReason(w http.ResponseWriter, r *http.Request, status int, message, reason string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	if reason != "" {
		resp.Reason = &reason
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf(ErrMethodNotAllowed, r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponseWithReason(w, r, http.StatusBadRequest, err.Error(), domain.Reason(err))
}

// paramErrorResponse handles path and query parameters that could not be bound.
func (app *Application) paramErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	details := make([]api.ValidationError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: details,
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// admissionErrorResponse translates errors returned by the showtime and
// booking write paths as well as the movie catalog.
func (app *Application) admissionErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	reason := domain.Reason(err)

	switch {
	case errors.Is(err, keylock.ErrTimeout):
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusServiceUnavailable, ErrServiceUnavailable)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.errorResponseWithReason(w, r, http.StatusNotFound, ErrNotFound, reason)
	case errors.Is(err, domain.ErrUnknownMovie),
		errors.Is(err, domain.ErrUnknownShowtime),
		errors.Is(err, domain.ErrInvalidTimeFormat):
		app.errorResponseWithReason(w, r, http.StatusBadRequest, err.Error(), reason)
	case errors.Is(err, domain.ErrOverlapConflict),
		errors.Is(err, domain.ErrSeatTaken),
		errors.Is(err, domain.ErrDuplicateTitle),
		errors.Is(err, domain.ErrMovieInUse),
		errors.Is(err, domain.ErrEditConflict):
		app.errorResponseWithReason(w, r, http.StatusConflict, err.Error(), reason)
	case errors.Is(err, domain.ErrInvalidInterval):
		app.errorResponseWithReason(w, r, http.StatusUnprocessableEntity, err.Error(), reason)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
