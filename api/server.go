package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Service status and version
	// (GET /healthcheck)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// List every movie
	// (GET /movies/all)
	GetAllMovies(w http.ResponseWriter, r *http.Request)
	// Add a movie
	// (POST /movies)
	AddMovie(w http.ResponseWriter, r *http.Request)
	// Replace a movie found by title
	// (POST /movies/update/{movieTitle})
	UpdateMovie(w http.ResponseWriter, r *http.Request, movieTitle string)
	// Delete a movie without showtimes
	// (DELETE /movies/{movieTitle})
	DeleteMovie(w http.ResponseWriter, r *http.Request, movieTitle string)
	// Schedule a showtime
	// (POST /showtimes)
	AddShowtime(w http.ResponseWriter, r *http.Request)
	// Delete the showtime of a movie in a theater at an exact start time
	// (DELETE /showtimes/by-details)
	DeleteShowtimeByDetails(w http.ResponseWriter, r *http.Request, params DeleteShowtimeByDetailsParams)
	// Get a showtime
	// (GET /showtimes/{showtimeId})
	GetShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64)
	// Delete a showtime together with its bookings
	// (DELETE /showtimes/{showtimeId})
	DeleteShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64)
	// Replace every field of a showtime
	// (POST /showtimes/update/{showtimeId})
	UpdateShowtime(w http.ResponseWriter, r *http.Request, showtimeId int64)
	// List the bookings of a showtime
	// (GET /showtimes/{showtimeId}/bookings)
	GetShowtimeBookings(w http.ResponseWriter, r *http.Request, showtimeId int64)
	// Book a seat for a showtime
	// (POST /bookings)
	CreateBooking(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts request parameters into typed handler arguments.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

func (siw *ServerInterfaceWrapper) GetAllMovies(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetAllMovies(w, r)
}

func (siw *ServerInterfaceWrapper) AddMovie(w http.ResponseWriter, r *http.Request) {
	siw.Handler.AddMovie(w, r)
}

func (siw *ServerInterfaceWrapper) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var movieTitle string
	if !siw.bindPath(w, r, "movieTitle", &movieTitle) {
		return
	}

	siw.Handler.UpdateMovie(w, r, movieTitle)
}

func (siw *ServerInterfaceWrapper) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	var movieTitle string
	if !siw.bindPath(w, r, "movieTitle", &movieTitle) {
		return
	}

	siw.Handler.DeleteMovie(w, r, movieTitle)
}

func (siw *ServerInterfaceWrapper) AddShowtime(w http.ResponseWriter, r *http.Request) {
	siw.Handler.AddShowtime(w, r)
}

func (siw *ServerInterfaceWrapper) DeleteShowtimeByDetails(w http.ResponseWriter, r *http.Request) {
	var params DeleteShowtimeByDetailsParams

	if !siw.bindRequiredQuery(w, r, "movieTitle", &params.MovieTitle) {
		return
	}

	if !siw.bindRequiredQuery(w, r, "theater", &params.Theater) {
		return
	}

	if !siw.bindRequiredQuery(w, r, "startTime", &params.StartTime) {
		return
	}

	siw.Handler.DeleteShowtimeByDetails(w, r, params)
}

func (siw *ServerInterfaceWrapper) GetShowtime(w http.ResponseWriter, r *http.Request) {
	var showtimeId int64
	if !siw.bindPath(w, r, "showtimeId", &showtimeId) {
		return
	}

	siw.Handler.GetShowtime(w, r, showtimeId)
}

func (siw *ServerInterfaceWrapper) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	var showtimeId int64
	if !siw.bindPath(w, r, "showtimeId", &showtimeId) {
		return
	}

	siw.Handler.DeleteShowtime(w, r, showtimeId)
}

func (siw *ServerInterfaceWrapper) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	var showtimeId int64
	if !siw.bindPath(w, r, "showtimeId", &showtimeId) {
		return
	}

	siw.Handler.UpdateShowtime(w, r, showtimeId)
}

func (siw *ServerInterfaceWrapper) GetShowtimeBookings(w http.ResponseWriter, r *http.Request) {
	var showtimeId int64
	if !siw.bindPath(w, r, "showtimeId", &showtimeId) {
		return
	}

	siw.Handler.GetShowtimeBookings(w, r, showtimeId)
}

func (siw *ServerInterfaceWrapper) CreateBooking(w http.ResponseWriter, r *http.Request) {
	siw.Handler.CreateBooking(w, r)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

func (siw *ServerInterfaceWrapper) bindRequiredQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if !r.URL.Query().Has(name) {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: name})
		return false
	}

	err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/healthcheck", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/movies/all", wrapper.GetAllMovies)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/movies", wrapper.AddMovie)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/movies/update/{movieTitle}", wrapper.UpdateMovie)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/movies/{movieTitle}", wrapper.DeleteMovie)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/showtimes", wrapper.AddShowtime)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/showtimes/by-details", wrapper.DeleteShowtimeByDetails)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/showtimes/{showtimeId}", wrapper.GetShowtime)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/showtimes/{showtimeId}", wrapper.DeleteShowtime)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/showtimes/update/{showtimeId}", wrapper.UpdateShowtime)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/showtimes/{showtimeId}/bookings", wrapper.GetShowtimeBookings)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/bookings", wrapper.CreateBooking)
	})

	return r
}
