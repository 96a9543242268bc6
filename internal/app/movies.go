package app

import (
	"net/http"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

func (app *Application) GetAllMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.Movie, len(movies))
	for i, movie := range movies {
		resp[i] = toApiMovie(movie)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) AddMovie(w http.ResponseWriter, r *http.Request) {
	var input api.MovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input)

	err = app.movieRepo.Create(r.Context(), movie)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request, movieTitle string) {
	var input api.MovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input)

	err = app.movieRepo.UpdateByTitle(r.Context(), movieTitle, movie)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request, movieTitle string) {
	err := app.movieRepo.DeleteByTitle(r.Context(), movieTitle)
	if err != nil {
		app.admissionErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func toDomainMovie(input api.MovieRequest) *domain.Movie {
	return &domain.Movie{
		Title:       input.Title,
		Genre:       input.Genre,
		Duration:    input.Duration,
		Rating:      input.Rating,
		ReleaseYear: input.ReleaseYear,
	}
}

func toApiMovie(movie *domain.Movie) api.Movie {
	if movie == nil {
		return api.Movie{}
	}

	return api.Movie{
		Id:          movie.ID,
		Title:       movie.Title,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		Rating:      movie.Rating,
		ReleaseYear: movie.ReleaseYear,
	}
}
