package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/keylock"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/repository/memory"
	"github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoutedApplication(t *testing.T) (http.Handler, *mocks.MockPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	locker := keylock.NewLocalLocker(time.Second)
	publisher := &mocks.MockPublisher{}

	controller := admission.NewController(
		admission.NewRegistry(store.Showtimes(), store.Movies(), locker),
		admission.NewLedger(store.Showtimes(), store.Bookings(), locker),
		logger,
	)

	app := NewApp(Config{Env: "test"}, logger, nil, nil, validator.NewValidator(), store.Movies(), controller, publisher)

	return app.Routes(), publisher
}

func serve(t *testing.T, h http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	w, r := executeRequest(t, method, url, body)
	h.ServeHTTP(w, r)

	return w
}

func reasonOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	resp := decodeResponse[api.ErrorResponse](t, w)
	if resp.Reason == nil {
		return ""
	}

	return *resp.Reason
}

func TestRoutes_ShowtimeLifecycle(t *testing.T) {
	h, publisher := newRoutedApplication(t)

	w := serve(t, h, http.MethodPost, "/movies", validMovieRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	movie := decodeResponse[api.Movie](t, w)

	showtime := func(theater, start, end string) map[string]any {
		return map[string]any{
			"movieId":   movie.Id,
			"theater":   theater,
			"startTime": start,
			"endTime":   end,
			"price":     "12.50",
		}
	}

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 1", "2025-03-23T10:00:00Z", "2025-03-23T12:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeResponse[api.Showtime](t, w)

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 1", "2025-03-23T11:00:00Z", "2025-03-23T13:00:00Z"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ReasonOverlapConflict, reasonOf(t, w))

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 1", "2025-03-23T12:00:00Z", "2025-03-23T14:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code, "a showtime starting when another ends is accepted")

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 2", "2025-03-23T11:00:00Z", "2025-03-23T13:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code, "theaters are scheduled independently")

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 3", "2025-03-23T13:00:00Z", "2025-03-23T13:00:00Z"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, domain.ReasonInvalidInterval, reasonOf(t, w))

	booking := map[string]any{"showtimeId": first.Id, "seatNumber": 5, "userId": "u1"}

	w = serve(t, h, http.MethodPost, "/bookings", booking)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(t, h, http.MethodPost, "/bookings", booking)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ReasonSeatTaken, reasonOf(t, w))

	w = serve(t, h, http.MethodPost, "/bookings", map[string]any{"showtimeId": 999, "seatNumber": 5, "userId": "u1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ReasonUnknownShowtime, reasonOf(t, w))

	w = serve(t, h, http.MethodGet, "/showtimes/1/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse[[]api.Booking](t, w), 1)

	w = serve(t, h, http.MethodDelete, "/movies/Inception", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ReasonMovieInUse, reasonOf(t, w))

	w = serve(t, h, http.MethodDelete, "/showtimes/by-details?movieTitle=Inception&theater=Theater%201&startTime=2025-03-23T10:00:00", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(t, h, http.MethodGet, "/showtimes/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/showtimes/1/bookings", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodPost, "/showtimes", showtime("Theater 1", "2025-03-23T10:00:00Z", "2025-03-23T12:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code, "the freed interval can be scheduled again")
	assert.Greater(t, decodeResponse[api.Showtime](t, w).Id, first.Id)

	assert.Equal(t, []string{
		events.ShowtimeCreated,
		events.ShowtimeCreated,
		events.ShowtimeCreated,
		events.BookingCreated,
		events.ShowtimeDeleted,
		events.ShowtimeCreated,
	}, publisher.RoutingKeys())
}

func TestRoutes_Errors(t *testing.T) {
	h, _ := newRoutedApplication(t)

	tests := []struct {
		name       string
		method     string
		url        string
		wantStatus int
		wantReason string
	}{
		{name: "unknown route", method: http.MethodGet, url: "/theaters", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPut, url: "/movies", wantStatus: http.StatusMethodNotAllowed},
		{name: "non-numeric id", method: http.MethodGet, url: "/showtimes/abc", wantStatus: http.StatusBadRequest},
		{name: "missing query parameter", method: http.MethodDelete, url: "/showtimes/by-details?movieTitle=Inception", wantStatus: http.StatusBadRequest},
		{
			name:       "malformed start time",
			method:     http.MethodDelete,
			url:        "/showtimes/by-details?movieTitle=Inception&theater=T1&startTime=23-03-2025",
			wantStatus: http.StatusBadRequest,
			wantReason: domain.ReasonInvalidTimeFormat,
		},
		{
			name:       "unknown movie title",
			method:     http.MethodDelete,
			url:        "/showtimes/by-details?movieTitle=Missing&theater=T1&startTime=2025-03-23T10:00:00",
			wantStatus: http.StatusBadRequest,
			wantReason: domain.ReasonUnknownMovie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, tt.method, tt.url, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantReason, reasonOf(t, w))
		})
	}
}

func TestRoutes_SystemEndpoints(t *testing.T) {
	h, _ := newRoutedApplication(t)

	w := serve(t, h, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", decodeResponse[api.HealthResponse](t, w).Status)

	w = serve(t, h, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/showtimes/by-details")

	w = serve(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "go_goroutines"))
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication()

	handler := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w, r := executeRequest(t, http.MethodGet, "/", nil)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
	checkErrorResponse(t, w, errorExpectation{
		wantStatus:     http.StatusInternalServerError,
		wantErrMessage: ErrInternalServer,
	})
}
