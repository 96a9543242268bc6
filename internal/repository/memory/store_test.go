package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) (*Store, *domain.Movie, *domain.Showtime) {
	t.Helper()
	ctx := context.Background()

	store := NewStore()
	movie := &domain.Movie{Title: "Dune", Genre: "Sci-Fi", Duration: 155, Rating: 8.0, ReleaseYear: 2021}
	require.NoError(t, store.Movies().Create(ctx, movie))

	id, err := store.Showtimes().NextID(ctx)
	require.NoError(t, err)

	start := time.Date(2025, 3, 23, 18, 0, 0, 0, time.UTC)
	showtime := &domain.Showtime{
		ID:        id,
		MovieID:   movie.ID,
		Theater:   "Hall 1",
		StartTime: start,
		EndTime:   start.Add(3 * time.Hour),
		Price:     decimal.NewFromInt(10),
	}
	require.NoError(t, store.Showtimes().Create(ctx, showtime))

	return store, movie, showtime
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()
	store, movie, _ := seed(t)
	movies := store.Movies()

	err := movies.Create(ctx, &domain.Movie{Title: "Dune", Genre: "Drama", Duration: 90})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	other := &domain.Movie{Title: "Arrival", Genre: "Sci-Fi", Duration: 116}
	require.NoError(t, movies.Create(ctx, other))
	assert.Equal(t, movie.ID+1, other.ID)

	err = movies.UpdateByTitle(ctx, "Arrival", &domain.Movie{Title: "Dune", Genre: "Sci-Fi", Duration: 116})
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)

	renamed := &domain.Movie{Title: "Arrival (2016)", Genre: "Sci-Fi", Duration: 116}
	require.NoError(t, movies.UpdateByTitle(ctx, "Arrival", renamed))
	assert.Equal(t, other.ID, renamed.ID)

	_, err = movies.GetByTitle(ctx, "Arrival")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	got, err := movies.GetByTitle(ctx, "Arrival (2016)")
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	all, err := movies.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dune", all[0].Title)

	assert.ErrorIs(t, movies.DeleteByTitle(ctx, "Dune"), domain.ErrMovieInUse)
	assert.ErrorIs(t, movies.DeleteByTitle(ctx, "Nope"), domain.ErrRecordNotFound)
	require.NoError(t, movies.DeleteByTitle(ctx, "Arrival (2016)"))

	_, err = movies.GetById(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestShowtimeRepository(t *testing.T) {
	ctx := context.Background()
	store, movie, showtime := seed(t)
	showtimes := store.Showtimes()

	t.Run("foreign key on movie", func(t *testing.T) {
		id, err := showtimes.NextID(ctx)
		require.NoError(t, err)
		assert.Equal(t, showtime.ID+1, id)

		err = showtimes.Create(ctx, &domain.Showtime{ID: id, MovieID: 42, Theater: "Hall 1"})
		assert.ErrorIs(t, err, domain.ErrUnknownMovie)
	})

	t.Run("lookup by composite key", func(t *testing.T) {
		got, err := showtimes.GetByMovieAndTheaterAndStartTime(ctx, movie.ID, "Hall 1", showtime.StartTime)
		require.NoError(t, err)
		assert.Equal(t, showtime.ID, got.ID)

		_, err = showtimes.GetByMovieAndTheaterAndStartTime(ctx, movie.ID, "Hall 2", showtime.StartTime)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		got, err := showtimes.GetById(ctx, showtime.ID)
		require.NoError(t, err)
		got.Theater = "mutated"

		again, err := showtimes.GetById(ctx, showtime.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hall 1", again.Theater)
	})

	t.Run("update of missing showtime", func(t *testing.T) {
		err := showtimes.Update(ctx, &domain.Showtime{ID: 999, MovieID: movie.ID})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("delete cascades to bookings", func(t *testing.T) {
		bookings := store.Bookings()
		require.NoError(t, bookings.Create(ctx, &domain.Booking{ID: uuid.New(), ShowtimeID: showtime.ID, SeatNumber: 3, UserID: "u"}))

		require.NoError(t, showtimes.Delete(ctx, showtime.ID))
		assert.ErrorIs(t, showtimes.Delete(ctx, showtime.ID), domain.ErrRecordNotFound)

		exists, err := bookings.ExistsByShowtimeAndSeatNumber(ctx, showtime.ID, 3)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	store, _, showtime := seed(t)
	bookings := store.Bookings()

	require.NoError(t, bookings.Create(ctx, &domain.Booking{ID: uuid.New(), ShowtimeID: showtime.ID, SeatNumber: 0, UserID: "u"}))

	err := bookings.Create(ctx, &domain.Booking{ID: uuid.New(), ShowtimeID: showtime.ID, SeatNumber: 0, UserID: "v"})
	assert.ErrorIs(t, err, domain.ErrSeatTaken)

	err = bookings.Create(ctx, &domain.Booking{ID: uuid.New(), ShowtimeID: 77, SeatNumber: 0, UserID: "v"})
	assert.ErrorIs(t, err, domain.ErrUnknownShowtime)

	list, err := bookings.GetByShowtimeId(ctx, showtime.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u", list[0].UserID)
}
