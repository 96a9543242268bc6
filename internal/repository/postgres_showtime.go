package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) NextID(ctx context.Context) (int64, error) {
	var id int64

	err := p.db.QueryRow(ctx, `SELECT nextval('showtimes_id_seq')`).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		INSERT INTO showtimes (id, movie_id, theater, start_time, end_time, price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.Theater,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
	)
	if err != nil {
		return showtimeWriteError(err, showtime)
	}

	return nil
}

func (p *PostgresShowtimeRepository) Update(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $1, theater = $2, start_time = $3, end_time = $4, price = $5
		WHERE id = $6`

	result, err := p.db.Exec(ctx, query,
		showtime.MovieID,
		showtime.Theater,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
		showtime.ID,
	)
	if err != nil {
		return showtimeWriteError(err, showtime)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func showtimeWriteError(err error, showtime *domain.Showtime) error {
	switch pgErrorCode(err) {
	case pgerrcode.ExclusionViolation:
		return &domain.OverlapError{
			Theater: showtime.Theater,
			Start:   showtime.StartTime,
			End:     showtime.EndTime,
		}
	case pgerrcode.ForeignKeyViolation:
		return domain.ErrUnknownMovie
	case pgerrcode.CheckViolation:
		if pgConstraintName(err) == "showtimes_interval_check" {
			return domain.ErrInvalidInterval
		}

		return err
	default:
		return err
	}
}

const showtimeColumns = `id, movie_id, theater, start_time, end_time, price`

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int64) (*domain.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	showtime, err := scanShowtime(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return showtime, nil
}

func (p *PostgresShowtimeRepository) GetByTheater(ctx context.Context, theater string) ([]domain.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE theater = $1 ORDER BY start_time`

	rows, err := p.db.Query(ctx, query, theater)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var showtimes []domain.Showtime

	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, *showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (p *PostgresShowtimeRepository) GetByMovieAndTheaterAndStartTime(
	ctx context.Context,
	movieID int64,
	theater string,
	startTime time.Time,
) (*domain.Showtime, error) {

	query := `SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE movie_id = $1 AND theater = $2 AND start_time = $3`

	showtime, err := scanShowtime(p.db.QueryRow(ctx, query, movieID, theater, startTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return showtime, nil
}

// Delete relies on ON DELETE CASCADE to remove the showtime's bookings.
func (p *PostgresShowtimeRepository) Delete(ctx context.Context, id int64) error {
	result, err := p.db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func scanShowtime(row pgx.Row) (*domain.Showtime, error) {
	var showtime domain.Showtime

	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.Theater,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.Price,
	)
	if err != nil {
		return nil, err
	}

	showtime.StartTime = showtime.StartTime.UTC()
	showtime.EndTime = showtime.EndTime.UTC()

	return &showtime, nil
}
