package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `
		SELECT id, title, genre, duration, rating, release_year
		FROM movies
		ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.Duration,
			&movie.Rating,
			&movie.ReleaseYear,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	query := `
		SELECT id, title, genre, duration, rating, release_year
		FROM movies
		WHERE id = $1`

	return p.getOne(ctx, query, id)
}

func (p *PostgresMovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	query := `
		SELECT id, title, genre, duration, rating, release_year
		FROM movies
		WHERE title = $1`

	return p.getOne(ctx, query, title)
}

func (p *PostgresMovieRepository) getOne(ctx context.Context, query string, arg any) (*domain.Movie, error) {
	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Duration,
		&movie.Rating,
		&movie.ReleaseYear,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, genre, duration, rating, release_year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := p.db.QueryRow(ctx, query,
		movie.Title,
		movie.Genre,
		movie.Duration,
		movie.Rating,
		movie.ReleaseYear,
	).Scan(&movie.ID)
	if err != nil {
		if pgErrorCode(err) == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateTitle
		}

		return err
	}

	return nil
}

func (p *PostgresMovieRepository) UpdateByTitle(ctx context.Context, title string, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, duration = $3, rating = $4, release_year = $5
		WHERE title = $6
		RETURNING id`

	err := p.db.QueryRow(ctx, query,
		movie.Title,
		movie.Genre,
		movie.Duration,
		movie.Rating,
		movie.ReleaseYear,
		title,
	).Scan(&movie.ID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrRecordNotFound
		case pgErrorCode(err) == pgerrcode.UniqueViolation:
			return domain.ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresMovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	result, err := p.db.Exec(ctx, `DELETE FROM movies WHERE title = $1`, title)
	if err != nil {
		if pgErrorCode(err) == pgerrcode.ForeignKeyViolation {
			return domain.ErrMovieInUse
		}

		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
