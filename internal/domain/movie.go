package domain

import "context"

type Movie struct {
	ID          int64
	Title       string
	Genre       string
	Duration    int
	Rating      float64
	ReleaseYear int
}

// MovieCatalog is the read side of the movie catalog the scheduling core
// depends on.
type MovieCatalog interface {
	GetById(ctx context.Context, id int64) (*Movie, error)
	GetByTitle(ctx context.Context, title string) (*Movie, error)
}

type MovieRepository interface {
	MovieCatalog
	GetAll(ctx context.Context) ([]*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	UpdateByTitle(ctx context.Context, title string, movie *Movie) error
	DeleteByTitle(ctx context.Context, title string) error
}
