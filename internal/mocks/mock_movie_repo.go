package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetAllFunc        func(ctx context.Context) ([]*domain.Movie, error)
	CreateFunc        func(ctx context.Context, movie *domain.Movie) error
	UpdateByTitleFunc func(ctx context.Context, title string, movie *domain.Movie) error
	DeleteByTitleFunc func(ctx context.Context, title string) error
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) Create(ctx context.Context, movie *domain.Movie) error {
	return m.CreateFunc(ctx, movie)
}

func (m *MockMovieRepo) UpdateByTitle(ctx context.Context, title string, movie *domain.Movie) error {
	return m.UpdateByTitleFunc(ctx, title, movie)
}

func (m *MockMovieRepo) DeleteByTitle(ctx context.Context, title string) error {
	return m.DeleteByTitleFunc(ctx, title)
}
