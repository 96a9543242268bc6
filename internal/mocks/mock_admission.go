package mocks

import (
	"context"

	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAdmission struct {
	mock.Mock
}

func (m *MockAdmission) AddShowtime(ctx context.Context, input admission.ShowtimeInput) (*domain.Showtime, error) {
	args := m.Called(ctx, input)
	v, _ := args.Get(0).(*domain.Showtime)
	return v, args.Error(1)
}

func (m *MockAdmission) UpdateShowtime(ctx context.Context, id int64, input admission.ShowtimeInput) (*domain.Showtime, error) {
	args := m.Called(ctx, id, input)
	v, _ := args.Get(0).(*domain.Showtime)
	return v, args.Error(1)
}

func (m *MockAdmission) GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Showtime)
	return v, args.Error(1)
}

func (m *MockAdmission) DeleteShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Showtime)
	return v, args.Error(1)
}

func (m *MockAdmission) DeleteShowtimeByDetails(ctx context.Context, movieTitle, theater, startTime string) (*domain.Showtime, error) {
	args := m.Called(ctx, movieTitle, theater, startTime)
	v, _ := args.Get(0).(*domain.Showtime)
	return v, args.Error(1)
}

func (m *MockAdmission) CreateBooking(ctx context.Context, input admission.BookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	v, _ := args.Get(0).(*domain.Booking)
	return v, args.Error(1)
}

func (m *MockAdmission) ListBookings(ctx context.Context, showtimeID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, showtimeID)
	v, _ := args.Get(0).([]domain.Booking)
	return v, args.Error(1)
}
