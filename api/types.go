package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type MovieRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Genre       string  `json:"genre" validate:"required,notblank,max=100"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	ReleaseYear int     `json:"releaseYear" validate:"gt=0"`
}

type Movie struct {
	Id          int64   `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"releaseYear"`
}

type ShowtimeRequest struct {
	MovieId   int64           `json:"movieId" validate:"gt=0"`
	Theater   string          `json:"theater" validate:"required,notblank,max=255"`
	StartTime time.Time       `json:"startTime" validate:"required"`
	EndTime   time.Time       `json:"endTime" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
}

type Showtime struct {
	Id        int64           `json:"id"`
	MovieId   int64           `json:"movieId"`
	Theater   string          `json:"theater"`
	StartTime time.Time       `json:"startTime"`
	EndTime   time.Time       `json:"endTime"`
	Price     decimal.Decimal `json:"price"`
}

// DeleteShowtimeByDetailsParams defines parameters for DeleteShowtimeByDetails.
type DeleteShowtimeByDetailsParams struct {
	MovieTitle string `form:"movieTitle" json:"movieTitle"`
	Theater    string `form:"theater" json:"theater"`

	// StartTime is RFC 3339 or a zone-less ISO-8601 date-time read as UTC.
	StartTime string `form:"startTime" json:"startTime"`
}

type BookingRequest struct {
	ShowtimeId int64  `json:"showtimeId" validate:"gt=0"`
	SeatNumber *int   `json:"seatNumber" validate:"required,gte=0"`
	UserId     string `json:"userId" validate:"required,notblank,max=255"`
}

type Booking struct {
	BookingId  openapi_types.UUID `json:"bookingId"`
	ShowtimeId int64              `json:"showtimeId"`
	SeatNumber int                `json:"seatNumber"`
	UserId     string             `json:"userId"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	Reason    *string   `json:"reason,omitempty"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}
