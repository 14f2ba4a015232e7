package repository

import (
	"bus-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Journey JourneyRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Journey: NewJourneyRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
