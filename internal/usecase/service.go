package usecase

import (
	"bus-booking/internal/data/repository"
	"bus-booking/internal/gateway"
	"bus-booking/internal/inventory"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Journey JourneyService
	Booking BookingService
	Payment PaymentService
}

func NewService(repo *repository.Repository, seats *inventory.Registry, gw gateway.PaymentGateway, config *utils.Config, log *zap.Logger) *Service {
	signer := gateway.NewSigner(config.Payment.Secret)

	return &Service{
		Journey: NewJourneyService(repo, seats, log),
		Booking: NewBookingService(repo, seats, log),
		Payment: NewPaymentService(repo, seats, gw, signer, config.Payment.Currency, log),
	}
}
