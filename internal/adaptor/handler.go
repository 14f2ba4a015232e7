package adaptor

import (
	"errors"
	"net/http"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Journey *JourneyHandler
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Journey: NewJourneyHandler(service.Journey, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}

// writeDomainError maps the engine's error taxonomy to HTTP responses.
// Every mapped failure carries enough structure (offending seats, field
// messages) for the caller to render a precise message.
func writeDomainError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *entity.ValidationError
		invalidSeat   *entity.InvalidSeatError
		mismatch      *entity.PassengerMismatchError
		unavailable   *entity.SeatsUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &invalidSeat):
		log.Warn(operation+" failed - invalid seats", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), map[string][]string{"seats": invalidSeat.Seats})

	case errors.As(err, &mismatch):
		log.Warn(operation+" failed - passenger mismatch", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &unavailable):
		log.Warn(operation+" failed - seats unavailable", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), map[string][]string{"seats": unavailable.Seats})

	case errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrBookingAlreadyCancelled),
		errors.Is(err, entity.ErrOrderAlreadyOpen):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrSignatureInvalid):
		log.Warn(operation+" failed - bad signature", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid signature")

	case errors.Is(err, entity.ErrNotAuthorized):
		log.Warn(operation+" failed - not authorized", zap.Error(err))
		utils.ResponseForbidden(w, "Not authorized for this booking")

	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrConcurrentModification):
		log.Warn(operation+" failed - concurrent modification", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
