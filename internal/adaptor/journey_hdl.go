package adaptor

import (
	"net/http"

	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JourneyHandler struct {
	service usecase.JourneyService
	log     *zap.Logger
}

func NewJourneyHandler(service usecase.JourneyService, log *zap.Logger) *JourneyHandler {
	return &JourneyHandler{
		service: service,
		log:     log.With(zap.String("handler", "journey")),
	}
}

// GetJourney handles GET /api/journeys/{id} (public)
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	journeyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid journey ID", nil)
		return
	}

	journey, err := h.service.GetJourney(r.Context(), journeyID)
	if err != nil {
		writeDomainError(w, h.log, err, "get journey")
		return
	}

	utils.ResponseSuccess(w, "success", journey)
}

// GetJourneySeats handles GET /api/journeys/{id}/seats (public)
func (h *JourneyHandler) GetJourneySeats(w http.ResponseWriter, r *http.Request) {
	journeyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid journey ID", nil)
		return
	}

	seats, err := h.service.GetJourneySeats(r.Context(), journeyID)
	if err != nil {
		writeDomainError(w, h.log, err, "get journey seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}
