package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireJourney(r chi.Router, journeyHandler *adaptor.JourneyHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/journeys/{id} - Journey details
	r.Get("/api/journeys/{id}", journeyHandler.GetJourney)

	// GET /api/journeys/{id}/seats - Live seat availability for selection
	r.Get("/api/journeys/{id}/seats", journeyHandler.GetJourneySeats)
}
