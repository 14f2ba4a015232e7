package response

import (
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/inventory"
)

type JourneyResponse struct {
	ID                string    `json:"id"`
	BusNumber         string    `json:"bus_number"`
	BusName           string    `json:"bus_name"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	DepartureAt       time.Time `json:"departure_at"`
	ArrivalAt         time.Time `json:"arrival_at"`
	BusType           string    `json:"bus_type"`
	PricePerSeatCents int64     `json:"price_per_seat_cents"`
	TotalSeats        int       `json:"total_seats"`
}

type SeatStatusResponse struct {
	Number string `json:"number"`
	Booked bool   `json:"booked"`
}

type JourneySeatsResponse struct {
	JourneyID  string               `json:"journey_id"`
	TotalSeats int                  `json:"total_seats"`
	Available  int                  `json:"available"`
	Seats      []SeatStatusResponse `json:"seats"`
}

func JourneyToResponse(journey *entity.Journey) JourneyResponse {
	return JourneyResponse{
		ID:                journey.ID.String(),
		BusNumber:         journey.BusNumber,
		BusName:           journey.BusName,
		Origin:            journey.Origin,
		Destination:       journey.Destination,
		DepartureAt:       journey.DepartureAt,
		ArrivalAt:         journey.ArrivalAt,
		BusType:           string(journey.BusType),
		PricePerSeatCents: journey.PricePerSeatCents,
		TotalSeats:        journey.TotalSeats,
	}
}

func SeatsToResponse(journey *entity.Journey, snapshot []inventory.Seat) JourneySeatsResponse {
	seats := make([]SeatStatusResponse, len(snapshot))
	available := 0
	for i, s := range snapshot {
		seats[i] = SeatStatusResponse{Number: s.Number, Booked: s.Booked}
		if !s.Booked {
			available++
		}
	}

	return JourneySeatsResponse{
		JourneyID:  journey.ID.String(),
		TotalSeats: journey.TotalSeats,
		Available:  available,
		Seats:      seats,
	}
}
