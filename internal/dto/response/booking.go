package response

import (
	"time"

	"bus-booking/internal/data/entity"
)

type PassengerResponse struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	SeatNumber string `json:"seat_number"`
}

type BookingResponse struct {
	ID                string               `json:"id"`
	UserID            string               `json:"user_id"`
	JourneyID         string               `json:"journey_id"`
	BusNumber         string               `json:"bus_number,omitempty"`
	BusName           string               `json:"bus_name,omitempty"`
	Origin            string               `json:"origin,omitempty"`
	Destination       string               `json:"destination,omitempty"`
	DepartureAt       *time.Time           `json:"departure_at,omitempty"`
	SeatNumbers       []string             `json:"seat_numbers"`
	Passengers        []PassengerResponse  `json:"passengers"`
	TotalAmountCents  int64                `json:"total_amount_cents"`
	Status            entity.BookingStatus `json:"status"`
	ExternalOrderID   *string              `json:"external_order_id,omitempty"`
	ExternalPaymentID *string              `json:"external_payment_id,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type PaymentOrderResponse struct {
	BookingID        string `json:"booking_id"`
	OrderID          string `json:"order_id"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Currency         string `json:"currency"`
}

// PaymentAckResponse acknowledges a provider notification. Duplicate is
// true when the notification matched an already-settled booking and no
// state changed.
type PaymentAckResponse struct {
	OrderID   string               `json:"order_id"`
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
	Duplicate bool                 `json:"duplicate"`
}

// Helper converters

func BookingToResponse(booking *entity.Booking, journey *entity.Journey) BookingResponse {
	passengers := make([]PassengerResponse, len(booking.Passengers))
	for i, p := range booking.Passengers {
		passengers[i] = PassengerResponse{
			Name:       p.Name,
			Age:        p.Age,
			Gender:     string(p.Gender),
			SeatNumber: p.SeatNumber,
		}
	}

	resp := BookingResponse{
		ID:                booking.ID.String(),
		UserID:            booking.UserID.String(),
		JourneyID:         booking.JourneyID.String(),
		SeatNumbers:       booking.SeatNumbers,
		Passengers:        passengers,
		TotalAmountCents:  booking.TotalAmountCents,
		Status:            booking.Status,
		ExternalOrderID:   booking.ExternalOrderID,
		ExternalPaymentID: booking.ExternalPaymentID,
		CreatedAt:         booking.CreatedAt,
	}

	if journey != nil {
		resp.BusNumber = journey.BusNumber
		resp.BusName = journey.BusName
		resp.Origin = journey.Origin
		resp.Destination = journey.Destination
		departure := journey.DepartureAt
		resp.DepartureAt = &departure
	}

	return resp
}
