package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusFailed    BookingStatus = "failed"
)

// HoldsSeats reports whether a booking in this status contributes booked
// seats to its journey's seat map.
func (s BookingStatus) HoldsSeats() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Passenger struct {
	BaseSimple
	BookingID  uuid.UUID `db:"booking_id"`
	Name       string    `db:"name"`
	Age        int       `db:"age"`
	Gender     Gender    `db:"gender"`
	SeatNumber string    `db:"seat_number"`
}

// Booking is a customer's claim on a set of seats for one journey.
// Bookings are never deleted; cancellation is a status transition.
type Booking struct {
	Base
	UserID            uuid.UUID     `db:"user_id"`
	JourneyID         uuid.UUID     `db:"journey_id"`
	SeatNumbers       []string      `db:"seat_numbers"`
	TotalAmountCents  int64         `db:"total_amount_cents"`
	Status            BookingStatus `db:"status"`
	ExternalOrderID   *string       `db:"external_order_id"`
	ExternalPaymentID *string       `db:"external_payment_id"`

	Passengers []Passenger
}
