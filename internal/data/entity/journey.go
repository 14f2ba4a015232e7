package entity

import (
	"strconv"
	"time"
)

type BusType string

const (
	BusTypeAC          BusType = "ac"
	BusTypeNonAC       BusType = "non_ac"
	BusTypeSleeper     BusType = "sleeper"
	BusTypeSemiSleeper BusType = "semi_sleeper"
)

// Journey is a scheduled bus trip. The booking engine treats it as
// read-only: seat count and price are fixed at creation time.
type Journey struct {
	Base
	BusNumber         string    `db:"bus_number"`
	BusName           string    `db:"bus_name"`
	Origin            string    `db:"origin"`
	Destination       string    `db:"destination"`
	DepartureAt       time.Time `db:"departure_at"`
	ArrivalAt         time.Time `db:"arrival_at"`
	BusType           BusType   `db:"bus_type"`
	PricePerSeatCents int64     `db:"price_per_seat_cents"`
	TotalSeats        int       `db:"total_seats"`
	IsActive          bool      `db:"is_active"`
}

// SeatNumbers returns the journey's fixed seat numbering "1".."totalSeats".
func (j *Journey) SeatNumbers() []string {
	seats := make([]string, j.TotalSeats)
	for i := 0; i < j.TotalSeats; i++ {
		seats[i] = strconv.Itoa(i + 1)
	}
	return seats
}

// HasSeat reports whether seat is a valid seat number for this journey.
// Only canonical decimal forms count ("01" is not a seat).
func (j *Journey) HasSeat(seat string) bool {
	n, err := strconv.Atoi(seat)
	if err != nil || n < 1 || n > j.TotalSeats {
		return false
	}
	return strconv.Itoa(n) == seat
}
