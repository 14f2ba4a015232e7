package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJourneySeatNumbers(t *testing.T) {
	journey := &Journey{TotalSeats: 3}
	assert.Equal(t, []string{"1", "2", "3"}, journey.SeatNumbers())
}

func TestJourneyHasSeat(t *testing.T) {
	journey := &Journey{TotalSeats: 40}

	assert.True(t, journey.HasSeat("1"))
	assert.True(t, journey.HasSeat("40"))

	assert.False(t, journey.HasSeat("0"))
	assert.False(t, journey.HasSeat("41"))
	assert.False(t, journey.HasSeat("-1"))
	assert.False(t, journey.HasSeat("abc"))
	assert.False(t, journey.HasSeat(""))

	// Only the canonical decimal form names a seat.
	assert.False(t, journey.HasSeat("01"))
	assert.False(t, journey.HasSeat(" 1"))
}

func TestBookingStatusHoldsSeats(t *testing.T) {
	assert.True(t, BookingStatusPending.HoldsSeats())
	assert.True(t, BookingStatusConfirmed.HoldsSeats())
	assert.False(t, BookingStatusCancelled.HoldsSeats())
	assert.False(t, BookingStatusFailed.HoldsSeats())
}
