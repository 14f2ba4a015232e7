package usecase

import (
	"context"
	"testing"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetJourney(t *testing.T) {
	journey := newTestJourney(40, 75000)
	env := newTestEnv(journey)
	svc := NewJourneyService(env.repo, env.seats, zap.NewNop())

	resp, err := svc.GetJourney(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.Equal(t, journey.ID.String(), resp.ID)
	assert.Equal(t, journey.BusName, resp.BusName)
	assert.Equal(t, int64(75000), resp.PricePerSeatCents)
	assert.Equal(t, 40, resp.TotalSeats)

	_, err = svc.GetJourney(context.Background(), uuid.New())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetJourneyInactive(t *testing.T) {
	journey := newTestJourney(40, 75000)
	journey.IsActive = false
	env := newTestEnv(journey)
	svc := NewJourneyService(env.repo, env.seats, zap.NewNop())

	_, err := svc.GetJourney(context.Background(), journey.ID)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetJourneySeatsLazyLoad(t *testing.T) {
	journey := newTestJourney(5, 50000)
	env := newTestEnv(journey)

	// A pending booking exists but no seat map was warmed; the first seats
	// read must rebuild availability from the store.
	held := newTestBooking(uuid.New(), journey, []string{"2", "5"}, entity.BookingStatusPending)
	require.NoError(t, env.bookings.Create(context.Background(), held))

	svc := NewJourneyService(env.repo, env.seats, zap.NewNop())

	resp, err := svc.GetJourneySeats(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalSeats)
	assert.Equal(t, 3, resp.Available)
	require.Len(t, resp.Seats, 5)
	assert.Equal(t, "1", resp.Seats[0].Number)
	assert.False(t, resp.Seats[0].Booked)
	assert.True(t, resp.Seats[1].Booked)
	assert.True(t, resp.Seats[4].Booked)
}

func TestGetJourneySeatsReflectsLiveState(t *testing.T) {
	journey := newTestJourney(4, 50000)
	env := newTestEnv(journey)
	seatMap := env.seats.Load(journey, nil)
	svc := NewJourneyService(env.repo, env.seats, zap.NewNop())

	require.NoError(t, seatMap.Reserve([]string{"1"}))
	resp, err := svc.GetJourneySeats(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Available)

	seatMap.Release([]string{"1"})
	resp, err = svc.GetJourneySeats(context.Background(), journey.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Available)
}
