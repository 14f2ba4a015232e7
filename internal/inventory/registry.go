package inventory

import (
	"context"
	"fmt"
	"sync"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type journeySource interface {
	FindAllActive(ctx context.Context) ([]*entity.Journey, error)
}

type bookingSource interface {
	FindActiveByJourneyID(ctx context.Context, journeyID uuid.UUID) ([]*entity.Booking, error)
}

// Registry holds one SeatMap per journey. Different journeys are fully
// independent; the registry lock only guards the map of maps.
type Registry struct {
	mu   sync.RWMutex
	maps map[uuid.UUID]*SeatMap
	log  *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		maps: make(map[uuid.UUID]*SeatMap),
		log:  log.With(zap.String("component", "seat_registry")),
	}
}

func (r *Registry) Get(journeyID uuid.UUID) (*SeatMap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[journeyID]
	return m, ok
}

// Load builds the journey's seat map with the given seats already booked
// and registers it. If a map for the journey already exists (a concurrent
// Load won the race) the existing one is returned untouched.
func (r *Registry) Load(journey *entity.Journey, bookedSeats []string) *SeatMap {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.maps[journey.ID]; ok {
		return existing
	}

	m := NewSeatMap(journey.ID, journey.SeatNumbers())
	for _, s := range bookedSeats {
		m.booked[s] = true
	}
	r.maps[journey.ID] = m

	r.log.Debug("Seat map loaded",
		zap.String("journey_id", journey.ID.String()),
		zap.Int("total_seats", journey.TotalSeats),
		zap.Int("booked", len(bookedSeats)),
	)
	return m
}

// Warm rebuilds seat maps for every active journey from the durable
// booking store. Seats held by pending or confirmed bookings come back
// booked; cancelled and failed bookings contribute nothing.
func (r *Registry) Warm(ctx context.Context, journeys journeySource, bookings bookingSource) error {
	active, err := journeys.FindAllActive(ctx)
	if err != nil {
		return fmt.Errorf("warm seat registry: %w", err)
	}

	for _, journey := range active {
		held, err := bookings.FindActiveByJourneyID(ctx, journey.ID)
		if err != nil {
			return fmt.Errorf("warm seat registry for journey %s: %w", journey.ID.String(), err)
		}

		var booked []string
		for _, b := range held {
			booked = append(booked, b.SeatNumbers...)
		}
		r.Load(journey, booked)
	}

	r.log.Info("Seat registry warmed", zap.Int("journeys", len(active)))
	return nil
}
