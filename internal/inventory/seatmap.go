package inventory

import (
	"sync"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

// Seat is one entry of a seat map snapshot.
type Seat struct {
	Number string
	Booked bool
}

// SeatMap tracks which seats of a single journey are currently held.
// Reserve and Release run under one mutex so a reservation is a single
// atomic step: no caller ever observes a partially reserved seat set.
type SeatMap struct {
	journeyID uuid.UUID

	mu     sync.Mutex
	seats  []string
	booked map[string]bool
}

func NewSeatMap(journeyID uuid.UUID, seats []string) *SeatMap {
	m := &SeatMap{
		journeyID: journeyID,
		seats:     make([]string, len(seats)),
		booked:    make(map[string]bool, len(seats)),
	}
	copy(m.seats, seats)
	for _, s := range seats {
		m.booked[s] = false
	}
	return m
}

func (m *SeatMap) JourneyID() uuid.UUID {
	return m.journeyID
}

// Reserve marks every requested seat booked, all-or-nothing. If any seat
// is already booked (or unknown to this map) nothing changes and the
// returned SeatsUnavailableError lists every offending seat.
func (m *SeatMap) Reserve(seats []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var unavailable []string
	for _, s := range seats {
		booked, ok := m.booked[s]
		if !ok || booked {
			unavailable = append(unavailable, s)
		}
	}
	if len(unavailable) > 0 {
		return &entity.SeatsUnavailableError{Seats: unavailable}
	}

	for _, s := range seats {
		m.booked[s] = true
	}
	return nil
}

// Release marks each given seat free. Releasing an already-free or
// unknown seat is a no-op, so duplicate cancellation retries are safe.
func (m *SeatMap) Release(seats []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range seats {
		if _, ok := m.booked[s]; ok {
			m.booked[s] = false
		}
	}
}

func (m *SeatMap) IsFree(seat string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	booked, ok := m.booked[seat]
	return ok && !booked
}

func (m *SeatMap) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, booked := range m.booked {
		if !booked {
			count++
		}
	}
	return count
}

func (m *SeatMap) TotalSeats() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.seats)
}

// Snapshot returns every seat with its current booked flag, in the
// journey's seat order.
func (m *SeatMap) Snapshot() []Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]Seat, len(m.seats))
	for i, s := range m.seats {
		snapshot[i] = Seat{Number: s, Booked: m.booked[s]}
	}
	return snapshot
}
