package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/gateway"
	"bus-booking/internal/inventory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== FAKE REPOSITORIES ====================

type fakeJourneyRepo struct {
	mu       sync.Mutex
	journeys map[uuid.UUID]*entity.Journey
	findErr  error
}

func newFakeJourneyRepo(journeys ...*entity.Journey) *fakeJourneyRepo {
	r := &fakeJourneyRepo{journeys: make(map[uuid.UUID]*entity.Journey)}
	for _, j := range journeys {
		r.journeys[j.ID] = j
	}
	return r
}

func (r *fakeJourneyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	journey, ok := r.journeys[id]
	if !ok {
		return nil, nil
	}
	copied := *journey
	return &copied, nil
}

func (r *fakeJourneyRepo) FindAllActive(ctx context.Context) ([]*entity.Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	var active []*entity.Journey
	for _, j := range r.journeys {
		if j.IsActive {
			copied := *j
			active = append(active, &copied)
		}
	}
	return active, nil
}

// fakeBookingRepo keeps bookings in memory with the same compare-and-swap
// semantics as the SQL repository. beforeUpdateStatus lets a test mutate
// state between a read and its CAS to simulate a racing writer.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking

	createErr          error
	findErr            error
	beforeUpdateStatus func(r *fakeBookingRepo)
}

func newFakeBookingRepo(bookings ...*entity.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func copyBooking(b *entity.Booking) *entity.Booking {
	copied := *b
	copied.SeatNumbers = append([]string(nil), b.SeatNumbers...)
	copied.Passengers = append([]entity.Passenger(nil), b.Passengers...)
	return &copied
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(booking), nil
}

func (r *fakeBookingRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, b := range r.bookings {
		if b.ExternalOrderID != nil && *b.ExternalOrderID == orderID {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			matches = append(matches, copyBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return paginate(matches, limit, offset), nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, b := range r.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.Booking
	for _, b := range r.bookings {
		all = append(all, copyBooking(b))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, limit, offset), nil
}

func (r *fakeBookingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.bookings)), nil
}

func (r *fakeBookingRepo) FindActiveByJourneyID(ctx context.Context, journeyID uuid.UUID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	var active []*entity.Booking
	for _, b := range r.bookings {
		if b.JourneyID == journeyID && b.Status.HoldsSeats() {
			active = append(active, copyBooking(b))
		}
	}
	return active, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected, next entity.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.beforeUpdateStatus != nil {
		r.beforeUpdateStatus(r)
	}

	booking, ok := r.bookings[bookingID]
	if !ok || booking.Status != expected {
		return entity.ErrStatusMismatch
	}
	booking.Status = next
	booking.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) SetExternalOrderID(ctx context.Context, bookingID uuid.UUID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok || booking.Status != entity.BookingStatusPending || booking.ExternalOrderID != nil {
		return entity.ErrStatusMismatch
	}
	booking.ExternalOrderID = &orderID
	return nil
}

func (r *fakeBookingRepo) SetExternalPaymentID(ctx context.Context, bookingID uuid.UUID, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	booking.ExternalPaymentID = &paymentID
	return nil
}

// status reads the stored status without the copy-on-read of FindByID.
func (r *fakeBookingRepo) status(id uuid.UUID) entity.BookingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.bookings[id].Status
}

func paginate(bookings []*entity.Booking, limit, offset int) []*entity.Booking {
	if offset >= len(bookings) {
		return nil
	}
	end := offset + limit
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[offset:end]
}

// ==================== FAKE GATEWAY ====================

type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	orderID string
	err     error
}

func (g *fakeGateway) CreateExternalOrder(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.err != nil {
		return "", g.err
	}
	if g.orderID != "" {
		return g.orderID, nil
	}
	return fmt.Sprintf("BUS-TEST-%04d", g.calls), nil
}

// ==================== FIXTURES ====================

func newTestJourney(totalSeats int, pricePerSeatCents int64) *entity.Journey {
	now := time.Now()
	return &entity.Journey{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BusNumber:         "KA-05-7788",
		BusName:           "Coastal Express",
		Origin:            "Bangalore",
		Destination:       "Mangalore",
		DepartureAt:       now.Add(48 * time.Hour),
		ArrivalAt:         now.Add(56 * time.Hour),
		BusType:           entity.BusTypeAC,
		PricePerSeatCents: pricePerSeatCents,
		TotalSeats:        totalSeats,
		IsActive:          true,
	}
}

func newTestBooking(userID uuid.UUID, journey *entity.Journey, seats []string, status entity.BookingStatus) *entity.Booking {
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:           userID,
		JourneyID:        journey.ID,
		SeatNumbers:      seats,
		TotalAmountCents: int64(len(seats)) * journey.PricePerSeatCents,
		Status:           status,
	}
	for _, seat := range seats {
		booking.Passengers = append(booking.Passengers, entity.Passenger{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:  booking.ID,
			Name:       "Passenger " + seat,
			Age:        30,
			Gender:     entity.GenderFemale,
			SeatNumber: seat,
		})
	}
	return booking
}

type testEnv struct {
	journeys *fakeJourneyRepo
	bookings *fakeBookingRepo
	seats    *inventory.Registry
	repo     *repository.Repository
}

func newTestEnv(journeys ...*entity.Journey) *testEnv {
	journeyRepo := newFakeJourneyRepo(journeys...)
	bookingRepo := newFakeBookingRepo()
	return &testEnv{
		journeys: journeyRepo,
		bookings: bookingRepo,
		seats:    inventory.NewRegistry(zap.NewNop()),
		repo:     &repository.Repository{Journey: journeyRepo, Booking: bookingRepo},
	}
}

func (e *testEnv) bookingService() BookingService {
	return NewBookingService(e.repo, e.seats, zap.NewNop())
}

func (e *testEnv) paymentService(gw *fakeGateway, signer *gateway.Signer) PaymentService {
	return NewPaymentService(e.repo, e.seats, gw, signer, "INR", zap.NewNop())
}

func (e *testEnv) seatMap(journey *entity.Journey) *inventory.SeatMap {
	if m, ok := e.seats.Get(journey.ID); ok {
		return m
	}
	return e.seats.Load(journey, nil)
}
