package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/inventory"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error)

	// Admin endpoints
	GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo  *repository.Repository
	seats *inventory.Registry
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, seats *inventory.Registry, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		seats: seats,
		log:   log.With(zap.String("service", "booking")),
	}
}

// CreateBooking turns a seat selection into a pending booking. The seat
// map reservation is the single point of truth for availability: it either
// claims every requested seat or nothing. If persisting the booking fails
// afterwards, the seats are released again so reservation plus record
// behave as one unit.
func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &entity.ValidationError{Fields: errs}
	}

	journeyID, err := uuid.Parse(req.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("invalid journey ID format %s: %w", req.JourneyID, err)
	}

	journey, err := s.repo.Journey.FindByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("lookup journey: %w", err)
	}
	if journey == nil || !journey.IsActive {
		return nil, fmt.Errorf("journey %s: %w", req.JourneyID, entity.ErrNotFound)
	}

	// Reject departures already in the past
	if journey.DepartureAt.Before(time.Now()) {
		return nil, &entity.ValidationError{Fields: map[string]string{
			"journey_id": "journey has already departed",
		}}
	}

	if err := validateSeatSelection(journey, req); err != nil {
		return nil, err
	}

	seatMap, err := s.seatMapFor(ctx, journey)
	if err != nil {
		return nil, err
	}

	// Single atomic availability check and claim. On conflict nothing has
	// changed and the error carries every unavailable seat.
	if err := seatMap.Reserve(req.SeatNumbers); err != nil {
		var unavailable *entity.SeatsUnavailableError
		if errors.As(err, &unavailable) {
			s.log.Info("Booking rejected, seats unavailable",
				zap.String("journey_id", journeyID.String()),
				zap.Strings("seats", unavailable.Seats),
			)
		}
		return nil, err
	}

	// Total is always derived from the journey price, never taken from
	// the request.
	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:           userID,
		JourneyID:        journeyID,
		SeatNumbers:      req.SeatNumbers,
		TotalAmountCents: int64(len(req.SeatNumbers)) * journey.PricePerSeatCents,
		Status:           entity.BookingStatusPending,
	}
	booking.Passengers = make([]entity.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		booking.Passengers[i] = entity.Passenger{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:  booking.ID,
			Name:       p.Name,
			Age:        p.Age,
			Gender:     entity.Gender(p.Gender),
			SeatNumber: p.SeatNumber,
		}
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		// Compensating release: the seats were claimed but no durable
		// booking exists, which must never be left behind.
		seatMap.Release(req.SeatNumbers)
		s.log.Error("Failed to persist booking, seats released",
			zap.Error(err),
			zap.String("journey_id", journeyID.String()),
			zap.Strings("seats", req.SeatNumbers),
		)
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistenceFailure, err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("journey_id", journeyID.String()),
		zap.Strings("seats", req.SeatNumbers),
		zap.Int64("total_amount_cents", booking.TotalAmountCents),
	)

	resp := response.BookingToResponse(booking, journey)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
	}

	if booking.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotAuthorized)
	}

	journey, err := s.repo.Journey.FindByID(ctx, booking.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("get booking journey: %w", err)
	}

	resp := response.BookingToResponse(booking, journey)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	return s.buildBookingPage(ctx, bookings, req, total)
}

// CancelBooking reverses a non-cancelled booking and releases its seats.
// The status change commits before any seat is freed, so an observer never
// sees seats available for a booking that is still live.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
	}

	if booking.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotAuthorized)
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrAlreadyCancelled)
	}

	// CAS against the status we read; one retry with a fresh read covers a
	// payment confirmation landing in between.
	err = s.repo.Booking.UpdateStatus(ctx, bookingID, booking.Status, entity.BookingStatusCancelled)
	if errors.Is(err, entity.ErrStatusMismatch) {
		booking, err = s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return nil, fmt.Errorf("cancel booking reread: %w", err)
		}
		if booking == nil {
			return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
		}
		if booking.Status == entity.BookingStatusCancelled {
			return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrAlreadyCancelled)
		}

		err = s.repo.Booking.UpdateStatus(ctx, bookingID, booking.Status, entity.BookingStatusCancelled)
		if errors.Is(err, entity.ErrStatusMismatch) {
			s.log.Warn("Cancel lost CAS race twice",
				zap.String("booking_id", bookingID.String()),
			)
			return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrConcurrentModification)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID.String(), err)
	}

	// Status is durable now; releasing seats is safe and idempotent.
	s.releaseSeats(ctx, booking)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("requested_by", requesterID.String()),
		zap.Strings("seats", booking.SeatNumbers),
	)

	booking.Status = entity.BookingStatusCancelled
	journey, _ := s.repo.Journey.FindByID(ctx, booking.JourneyID)
	resp := response.BookingToResponse(booking, journey)
	return &resp, nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get all bookings", zap.Error(err))
		return nil, fmt.Errorf("get all bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return s.buildBookingPage(ctx, bookings, req, total)
}

// ==================== HELPER METHODS ====================

// seatMapFor returns the journey's seat map, loading it from the booking
// store on first use after startup.
func (s *bookingService) seatMapFor(ctx context.Context, journey *entity.Journey) (*inventory.SeatMap, error) {
	if seatMap, ok := s.seats.Get(journey.ID); ok {
		return seatMap, nil
	}

	active, err := s.repo.Booking.FindActiveByJourneyID(ctx, journey.ID)
	if err != nil {
		return nil, fmt.Errorf("load seat map for journey %s: %w", journey.ID.String(), err)
	}

	var booked []string
	for _, b := range active {
		booked = append(booked, b.SeatNumbers...)
	}

	return s.seats.Load(journey, booked), nil
}

func (s *bookingService) releaseSeats(ctx context.Context, booking *entity.Booking) {
	journey, err := s.repo.Journey.FindByID(ctx, booking.JourneyID)
	if err != nil || journey == nil {
		s.log.Error("Failed to load journey for seat release",
			zap.Error(err),
			zap.String("journey_id", booking.JourneyID.String()),
		)
		return
	}

	seatMap, err := s.seatMapFor(ctx, journey)
	if err != nil {
		s.log.Error("Failed to load seat map for seat release", zap.Error(err))
		return
	}

	seatMap.Release(booking.SeatNumbers)
}

func (s *bookingService) buildBookingPage(ctx context.Context, bookings []*entity.Booking, req *request.PaginatedRequest, total int64) (*response.PaginatedResponse[response.BookingResponse], error) {
	journeys := make(map[uuid.UUID]*entity.Journey)
	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		journey, ok := journeys[booking.JourneyID]
		if !ok {
			journey, _ = s.repo.Journey.FindByID(ctx, booking.JourneyID)
			journeys[booking.JourneyID] = journey
		}
		items[i] = response.BookingToResponse(booking, journey)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// validateSeatSelection checks the seat numbers against the journey range
// and the passenger list against the seat set (one passenger per seat,
// each seat tagged exactly once).
func validateSeatSelection(journey *entity.Journey, req *request.CreateBookingRequest) error {
	var invalid []string
	for _, seat := range req.SeatNumbers {
		if !journey.HasSeat(seat) {
			invalid = append(invalid, seat)
		}
	}
	if len(invalid) > 0 {
		return &entity.InvalidSeatError{Seats: invalid}
	}

	if len(req.Passengers) != len(req.SeatNumbers) {
		return &entity.PassengerMismatchError{
			Reason: fmt.Sprintf("%d passengers for %d seats", len(req.Passengers), len(req.SeatNumbers)),
		}
	}

	remaining := make(map[string]bool, len(req.SeatNumbers))
	for _, seat := range req.SeatNumbers {
		remaining[seat] = true
	}
	for _, p := range req.Passengers {
		if !remaining[p.SeatNumber] {
			return &entity.PassengerMismatchError{
				Reason: fmt.Sprintf("seat %s is not in the request or assigned twice", p.SeatNumber),
			}
		}
		delete(remaining, p.SeatNumber)
	}

	return nil
}
