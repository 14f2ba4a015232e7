package usecase

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/inventory"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JourneyService serves the read side of the catalog: journey details and
// live seat availability for seat selection. Creating and editing journeys
// is owned by the catalog service, not this one.
type JourneyService interface {
	GetJourney(ctx context.Context, journeyID uuid.UUID) (*response.JourneyResponse, error)
	GetJourneySeats(ctx context.Context, journeyID uuid.UUID) (*response.JourneySeatsResponse, error)
}

type journeyService struct {
	repo  *repository.Repository
	seats *inventory.Registry
	log   *zap.Logger
}

func NewJourneyService(repo *repository.Repository, seats *inventory.Registry, log *zap.Logger) JourneyService {
	return &journeyService{
		repo:  repo,
		seats: seats,
		log:   log.With(zap.String("service", "journey")),
	}
}

func (s *journeyService) GetJourney(ctx context.Context, journeyID uuid.UUID) (*response.JourneyResponse, error) {
	journey, err := s.findActive(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	resp := response.JourneyToResponse(journey)
	return &resp, nil
}

func (s *journeyService) GetJourneySeats(ctx context.Context, journeyID uuid.UUID) (*response.JourneySeatsResponse, error) {
	journey, err := s.findActive(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	seatMap, ok := s.seats.Get(journeyID)
	if !ok {
		active, err := s.repo.Booking.FindActiveByJourneyID(ctx, journeyID)
		if err != nil {
			return nil, fmt.Errorf("load seat map for journey %s: %w", journeyID.String(), err)
		}

		var booked []string
		for _, b := range active {
			booked = append(booked, b.SeatNumbers...)
		}
		seatMap = s.seats.Load(journey, booked)
	}

	resp := response.SeatsToResponse(journey, seatMap.Snapshot())
	return &resp, nil
}

func (s *journeyService) findActive(ctx context.Context, journeyID uuid.UUID) (*entity.Journey, error) {
	journey, err := s.repo.Journey.FindByID(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("get journey: %w", err)
	}
	if journey == nil || !journey.IsActive {
		return nil, fmt.Errorf("journey %s: %w", journeyID.String(), entity.ErrNotFound)
	}
	return journey, nil
}
