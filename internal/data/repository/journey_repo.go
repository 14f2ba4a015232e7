package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// JourneyRepository is read-only for the booking engine: the catalog that
// creates and edits journeys lives outside this service.
type JourneyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Journey, error)
	FindAllActive(ctx context.Context) ([]*entity.Journey, error)
}

type journeyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewJourneyRepository(db database.PgxIface, log *zap.Logger) JourneyRepository {
	return &journeyRepository{
		db:  db,
		log: log.With(zap.String("repository", "journey")),
	}
}

const journeyColumns = `id, bus_number, bus_name, origin, destination, departure_at, arrival_at,
	bus_type, price_per_seat_cents, total_seats, is_active, created_at, updated_at`

func scanJourney(row pgx.Row) (*entity.Journey, error) {
	var journey entity.Journey
	err := row.Scan(
		&journey.ID,
		&journey.BusNumber,
		&journey.BusName,
		&journey.Origin,
		&journey.Destination,
		&journey.DepartureAt,
		&journey.ArrivalAt,
		&journey.BusType,
		&journey.PricePerSeatCents,
		&journey.TotalSeats,
		&journey.IsActive,
		&journey.CreatedAt,
		&journey.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &journey, nil
}

func (r *journeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1`

	journey, err := scanJourney(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find journey by ID",
			zap.Error(err),
			zap.String("journey_id", id.String()),
		)
		return nil, fmt.Errorf("find journey by ID %s: %w", id.String(), err)
	}

	return journey, nil
}

func (r *journeyRepository) FindAllActive(ctx context.Context) ([]*entity.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE is_active = true ORDER BY departure_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active journeys", zap.Error(err))
		return nil, fmt.Errorf("find active journeys: %w", err)
	}
	defer rows.Close()

	var journeys []*entity.Journey
	for rows.Next() {
		journey, err := scanJourney(rows)
		if err != nil {
			r.log.Error("Failed to scan journey row", zap.Error(err))
			return nil, fmt.Errorf("scan journey row: %w", err)
		}
		journeys = append(journeys, journey)
	}

	return journeys, nil
}
