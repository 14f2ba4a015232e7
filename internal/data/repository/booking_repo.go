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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context) (int64, error)

	// Business queries
	FindActiveByJourneyID(ctx context.Context, journeyID uuid.UUID) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected, next entity.BookingStatus) error
	SetExternalOrderID(ctx context.Context, bookingID uuid.UUID, orderID string) error
	SetExternalPaymentID(ctx context.Context, bookingID uuid.UUID, paymentID string) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, journey_id, seat_numbers, total_amount_cents, status,
	external_order_id, external_payment_id, created_at, updated_at`

// Create persists a booking and its passenger rows in one transaction.
// The caller relies on this being all-or-nothing for the compensating
// seat release on failure.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.JourneyID,
		booking.SeatNumbers,
		booking.TotalAmountCents,
		booking.Status,
		booking.ExternalOrderID,
		booking.ExternalPaymentID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	passengerQuery := `
		INSERT INTO booking_passengers (id, booking_id, name, age, gender, seat_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, p := range booking.Passengers {
		_, err = tx.Exec(ctx, passengerQuery,
			p.ID,
			p.BookingID,
			p.Name,
			p.Age,
			p.Gender,
			p.SeatNumber,
			p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create booking passenger",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("seat_number", p.SeatNumber),
			)
			return fmt.Errorf("create passenger for booking %s seat %s: %w",
				booking.ID.String(), p.SeatNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.JourneyID,
		&booking.SeatNumbers,
		&booking.TotalAmountCents,
		&booking.Status,
		&booking.ExternalOrderID,
		&booking.ExternalPaymentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) loadPassengers(ctx context.Context, booking *entity.Booking) error {
	query := `
		SELECT id, booking_id, name, age, gender, seat_number, created_at
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, booking.ID)
	if err != nil {
		return fmt.Errorf("load passengers for booking %s: %w", booking.ID.String(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var p entity.Passenger
		err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("scan passenger row: %w", err)
		}
		booking.Passengers = append(booking.Passengers, p)
	}

	return nil
}

func (r *bookingRepository) findOne(ctx context.Context, query string, arg any) (*entity.Booking, error) {
	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadPassengers(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.findOne(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE external_order_id = $1`

	booking, err := r.findOne(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to find booking by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find booking by order ID %s: %w", orderID, err)
	}

	return booking, nil
}

func (r *bookingRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	rows.Close()

	for _, booking := range bookings {
		if err := r.loadPassengers(ctx, booking); err != nil {
			return nil, err
		}
	}

	return bookings, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findMany(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	bookings, err := r.findMany(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// FindActiveByJourneyID returns the pending and confirmed bookings of a
// journey, the ones whose seats count as booked.
func (r *bookingRepository) FindActiveByJourneyID(ctx context.Context, journeyID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE journey_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY created_at
	`

	bookings, err := r.findMany(ctx, query, journeyID)
	if err != nil {
		r.log.Error("Failed to find active bookings by journey ID",
			zap.Error(err),
			zap.String("journey_id", journeyID.String()),
		)
		return nil, fmt.Errorf("find active bookings by journey ID %s: %w", journeyID.String(), err)
	}

	return bookings, nil
}

// UpdateStatus is a compare-and-swap: the row only changes if its current
// status matches expected. A zero row count surfaces ErrStatusMismatch so
// a stale reader never overwrites a racing writer's transition.
func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected, next entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, bookingID, expected, next)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("expected", string(expected)),
			zap.String("next", string(next)),
		)
		return fmt.Errorf("update booking %s status %s -> %s: %w",
			bookingID.String(), string(expected), string(next), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s status %s -> %s: %w",
			bookingID.String(), string(expected), string(next), entity.ErrStatusMismatch)
	}

	return nil
}

// SetExternalOrderID attaches the payment provider's order id. Conditional
// on the booking still being pending with no order attached, so concurrent
// opens cannot clobber each other.
func (r *bookingRepository) SetExternalOrderID(ctx context.Context, bookingID uuid.UUID, orderID string) error {
	query := `
		UPDATE bookings SET external_order_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND external_order_id IS NULL
	`

	result, err := r.db.Exec(ctx, query, bookingID, orderID)
	if err != nil {
		r.log.Error("Failed to set external order ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("order_id", orderID),
		)
		return fmt.Errorf("set external order ID for booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set external order ID for booking %s: %w",
			bookingID.String(), entity.ErrStatusMismatch)
	}

	return nil
}

func (r *bookingRepository) SetExternalPaymentID(ctx context.Context, bookingID uuid.UUID, paymentID string) error {
	query := `UPDATE bookings SET external_payment_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, paymentID)
	if err != nil {
		r.log.Error("Failed to set external payment ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_id", paymentID),
		)
		return fmt.Errorf("set external payment ID for booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set external payment ID for booking %s: booking not found", bookingID.String())
	}

	return nil
}
