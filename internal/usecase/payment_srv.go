package usecase

import (
	"context"
	"errors"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/gateway"
	"bus-booking/internal/inventory"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	OpenOrder(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.PaymentOrderResponse, error)
	ConfirmPayment(ctx context.Context, req *request.PaymentNotificationRequest) (*response.PaymentAckResponse, error)
	FailPayment(ctx context.Context, req *request.PaymentNotificationRequest) (*response.PaymentAckResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	seats    *inventory.Registry
	gateway  gateway.PaymentGateway
	signer   *gateway.Signer
	currency string
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, seats *inventory.Registry, gw gateway.PaymentGateway, signer *gateway.Signer, currency string, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		seats:    seats,
		gateway:  gw,
		signer:   signer,
		currency: currency,
		log:      log.With(zap.String("service", "payment")),
	}
}

// OpenOrder opens a payment order with the external provider for a pending
// booking. Retrying while the booking is still pending and unpaid returns
// the existing order id instead of erroring. No seat state is touched here:
// a provider failure leaves the booking exactly as it was.
func (s *paymentService) OpenOrder(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.PaymentOrderResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("open order: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
	}

	if booking.UserID != requesterID && !isAdmin {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotAuthorized)
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is %s: %w",
			bookingID.String(), string(booking.Status), entity.ErrOrderAlreadyOpen)
	}

	if booking.ExternalOrderID != nil {
		if booking.ExternalPaymentID != nil {
			return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrOrderAlreadyOpen)
		}
		// Retried open while the previous order is still unpaid.
		return s.orderResponse(booking, *booking.ExternalOrderID), nil
	}

	orderID, err := s.gateway.CreateExternalOrder(ctx, booking.TotalAmountCents, s.currency)
	if err != nil {
		s.log.Error("Failed to create external order",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("create external order for booking %s: %w", bookingID.String(), err)
	}

	err = s.repo.Booking.SetExternalOrderID(ctx, bookingID, orderID)
	if errors.Is(err, entity.ErrStatusMismatch) {
		// A concurrent open or a status change won. Re-read and return the
		// attached order if the booking is still payable.
		booking, rerr := s.repo.Booking.FindByID(ctx, bookingID)
		if rerr != nil || booking == nil {
			return nil, fmt.Errorf("open order reread for booking %s: %w", bookingID.String(), entity.ErrOrderAlreadyOpen)
		}
		if booking.Status == entity.BookingStatusPending && booking.ExternalOrderID != nil && booking.ExternalPaymentID == nil {
			return s.orderResponse(booking, *booking.ExternalOrderID), nil
		}
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrOrderAlreadyOpen)
	}
	if err != nil {
		return nil, fmt.Errorf("attach order to booking %s: %w", bookingID.String(), err)
	}

	s.log.Info("Payment order opened",
		zap.String("booking_id", bookingID.String()),
		zap.String("order_id", orderID),
		zap.Int64("amount_cents", booking.TotalAmountCents),
	)

	return s.orderResponse(booking, orderID), nil
}

// ConfirmPayment settles a provider success callback. Confirmation is
// idempotent under at-least-once delivery: a repeat for an already
// confirmed or failed booking succeeds without side effects. A payment for
// a cancelled booking is surfaced so an operator can reconcile it.
func (s *paymentService) ConfirmPayment(ctx context.Context, req *request.PaymentNotificationRequest) (*response.PaymentAckResponse, error) {
	booking, err := s.verifiedBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusPending {
		err = s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusConfirmed)
		if err == nil {
			if perr := s.repo.Booking.SetExternalPaymentID(ctx, booking.ID, req.PaymentID); perr != nil {
				s.log.Error("Failed to record payment ID on confirmed booking",
					zap.Error(perr),
					zap.String("booking_id", booking.ID.String()),
				)
			}

			s.log.Info("Payment confirmed",
				zap.String("booking_id", booking.ID.String()),
				zap.String("order_id", req.OrderID),
				zap.String("payment_id", req.PaymentID),
			)

			return &response.PaymentAckResponse{
				OrderID:   req.OrderID,
				BookingID: booking.ID.String(),
				Status:    entity.BookingStatusConfirmed,
				Duplicate: false,
			}, nil
		}
		if !errors.Is(err, entity.ErrStatusMismatch) {
			return nil, fmt.Errorf("confirm payment for order %s: %w", req.OrderID, err)
		}

		// Lost the CAS; fall through to the duplicate rules with a fresh read.
		booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
		if err != nil || booking == nil {
			return nil, fmt.Errorf("confirm payment reread for order %s: %w", req.OrderID, err)
		}
	}

	return s.duplicateAck(booking, req.OrderID)
}

// FailPayment settles a provider failure callback: the pending booking is
// marked failed and its seats go back to inventory. Duplicates follow the
// same rules as ConfirmPayment.
func (s *paymentService) FailPayment(ctx context.Context, req *request.PaymentNotificationRequest) (*response.PaymentAckResponse, error) {
	booking, err := s.verifiedBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusPending {
		err = s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusFailed)
		if err == nil {
			if perr := s.repo.Booking.SetExternalPaymentID(ctx, booking.ID, req.PaymentID); perr != nil {
				s.log.Error("Failed to record payment ID on failed booking",
					zap.Error(perr),
					zap.String("booking_id", booking.ID.String()),
				)
			}

			// Failed bookings hold no seats; release strictly after the
			// committed status change.
			s.releaseSeats(ctx, booking)

			s.log.Info("Payment failed, seats released",
				zap.String("booking_id", booking.ID.String()),
				zap.String("order_id", req.OrderID),
				zap.Strings("seats", booking.SeatNumbers),
			)

			return &response.PaymentAckResponse{
				OrderID:   req.OrderID,
				BookingID: booking.ID.String(),
				Status:    entity.BookingStatusFailed,
				Duplicate: false,
			}, nil
		}
		if !errors.Is(err, entity.ErrStatusMismatch) {
			return nil, fmt.Errorf("fail payment for order %s: %w", req.OrderID, err)
		}

		booking, err = s.repo.Booking.FindByID(ctx, booking.ID)
		if err != nil || booking == nil {
			return nil, fmt.Errorf("fail payment reread for order %s: %w", req.OrderID, err)
		}
	}

	return s.duplicateAck(booking, req.OrderID)
}

// ==================== HELPER METHODS ====================

// verifiedBooking validates the callback payload, checks the signature
// against the shared secret, and resolves the booking by order id. A bad
// signature is treated as a potential integrity attack: logged and
// rejected with no state change.
func (s *paymentService) verifiedBooking(ctx context.Context, req *request.PaymentNotificationRequest) (*entity.Booking, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &entity.ValidationError{Fields: errs}
	}

	if !s.signer.Verify(req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn("Payment notification signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID),
		)
		return nil, fmt.Errorf("order %s: %w", req.OrderID, entity.ErrSignatureInvalid)
	}

	booking, err := s.repo.Booking.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("lookup order %s: %w", req.OrderID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("order %s: %w", req.OrderID, entity.ErrNotFound)
	}

	return booking, nil
}

// duplicateAck applies the repeat-notification rules for a booking that is
// no longer pending.
func (s *paymentService) duplicateAck(booking *entity.Booking, orderID string) (*response.PaymentAckResponse, error) {
	if booking.Status == entity.BookingStatusCancelled {
		// The seats were already released; an operator has to reconcile
		// the provider-side payment.
		s.log.Warn("Payment notification for cancelled booking",
			zap.String("booking_id", booking.ID.String()),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("order %s: %w", orderID, entity.ErrBookingAlreadyCancelled)
	}

	s.log.Info("Duplicate payment notification ignored",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", orderID),
		zap.String("status", string(booking.Status)),
	)

	return &response.PaymentAckResponse{
		OrderID:   orderID,
		BookingID: booking.ID.String(),
		Status:    booking.Status,
		Duplicate: true,
	}, nil
}

func (s *paymentService) releaseSeats(ctx context.Context, booking *entity.Booking) {
	journey, err := s.repo.Journey.FindByID(ctx, booking.JourneyID)
	if err != nil || journey == nil {
		s.log.Error("Failed to load journey for seat release",
			zap.Error(err),
			zap.String("journey_id", booking.JourneyID.String()),
		)
		return
	}

	seatMap, ok := s.seats.Get(journey.ID)
	if !ok {
		// Nothing held in-process; a later load rebuilds from the store
		// where the booking is already failed.
		return
	}

	seatMap.Release(booking.SeatNumbers)
}

func (s *paymentService) orderResponse(booking *entity.Booking, orderID string) *response.PaymentOrderResponse {
	return &response.PaymentOrderResponse{
		BookingID:        booking.ID.String(),
		OrderID:          orderID,
		TotalAmountCents: booking.TotalAmountCents,
		Currency:         s.currency,
	}
}
