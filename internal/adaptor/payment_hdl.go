package adaptor

import (
	"encoding/json"
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// OpenOrder handles POST /api/bookings/{id}/order (protected)
func (h *PaymentHandler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	order, err := h.service.OpenOrder(r.Context(), bookingID, userID, utils.IsAdminFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, h.log, err, "open payment order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// ConfirmPayment handles POST /api/payments/confirm (provider webhook,
// authenticated by signature)
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ack, err := h.service.ConfirmPayment(r.Context(), &req)
	if err != nil {
		writeDomainError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", ack)
}

// FailPayment handles POST /api/payments/fail (provider webhook)
func (h *PaymentHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ack, err := h.service.FailPayment(r.Context(), &req)
	if err != nil {
		writeDomainError(w, h.log, err, "fail payment")
		return
	}

	utils.ResponseSuccess(w, "success", ack)
}
