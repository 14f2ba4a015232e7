package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/bookings - Create new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - View own booking history
		r.Get("/api/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - View own booking (admin may view any)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// PUT /api/bookings/{id}/cancel - Cancel own booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// POST /api/bookings/{id}/order - Open payment order for booking
		r.Post("/api/bookings/{id}/order", paymentHandler.OpenOrder)
	})

	// ==================== WEBHOOK ROUTES ====================
	// Provider callbacks carry their own signature; no gateway identity.
	r.Post("/api/payments/confirm", paymentHandler.ConfirmPayment)
	r.Post("/api/payments/fail", paymentHandler.FailPayment)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Identity(log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/bookings - List all bookings (admin)
		r.Get("/", bookingHandler.GetAllBookings)

		// GET /api/admin/bookings/{id} - View any booking details (admin)
		r.Get("/{id}", bookingHandler.GetBooking)

		// PUT /api/admin/bookings/{id}/cancel - Cancel any booking (admin)
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
