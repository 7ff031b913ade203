package v1

import (
	"github.com/go-chi/chi/v5"

	"github.com/gomexpay/edenred/handler"
)

// Routes registers all API routes
func Routes(r chi.Router, payment *handler.PaymentHandler, operations *handler.OperationsHandler) {
	// Card routes
	r.Route("/cards", func(r chi.Router) {
		// General route (uses default provider)
		r.Post("/", payment.RegisterCard)

		// Provider-specific route
		r.Post("/{provider}", payment.RegisterCard)
	})

	// Payment routes
	r.Route("/payments", func(r chi.Router) {
		// General payment routes (uses default provider)
		r.Post("/", payment.Pay)
		r.Post("/authorize", payment.Authorize)
		r.Post("/capture", payment.Capture)
		r.Post("/{paymentID}/refund", payment.Refund)

		// Provider-specific payment routes
		r.Post("/{provider}/pay", payment.Pay)
		r.Post("/{provider}/authorize", payment.Authorize)
		r.Post("/{provider}/capture", payment.Capture)
		r.Post("/{provider}/{paymentID}/refund", payment.Refund)
	})

	// Recorded gateway operations
	// GET /v1/operations?provider=edenred&limit=50
	r.Get("/operations", operations.ListOperations)
}
