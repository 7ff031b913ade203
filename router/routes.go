package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/gomexpay/edenred/handler"
	v1 "github.com/gomexpay/edenred/router/v1"

	// Import for side-effect registration
	_ "github.com/gomexpay/edenred/provider/edenred"
)

// Routes mounts the versioned API routes
func Routes(r chi.Router, payment *handler.PaymentHandler, operations *handler.OperationsHandler) {
	r.Route("/v1", func(r chi.Router) {
		v1.Routes(r, payment, operations)
	})
}
