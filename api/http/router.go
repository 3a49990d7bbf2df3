package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kodbank/kodbank/api/http/handlers"
)

// Register wires all HTTP routes onto the given Fiber app. authMW guards
// every route that needs a verified session token.
func Register(app *fiber.App, auth *handlers.AuthHandler, acct *handlers.AccountHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Get("/balance", authMW, acct.Balance)
}
