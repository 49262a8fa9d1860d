package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *kardex.LedgerUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token); el UserID del token es el
	// actor que queda registrado en cada movimiento.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	kardexGroup := protected.Group("/kardex")
	handler := NewKardexHandler(deps.Ledger)
	kardexGroup.Post("/movements", handler.CreateMovement)
	kardexGroup.Get("/movements", handler.ListMovements)
	kardexGroup.Get("/movements/:id", handler.GetMovement)
	kardexGroup.Patch("/movements/:id", handler.AmendMovement)
	kardexGroup.Post("/movements/:id/void", handler.VoidMovement)
}
