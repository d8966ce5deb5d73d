package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitrail/tripledger/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	tripHandler *handlers.TripHandler,
	expenseHandler *handlers.ExpenseHandler,
	settlementHandler *handlers.SettlementHandler,
	receiptHandler *handlers.ReceiptHandler,
	scanRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/trips", tripHandler.Create)
	api.GET("/trips/:id", tripHandler.Get)
	api.GET("/trips/:id/summary", tripHandler.Summary)

	api.POST("/trips/:id/participants", tripHandler.AddParticipant)
	api.PATCH("/participants/:id", tripHandler.RenameParticipant)

	api.POST("/trips/:id/expenses", expenseHandler.Create)
	api.PUT("/trips/:id/expenses/:expenseId", expenseHandler.Update)
	api.DELETE("/trips/:id/expenses/:expenseId", expenseHandler.Delete)

	api.GET("/trips/:id/balances", settlementHandler.Balances)
	api.GET("/trips/:id/settlements", settlementHandler.Settlements)

	api.POST("/trips/:id/receipts/scan", receiptHandler.Scan, scanRateLimiter)
	api.POST("/trips/:id/receipts/parse", receiptHandler.Parse)
	api.POST("/trips/:id/receipts/import", receiptHandler.Import)
}
