package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splitrail/tripledger/internal/service"
)

type SettlementHandler struct {
	Trips *service.TripService
}

// NewSettlementHandler creates the balances and settlements handler.
func NewSettlementHandler(trips *service.TripService) *SettlementHandler {
	return &SettlementHandler{Trips: trips}
}

type SettlementResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Balances returns each participant's net position, keyed by participant ID.
// Positive means the group owes them.
func (h *SettlementHandler) Balances(c echo.Context) error {
	balances, err := h.Trips.Balances(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"balances": balances})
}

// Settlements returns the payment plan that clears the trip.
func (h *SettlementHandler) Settlements(c echo.Context) error {
	settlements, err := h.Trips.Settlements(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}

	response := make([]SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		response = append(response, SettlementResponse{From: s.From, To: s.To, Amount: s.Amount})
	}

	return c.JSON(http.StatusOK, map[string][]SettlementResponse{"settlements": response})
}
