package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/service"
)

type ExpenseHandler struct {
	Trips *service.TripService
}

// NewExpenseHandler creates the expense handler.
func NewExpenseHandler(trips *service.TripService) *ExpenseHandler {
	return &ExpenseHandler{Trips: trips}
}

type ExpenseRequest struct {
	Description string             `json:"description" validate:"required,max=200"`
	Amount      float64            `json:"amount" validate:"gt=0"`
	PaidBy      string             `json:"paid_by" validate:"required"`
	Kind        string             `json:"kind" validate:"required,oneof=regular itemized"`
	ItemShares  map[string]float64 `json:"item_shares,omitempty"`
}

type ExpenseResponse struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	PaidBy      string             `json:"paid_by"`
	Kind        string             `json:"kind"`
	ItemShares  map[string]float64 `json:"item_shares,omitempty"`
	CreatedAt   int64              `json:"created_at"`
}

// Create records an expense against a trip.
func (h *ExpenseHandler) Create(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "description, positive amount, paid_by and kind are required")
	}

	expense := toExpense(&req)
	if err := h.Trips.AddExpense(c.Request().Context(), c.Param("id"), expense); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// Update replaces an existing expense.
func (h *ExpenseHandler) Update(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "description, positive amount, paid_by and kind are required")
	}

	expense := toExpense(&req)
	expense.ID = c.Param("expenseId")
	if err := h.Trips.UpdateExpense(c.Request().Context(), c.Param("id"), expense); err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// Delete removes an expense from a trip.
func (h *ExpenseHandler) Delete(c echo.Context) error {
	if err := h.Trips.DeleteExpense(c.Request().Context(), c.Param("id"), c.Param("expenseId")); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toExpense(req *ExpenseRequest) *models.Expense {
	return &models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		Kind:        models.ExpenseKind(req.Kind),
		ItemShares:  req.ItemShares,
	}
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		Kind:        string(e.Kind),
		ItemShares:  e.ItemShares,
		CreatedAt:   e.CreatedAt,
	}
}
