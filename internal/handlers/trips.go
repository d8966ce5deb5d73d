package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/service"
)

type TripHandler struct {
	Trips *service.TripService
}

// NewTripHandler creates the trip and roster handler.
func NewTripHandler(trips *service.TripService) *TripHandler {
	return &TripHandler{Trips: trips}
}

type CreateTripRequest struct {
	Name         string   `json:"name" validate:"max=200"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required,max=100"`
}

type AddParticipantRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type RenameParticipantRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type ParticipantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TripResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Participants []ParticipantResponse `json:"participants"`
	Expenses     []ExpenseResponse     `json:"expenses"`
	CreatedAt    int64                 `json:"created_at"`
}

// Create starts a new trip with an initial roster.
func (h *TripHandler) Create(c echo.Context) error {
	var req CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "at least one participant is required")
	}

	trip, err := h.Trips.CreateTrip(c.Request().Context(), req.Name, req.Participants)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, toTripResponse(trip))
}

// Get returns a trip with its roster and expenses.
func (h *TripHandler) Get(c echo.Context) error {
	trip, err := h.Trips.GetTrip(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, toTripResponse(trip))
}

// AddParticipant appends a person to the trip roster.
func (h *TripHandler) AddParticipant(c echo.Context) error {
	var req AddParticipantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "name is required")
	}

	p, err := h.Trips.AddParticipant(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, ParticipantResponse{ID: p.ID, Name: p.Name})
}

// RenameParticipant changes a participant's display name.
func (h *TripHandler) RenameParticipant(c echo.Context) error {
	var req RenameParticipantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "name is required")
	}

	if err := h.Trips.RenameParticipant(c.Request().Context(), c.Param("id"), req.Name); err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Summary returns the trip's headline spending numbers.
func (h *TripHandler) Summary(c echo.Context) error {
	sum, err := h.Trips.Summarize(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_spent":   sum.TotalSpent,
		"expense_count": sum.ExpenseCount,
		"per_person":    sum.PerPerson,
	})
}

func toTripResponse(trip *models.Trip) TripResponse {
	resp := TripResponse{
		ID:        trip.ID,
		Name:      trip.Name,
		CreatedAt: trip.CreatedAt,
	}
	resp.Participants = make([]ParticipantResponse, 0, len(trip.Participants))
	for _, p := range trip.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{ID: p.ID, Name: p.Name})
	}
	resp.Expenses = make([]ExpenseResponse, 0, len(trip.Expenses))
	for i := range trip.Expenses {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(&trip.Expenses[i]))
	}
	return resp
}
