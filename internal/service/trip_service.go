// Package service implements the application operations on top of the
// storage and computation layers. Handlers stay thin; every rule about
// validation, balances and settlements lives here or below.
package service

import (
	"context"
	"log/slog"

	"github.com/splitrail/tripledger/internal/ledger"
	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/storage"
)

// TripService manages trips, participants and expenses.
type TripService struct {
	store storage.Store
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTrip creates a new trip with the given name and initial roster.
func (s *TripService) CreateTrip(ctx context.Context, name string, participantNames []string) (*models.Trip, error) {
	slog.Info("CreateTrip request", "name", name, "participants_count", len(participantNames))

	trip := &models.Trip{Name: name}
	for _, n := range participantNames {
		trip.Participants = append(trip.Participants, models.Participant{Name: n})
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, err
	}

	slog.Info("Trip created", "trip_id", trip.ID)
	return trip, nil
}

// GetTrip retrieves a trip by ID with its roster and expenses.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("GetTrip failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return trip, nil
}

// AddParticipant appends a new participant to the trip roster. Balances
// derive from the roster at computation time, so regular expenses recorded
// before the join are re-split across the grown roster.
func (s *TripService) AddParticipant(ctx context.Context, tripID, name string) (*models.Participant, error) {
	slog.Info("AddParticipant request", "trip_id", tripID, "name", name)

	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "required"}
	}

	p := &models.Participant{Name: name}
	if err := s.store.AddParticipant(ctx, tripID, p); err != nil {
		slog.Error("AddParticipant failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	slog.Info("Participant added", "trip_id", tripID, "participant_id", p.ID)
	return p, nil
}

// RenameParticipant changes a participant's display name. Balances,
// settlements and expense history are unaffected since every reference is
// keyed by participant ID.
func (s *TripService) RenameParticipant(ctx context.Context, participantID, name string) error {
	slog.Info("RenameParticipant request", "participant_id", participantID)

	if name == "" {
		return &models.ValidationError{Field: "name", Reason: "required"}
	}

	if err := s.store.RenameParticipant(ctx, participantID, name); err != nil {
		slog.Error("RenameParticipant failed", "participant_id", participantID, "error", err)
		return err
	}
	return nil
}

// AddExpense validates and records an expense against a trip.
func (s *TripService) AddExpense(ctx context.Context, tripID string, expense *models.Expense) error {
	slog.Info("AddExpense request",
		"trip_id", tripID,
		"description", expense.Description,
		"amount", expense.Amount,
		"kind", expense.Kind,
	)

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("AddExpense failed - trip not found", "trip_id", tripID, "error", err)
		return err
	}

	if err := expense.Validate(trip); err != nil {
		slog.Warn("AddExpense rejected", "trip_id", tripID, "error", err)
		return err
	}

	if err := s.store.CreateExpense(ctx, tripID, expense); err != nil {
		slog.Error("AddExpense failed", "trip_id", tripID, "error", err)
		return err
	}

	slog.Info("Expense added", "trip_id", tripID, "expense_id", expense.ID)
	return nil
}

// UpdateExpense validates and replaces an existing expense.
func (s *TripService) UpdateExpense(ctx context.Context, tripID string, expense *models.Expense) error {
	slog.Info("UpdateExpense request", "trip_id", tripID, "expense_id", expense.ID)

	if expense.ID == "" {
		return &models.ValidationError{Field: "id", Reason: "required"}
	}

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("UpdateExpense failed - trip not found", "trip_id", tripID, "error", err)
		return err
	}

	if err := expense.Validate(trip); err != nil {
		slog.Warn("UpdateExpense rejected", "trip_id", tripID, "error", err)
		return err
	}

	// An update replaces the fields, not the record's history: the original
	// creation time rides along so callers see it unchanged.
	existing, err := s.store.GetExpense(ctx, tripID, expense.ID)
	if err != nil {
		slog.Error("UpdateExpense failed - expense not found", "trip_id", tripID, "expense_id", expense.ID, "error", err)
		return err
	}
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, tripID, expense); err != nil {
		slog.Error("UpdateExpense failed", "trip_id", tripID, "expense_id", expense.ID, "error", err)
		return err
	}
	return nil
}

// DeleteExpense removes an expense from a trip.
func (s *TripService) DeleteExpense(ctx context.Context, tripID, expenseID string) error {
	slog.Info("DeleteExpense request", "trip_id", tripID, "expense_id", expenseID)

	if err := s.store.DeleteExpense(ctx, tripID, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "trip_id", tripID, "expense_id", expenseID, "error", err)
		return err
	}
	return nil
}

// Balances computes each participant's net position from the trip's
// expenses. The result is keyed by participant ID.
func (s *TripService) Balances(ctx context.Context, tripID string) (map[string]float64, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("Balances failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return ledger.ComputeBalances(trip.Participants, trip.Expenses), nil
}

// Settlements computes the payment plan that clears the trip's balances.
func (s *TripService) Settlements(ctx context.Context, tripID string) ([]models.Settlement, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("Settlements failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	balances := ledger.ComputeBalances(trip.Participants, trip.Expenses)
	settlements := ledger.Settle(trip.Participants, balances)

	slog.Info("Settlements computed",
		"trip_id", tripID,
		"expenses_count", len(trip.Expenses),
		"payments_count", len(settlements),
	)
	return settlements, nil
}

// Summary aggregates a trip's headline numbers.
type Summary struct {
	TotalSpent   float64
	ExpenseCount int
	PerPerson    float64
}

// Summarize returns total spend and the even per-head figure for a trip.
func (s *TripService) Summarize(ctx context.Context, tripID string) (*Summary, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, e := range trip.Expenses {
		total += e.Amount
	}

	sum := &Summary{TotalSpent: total, ExpenseCount: len(trip.Expenses)}
	if len(trip.Participants) > 0 {
		sum.PerPerson = total / float64(len(trip.Participants))
	}
	return sum, nil
}
