// Package storage provides abstractions for trip data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitrail/tripledger/internal/models"
)

// ErrNotFound is returned when a trip, participant or expense does not
// exist. Implementations wrap it with context.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations. This abstraction
// keeps the service layer independent of the backend; the core computations
// themselves never touch storage.
type Store interface {
	// CreateTrip persists a new trip with its initial roster. Missing IDs
	// and CreatedAt are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its full roster (insertion order) and
	// expense list (insertion order).
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// AddParticipant appends a participant to the trip roster. The ID is
	// populated by the store when empty.
	AddParticipant(ctx context.Context, tripID string, p *models.Participant) error

	// RenameParticipant updates a participant's display name. Nothing else
	// changes: every reference is keyed by ID.
	RenameParticipant(ctx context.Context, participantID, name string) error

	// CreateExpense appends an expense to the trip. ID and CreatedAt are
	// populated by the store when empty.
	CreateExpense(ctx context.Context, tripID string, expense *models.Expense) error

	// GetExpense retrieves one expense of a trip.
	GetExpense(ctx context.Context, tripID, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense of a trip, identified by
	// expense.ID.
	UpdateExpense(ctx context.Context, tripID string, expense *models.Expense) error

	// DeleteExpense removes an expense from a trip.
	DeleteExpense(ctx context.Context, tripID, expenseID string) error

	// Close releases any resources held by the store.
	Close() error
}
