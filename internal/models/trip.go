package models

// Participant is one member of a trip's roster.
//
// The ID is the stable identity; the display name is mutable and carries no
// uniqueness guarantee. Everything that refers to a participant (expense
// payers, item shares, balances) uses the ID.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the display name. Renaming only touches this field.
	Name string
}

// Trip represents one travel group and the expenses recorded against it.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the human-readable name for the trip.
	Name string

	// Participants is the roster in insertion order. Balance and settlement
	// computations iterate this slice, so roster order is the deterministic
	// order of every derived result.
	Participants []Participant

	// Expenses is the append-only expense list in insertion order.
	Expenses []Expense

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Participant returns the roster entry with the given ID, or nil.
func (t *Trip) Participant(id string) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

// HasParticipant reports whether the given ID is on the roster.
func (t *Trip) HasParticipant(id string) bool {
	return t.Participant(id) != nil
}
