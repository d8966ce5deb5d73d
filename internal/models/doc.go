// Package models defines the core domain models for Tripledger.
//
// # Models
//
//   - Trip: a travel group with a participant roster and its expenses
//   - Participant: a roster member, identified by a stable opaque ID
//   - Expense: a cost paid by one participant, split equally or itemized
//   - Settlement: a single directed payment produced by the settlement engine
//   - LineItem: a (name, amount) pair parsed from receipt text
//
// # Design Principles
//
// 1. **ID-keyed maps**: balances and item shares are keyed by participant ID,
// never by display name, so renaming a participant is a single field update
// with no map-key migration.
// 2. **Explicit validation**: expenses carry their own validation rules;
// invalid expenses are rejected outright, never corrected.
// 3. **Avoid circular references**: relationships use ID strings instead of
// pointers.
package models
