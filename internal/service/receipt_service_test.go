package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/splitrail/tripledger/internal/models"
)

// fakeRecognizer returns canned text and records progress callbacks.
type fakeRecognizer struct {
	text     string
	err      error
	progress []float64
}

func (f *fakeRecognizer) Recognize(ctx context.Context, data []byte, contentType string, progress func(float64)) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if progress != nil {
		progress(0.5)
		progress(1)
		f.progress = append(f.progress, 0.5, 1)
	}
	return f.text, nil
}

func (f *fakeRecognizer) Close() error { return nil }

const sampleReceipt = `Cafe Luna
Item            Qty  Amount
Burger @Alice    1    9.50
Fries            1    4.20
Lemonade @Bob    2    6.00
Subtotal             19.70
Total                19.70`

func TestScanParsesRecognizedText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	alice := participantID(t, trip, "Alice")
	bob := participantID(t, trip, "Bob")

	rec := &fakeRecognizer{text: sampleReceipt}
	svc := NewReceiptService(store, rec, time.Minute)

	items, err := svc.Scan(ctx, trip.ID, []byte("fake-image-bytes"), "image/jpeg", nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}

	byName := map[string]models.LineItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	if got := byName["Burger @Alice"]; got.Amount != 9.50 || got.AssignedTo != alice {
		t.Errorf("Burger = %+v", got)
	}
	if got := byName["Lemonade @Bob"]; got.Amount != 6.00 || got.AssignedTo != bob {
		t.Errorf("Lemonade = %+v", got)
	}
	if got := byName["Fries"]; got.AssignedTo != "" {
		t.Errorf("Fries should be unassigned, got %+v", got)
	}
}

func TestScanWithoutRecognizer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	svc := NewReceiptService(store, nil, time.Minute)
	_, err = svc.Scan(ctx, trip.ID, []byte("fake-image-bytes"), "image/jpeg", nil)
	if !errors.Is(err, ErrRecognizerUnavailable) {
		t.Errorf("expected ErrRecognizerUnavailable, got %v", err)
	}
}

// stallingRecognizer blocks until its context expires.
type stallingRecognizer struct{}

func (stallingRecognizer) Recognize(ctx context.Context, data []byte, contentType string, progress func(float64)) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (stallingRecognizer) Close() error { return nil }

func TestScanTimesOutStalledRecognition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	svc := NewReceiptService(store, stallingRecognizer{}, 20*time.Millisecond)

	start := time.Now()
	_, err = svc.Scan(ctx, trip.ID, []byte("bytes"), "image/png", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("scan took %v, should be cut off by the scan timeout", elapsed)
	}
}

func TestScanRecognizerFailurePropagates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	cause := errors.New("model overloaded")
	svc := NewReceiptService(store, &fakeRecognizer{err: cause}, time.Minute)
	_, err = svc.Scan(ctx, trip.ID, []byte("bytes"), "image/png", nil)
	if !errors.Is(err, cause) {
		t.Errorf("expected recognizer error to propagate, got %v", err)
	}
}

func TestParseTextEmptyResultIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	svc := NewReceiptService(store, nil, time.Minute)
	items, err := svc.ParseText(ctx, trip.ID, "Total 42.00\nThank you for visiting")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %+v", items)
	}
}

func TestImportFullyAssignedReceipt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	alice := participantID(t, trip, "Alice")
	bob := participantID(t, trip, "Bob")

	svc := NewReceiptService(store, nil, time.Minute)
	items := []models.LineItem{
		{ID: "i1", Name: "Burger", Amount: 9.50, AssignedTo: alice},
		{ID: "i2", Name: "Fries", Amount: 4.20, AssignedTo: alice},
		{ID: "i3", Name: "Lemonade", Amount: 6.00, AssignedTo: bob},
	}

	expense, err := svc.Import(ctx, trip.ID, "Cafe Luna", bob, items)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if math.Abs(expense.Amount-19.70) > 1e-9 {
		t.Errorf("amount = %.2f, want 19.70", expense.Amount)
	}
	if math.Abs(expense.ItemShares[alice]-13.70) > 1e-9 {
		t.Errorf("Alice's share = %.2f, want 13.70", expense.ItemShares[alice])
	}

	got, err := trips.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(got.Expenses) != 1 || got.Expenses[0].Kind != models.ExpenseItemized {
		t.Errorf("expenses = %+v", got.Expenses)
	}
}

func TestImportRejectsUnassignedItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trips := NewTripService(store)
	trip, err := trips.CreateTrip(ctx, "Trip", []string{"Alice"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	alice := participantID(t, trip, "Alice")

	svc := NewReceiptService(store, nil, time.Minute)
	items := []models.LineItem{
		{ID: "i1", Name: "Burger", Amount: 9.50, AssignedTo: alice},
		{ID: "i2", Name: "Mystery", Amount: 5.00},
	}

	_, err = svc.Import(ctx, trip.ID, "Cafe", alice, items)
	var iErr *models.ImbalanceError
	if !errors.As(err, &iErr) {
		t.Fatalf("expected ImbalanceError for unassigned items, got %v", err)
	}
	if math.Abs(iErr.Declared-14.50) > 1e-9 || math.Abs(iErr.ShareSum-9.50) > 1e-9 {
		t.Errorf("ImbalanceError = %+v", iErr)
	}

	got, err := trips.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(got.Expenses) != 0 {
		t.Errorf("rejected import must not persist, got %+v", got.Expenses)
	}
}
