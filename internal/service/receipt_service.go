package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/ocr"
	"github.com/splitrail/tripledger/internal/receipt"
	"github.com/splitrail/tripledger/internal/storage"
)

// ReceiptService turns receipt uploads and pasted text into line items and
// imports confirmed items as itemized expenses.
type ReceiptService struct {
	store       storage.Store
	recognizer  ocr.Recognizer
	scanTimeout time.Duration
}

// NewReceiptService creates a new ReceiptService. The recognizer may be nil,
// in which case image scanning is unavailable and only the manual text path
// works. scanTimeout bounds a single text extraction; zero means no bound
// beyond the request context.
func NewReceiptService(store storage.Store, recognizer ocr.Recognizer, scanTimeout time.Duration) *ReceiptService {
	return &ReceiptService{store: store, recognizer: recognizer, scanTimeout: scanTimeout}
}

// ErrRecognizerUnavailable is returned by Scan when no recognizer is
// configured and the upload has no usable text layer.
var ErrRecognizerUnavailable = errors.New("no recognizer configured")

// Scan extracts text from an uploaded receipt and parses it into line items
// against the trip's roster. PDFs with an embedded text layer are read
// directly; everything else goes through the recognizer. A receipt that
// yields no recognizable items is an empty result, not an error.
func (s *ReceiptService) Scan(ctx context.Context, tripID string, data []byte, contentType string, progress func(float64)) ([]models.LineItem, error) {
	slog.Info("Scan request", "trip_id", tripID, "content_type", contentType, "bytes", len(data))

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("Scan failed - trip not found", "trip_id", tripID, "error", err)
		return nil, err
	}

	// A stalled recognition stream must not hold the request open forever.
	extractCtx := ctx
	if s.scanTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()
	}

	text, err := s.extractText(extractCtx, data, contentType, progress)
	if err != nil {
		slog.Error("Scan failed - text extraction", "trip_id", tripID, "error", err)
		return nil, err
	}

	items := receipt.ParseText(text, trip.Participants)
	slog.Info("Scan complete", "trip_id", tripID, "items_count", len(items))
	return items, nil
}

func (s *ReceiptService) extractText(ctx context.Context, data []byte, contentType string, progress func(float64)) (string, error) {
	// Digital PDFs carry a text layer; reading it beats re-recognizing
	// rendered pixels. Scanned PDFs fail the readability gate and fall
	// through to the recognizer.
	if strings.Contains(contentType, "pdf") {
		if text, err := ocr.ExtractPDFText(data); err == nil {
			slog.Info("Using embedded PDF text layer", "chars", len(text))
			if progress != nil {
				progress(1)
			}
			return text, nil
		}
	}

	if s.recognizer == nil {
		return "", ErrRecognizerUnavailable
	}
	return s.recognizer.Recognize(ctx, data, contentType, progress)
}

// ParseText parses manually entered receipt text into line items against the
// trip's roster.
func (s *ReceiptService) ParseText(ctx context.Context, tripID, text string) ([]models.LineItem, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("ParseText failed - trip not found", "trip_id", tripID, "error", err)
		return nil, err
	}

	items := receipt.ParseText(text, trip.Participants)
	slog.Info("ParseText complete", "trip_id", tripID, "items_count", len(items))
	return items, nil
}

// Import converts confirmed line items into an itemized expense and records
// it. Validation runs against the roster exactly as for a manually entered
// expense, so unassigned items surface as an imbalance instead of being
// silently dropped.
func (s *ReceiptService) Import(ctx context.Context, tripID, description, paidBy string, items []models.LineItem) (*models.Expense, error) {
	slog.Info("Import request", "trip_id", tripID, "items_count", len(items))

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("Import failed - trip not found", "trip_id", tripID, "error", err)
		return nil, err
	}

	draft := receipt.BuildDraft(items)
	expense := &models.Expense{
		Description: description,
		Amount:      draft.Amount,
		PaidBy:      paidBy,
		Kind:        models.ExpenseItemized,
		ItemShares:  draft.Shares,
	}

	if err := expense.Validate(trip); err != nil {
		slog.Warn("Import rejected", "trip_id", tripID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, tripID, expense); err != nil {
		slog.Error("Import failed", "trip_id", tripID, "error", err)
		return nil, err
	}

	slog.Info("Receipt imported", "trip_id", tripID, "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}
