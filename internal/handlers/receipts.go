package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/service"
)

// maxUploadBytes caps receipt uploads. Phone photos and scanned PDFs fit
// comfortably; anything larger is not a receipt.
const maxUploadBytes = 15 << 20

var scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tripledger_receipt_scans_total",
	Help: "Receipt scan attempts by outcome.",
}, []string{"outcome"})

type ReceiptHandler struct {
	Receipts *service.ReceiptService
}

// NewReceiptHandler creates the receipt scanning and import handler.
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{Receipts: receipts}
}

type ParseTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type LineItemPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	AssignedTo string  `json:"assigned_to"`
}

type ImportRequest struct {
	Description string            `json:"description" validate:"required,max=200"`
	PaidBy      string            `json:"paid_by" validate:"required"`
	Items       []LineItemPayload `json:"items" validate:"required,min=1,dive"`
}

type LineItemResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	AssignedTo string  `json:"assigned_to,omitempty"`
}

// Scan accepts a multipart receipt upload, extracts its text and returns the
// parsed line items with suggested assignees. An empty items list is a valid
// outcome for an unreadable or item-free receipt.
func (h *ReceiptHandler) Scan(c echo.Context) error {
	file, err := c.FormFile("receipt")
	if err != nil {
		return badRequest(c, "receipt file is required")
	}
	if file.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"error": "receipt upload exceeds 15MB",
		})
	}

	src, err := file.Open()
	if err != nil {
		return serverError(c)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return serverError(c)
	}

	contentType := file.Header.Get("Content-Type")
	items, err := h.Receipts.Scan(c.Request().Context(), c.Param("id"), data, contentType, nil)
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		return domainError(c, err)
	}

	scansTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, map[string][]LineItemResponse{"items": toLineItemResponses(items)})
}

// Parse extracts line items from manually pasted receipt text.
func (h *ReceiptHandler) Parse(c echo.Context) error {
	var req ParseTextRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "text is required")
	}

	items, err := h.Receipts.ParseText(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]LineItemResponse{"items": toLineItemResponses(items)})
}

// Import turns confirmed line items into an itemized expense. Items left
// unassigned make the draft unbalanced and the request fails with 422 rather
// than dropping the difference.
func (h *ReceiptHandler) Import(c echo.Context) error {
	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "description, paid_by and at least one item are required")
	}

	items := make([]models.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.LineItem{
			ID:         it.ID,
			Name:       it.Name,
			Amount:     it.Amount,
			AssignedTo: it.AssignedTo,
		})
	}

	expense, err := h.Receipts.Import(c.Request().Context(), c.Param("id"), req.Description, req.PaidBy, items)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

func toLineItemResponses(items []models.LineItem) []LineItemResponse {
	response := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, LineItemResponse{
			ID:         it.ID,
			Name:       it.Name,
			Amount:     it.Amount,
			AssignedTo: it.AssignedTo,
		})
	}
	return response
}
