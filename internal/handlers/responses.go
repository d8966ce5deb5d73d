// Package handlers contains the HTTP handlers. They bind and validate
// requests, delegate to the service layer and translate domain errors into
// status codes; no business rules live here.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splitrail/tripledger/internal/models"
	"github.com/splitrail/tripledger/internal/ocr"
	"github.com/splitrail/tripledger/internal/service"
	"github.com/splitrail/tripledger/internal/storage"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// domainError maps service and storage errors onto HTTP responses.
//
//	400 malformed expense fields
//	404 unknown trip, participant or expense
//	422 itemized shares that do not add up, with the figures so the client
//	    can show the gap
//	502 recognition failures, marked retryable
//	503 scan requested but no recognizer configured
func domainError(c echo.Context, err error) error {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return badRequest(c, vErr.Error())
	}

	var iErr *models.ImbalanceError
	if errors.As(err, &iErr) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":     iErr.Error(),
			"declared":  iErr.Declared,
			"share_sum": iErr.ShareSum,
		})
	}

	if errors.Is(err, storage.ErrNotFound) {
		return notFound(c, "not found")
	}

	if errors.Is(err, service.ErrRecognizerUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "receipt scanning is not configured",
		})
	}

	var ocrErr *ocr.Error
	if errors.As(err, &ocrErr) {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":     "text recognition failed, try again with a clearer image",
			"retryable": true,
		})
	}

	return serverError(c)
}
