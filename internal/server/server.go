// Package server assembles the echo application: middleware, validation,
// metrics and routes over the service layer.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/splitrail/tripledger/internal/config"
	"github.com/splitrail/tripledger/internal/handlers"
	"github.com/splitrail/tripledger/internal/ocr"
	"github.com/splitrail/tripledger/internal/service"
	"github.com/splitrail/tripledger/internal/storage"
)

// New builds the echo server with all routes and dependencies. The
// recognizer may be nil; scanning then answers 503 while every other
// operation works.
func New(cfg config.Config, store storage.Store, recognizer ocr.Recognizer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(httpMetrics())

	trips := service.NewTripService(store)
	receipts := service.NewReceiptService(store, recognizer, cfg.OCR.Timeout)

	registerRoutes(
		e,
		handlers.NewTripHandler(trips),
		handlers.NewExpenseHandler(trips),
		handlers.NewSettlementHandler(trips),
		handlers.NewReceiptHandler(receipts),
		scanRateLimiter(cfg.OCR),
	)

	return e
}

// NewHTTPServer wraps the handler in a net/http server with the configured
// timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "request completed", attrs...)
			return nil
		},
	})
}

// scanRateLimiter throttles recognition requests: each one is a paid model
// call holding an upload in memory.
func scanRateLimiter(cfg config.OCRConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
