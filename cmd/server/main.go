package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/splitrail/tripledger/internal/config"
	"github.com/splitrail/tripledger/internal/ocr"
	"github.com/splitrail/tripledger/internal/server"
	"github.com/splitrail/tripledger/internal/storage/sqlite"
	"github.com/splitrail/tripledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override the environment/.env values loaded above.
	fs := ff.NewFlagSet("tripledger")
	var (
		host        = fs.StringLong("host", cfg.Server.Host, "HTTP server host")
		port        = fs.IntLong("port", cfg.Server.Port, "HTTP server port")
		dbPath      = fs.StringLong("db", cfg.DBPath, "SQLite database file path")
		geminiKey   = fs.StringLong("gemini-key", cfg.OCR.APIKey, "Google Gemini API key (or set GEMINI_API_KEY)")
		geminiModel = fs.StringLong("gemini-model", cfg.OCR.Model, "Google Gemini model name")
		logLevel    = fs.StringLong("log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
		logFormat   = fs.StringLong("log-format", cfg.Log.Format, "Log format: text or json")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TRIPLEDGER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logging.Configure(*logLevel, *logFormat)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", *dbPath)

	// Recognition is optional: without a key the scan endpoint answers 503
	// and the manual text path still works.
	var recognizer ocr.Recognizer
	if *geminiKey != "" {
		recognizer, err = ocr.NewGemini(context.Background(), *geminiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize recognizer", "error", err)
			os.Exit(1)
		}
		defer recognizer.Close()
		slog.Info("Recognizer initialized", "model", *geminiModel)
	} else {
		slog.Warn("No Gemini API key configured, receipt scanning disabled")
	}

	cfg.Server.Host = *host
	cfg.Server.Port = *port

	e := server.New(cfg, store, recognizer)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
