// Package main initializes and starts the PantryPal app server, setting up
// configuration, logging, session state, the backend gateway, the scan
// workflow, and the HTTP routes for the browser shell.
package main

import (
	"cmp"
	"fmt"
	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/config"
	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/list"
	"github.com/mkravets/pantrypal/internal/logger"
	"github.com/mkravets/pantrypal/internal/scan"
	"github.com/mkravets/pantrypal/internal/server/handler/http"
	"github.com/mkravets/pantrypal/internal/session"
	"github.com/mkravets/pantrypal/internal/suggest"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config-file, and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Rehydrate session state from the durable flag store, falling back
	// to memory when the file is unusable.
	var store session.Store
	fileStore, err := session.NewFileStore(options.StateFile)
	if err != nil {
		zapLogger.Warn("state file unusable, session state will not survive restarts",
			zap.String("path", options.StateFile), zap.Error(err))
		store = session.NewMemStore()
	} else {
		store = fileStore
	}
	sessions := session.NewManager(store, zapLogger)

	// The gateway is the single seam to the three remote collaborators.
	gw := gateway.New(nethttp.DefaultClient,
		options.BackendURL, options.LookupURL, options.WebhookURL,
		sessions, zapLogger)

	// Client-side components.
	workflow := scan.New(gw, sessions, zapLogger)
	pantry := list.NewView(gw, sessions, zapLogger)
	suggester := suggest.New(gw, options.SuggestPoll, options.SuggestWait, zapLogger)

	// HTTP handlers for the browser shell.
	sessionHandler := &http.SessionHandler{Session: sessions, Auth: gw}
	pantryHandler := &http.PantryHandler{View: pantry}
	scanHandler := &http.ScanHandler{Workflow: workflow}
	scanSocket := &http.ScanSocketHandler{Workflow: workflow, Log: zapLogger}
	suggestHandler := &http.SuggestHandler{Suggest: suggester, User: sessions}

	// Build the router with middleware and routes.
	router := http.NewRouter(sessionHandler, pantryHandler, scanHandler, scanSocket, suggestHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting app server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start app server", zap.Error(err))
	}
}
