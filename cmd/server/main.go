// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

const closeTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always runs.
func run() int {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	logging.Init(cfg.LoggingSettings())

	logging.Info().
		Str("store", cfg.Store.Backend).
		Bool("nats", cfg.NATS.Enabled).
		Bool("ingest", cfg.IngestActive()).
		Msg("Starting Cinematch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open store")
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	engine, err := recommend.NewEngine(cfg.Recommend, backend, recommend.NewPopularityCache(), logging.Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create recommendation engine")
		return 1
	}

	components := initMessaging(ctx, cfg, backend)
	if components != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.NATS.CloseTimeout)
			defer cancel()
			if err := components.Close(closeCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing messaging components")
			}
		}()
	}

	handler := api.NewHandler(engine, backend, ratingPublisher(components), cfg.Store.QueryTimeout)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, `{"success":false,"error":{"code":"SERVICE_UNAVAILABLE","message":"Request timed out"}}`),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}
	addMessagingServices(tree, components)
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, closeTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Cinematch stopped")
	return 0
}
