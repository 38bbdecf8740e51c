/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ledger-service-go/internal/api"
	"ledger-service-go/internal/common"
	"ledger-service-go/internal/config"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	addrFlag := flag.String("addr", "", "Listen address (overrides HTTP_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting ledger service",
		zap.String("addr", cfg.Server.Addr),
		zap.String("backend", cfg.Store.Backend))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var opts []api.Option
	if pinger, ok := services.Store.(api.Pinger); ok {
		opts = append(opts, api.WithHealthCheck(pinger))
	}
	if cfg.Server.IdempotencyEnabled {
		zap.L().Info("Idempotency-Key support enabled")
		opts = append(opts, api.WithIdempotency(services.Redis))
	}
	apiSvc := api.NewLedgerService(services.Ledger, opts...)

	server := &http.Server{
		Addr: cfg.Server.Addr,
		// h2c serves HTTP/2 without TLS
		Handler:      h2c.NewHandler(apiSvc.Router(), &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	zap.L().Info("Ledger service running, press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		zap.L().Info("Shutdown signal received, draining requests", zap.String("signal", sig.String()))
	case err := <-serveErr:
		zap.L().Error("HTTP server stopped unexpectedly", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
		return
	}
	zap.L().Info("Ledger service stopped gracefully")
}
