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
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flat-ledger-go/internal/api"
	"flat-ledger-go/internal/common"
	"flat-ledger-go/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides HTTP_ADDR)")
	ledgerFile := flag.String("ledger-file", "", "Path to the CSV snapshot (overrides LEDGER_FILE)")
	seedFile := flag.String("seed", "", "Optional path to a YAML file of accounts to create at startup (overrides SEED_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.FatalStartup("Failed to load configuration", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *ledgerFile != "" {
		cfg.Database.Path = *ledgerFile
	}
	if *seedFile != "" {
		cfg.Database.SeedFile = *seedFile
	}

	_, loggerCleanup := common.InitializeLogger(cfg.Log.Development)
	defer loggerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("Starting flat-file ledger server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("ledger_file", cfg.Database.Path))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	server := api.NewLedgerService(services.Ledger, cfg.Server).NewHTTPServer(cfg.Server)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("Shutdown signal received, draining in-flight requests...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("HTTP server failed", zap.Error(err))
		loggerCleanup()
		services.Close()
		os.Exit(1)
	}
	zap.L().Info("Server stopped gracefully")
}
