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
	"flag"

	"flat-ledger-go/internal/common"
	"flat-ledger-go/internal/config"

	"go.uber.org/zap"
)

// seedLedger creates every account in seedFile that is not in the snapshot yet.
func seedLedger(ctx context.Context, services *common.Services, seedFile string) {
	zap.L().Info("Loading seed accounts", zap.String("file", seedFile))
	seeds, err := common.LoadSeedAccounts(seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed accounts", zap.Error(err))
	}
	zap.L().Info("Seed accounts loaded", zap.Int("count", len(seeds)))

	result, err := common.SeedAccounts(ctx, services.Ledger, seeds)
	if err != nil {
		zap.L().Fatal("Failed to seed accounts",
			zap.Int("created_before_failure", result.Created),
			zap.Error(err))
	}

	if result.Skipped > 0 {
		zap.L().Warn("Seeding completed, some accounts already existed",
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped))
	} else {
		zap.L().Info("Seeding completed successfully",
			zap.Int("created", result.Created))
	}
}

func main() {
	ctx := context.Background()

	initFlag := flag.Bool("init", false, "Only create an empty ledger snapshot, do not seed")
	seedFlag := flag.String("seed", "accounts.yaml", "YAML file of accounts to create")
	ledgerFile := flag.String("ledger-file", "", "Path to the CSV snapshot (overrides LEDGER_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.FatalStartup("Failed to load configuration", err)
	}
	if *ledgerFile != "" {
		cfg.Database.Path = *ledgerFile
	}
	cfg.Database.CreateIfMissing = true
	// seeding is driven by -seed here, not by SEED_FILE
	cfg.Database.SeedFile = ""

	_, loggerCleanup := common.InitializeLogger(cfg.Log.Development)
	defer loggerCleanup()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	zap.L().Info("Ledger snapshot ready", zap.String("file", services.DbService.Path()))
	if *initFlag {
		return
	}

	seedLedger(ctx, services, *seedFlag)
}
