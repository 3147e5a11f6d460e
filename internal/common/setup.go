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

package common

import (
	"context"
	"log"
	"strings"

	"flat-ledger-go/internal/database"
	"flat-ledger-go/internal/ledger"
	"flat-ledger-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService *database.Service
	Ledger    *ledger.Service
}

func InitializeLogger(development bool) (*zap.Logger, func()) {
	newLogger := zap.NewProduction
	if development {
		newLogger = zap.NewDevelopment
	}
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// FatalStartup reports a failure that happens before InitializeLogger, such as
// an invalid configuration, on stderr and exits with status 1.
func FatalStartup(msg string, err error) {
	logger, logErr := zap.NewProduction()
	if logErr != nil {
		log.Fatalf("%s: %v", msg, err)
	}
	zap.ReplaceGlobals(logger)
	logger.Fatal(msg, zap.Error(err))
}

// InitializeServices opens the ledger snapshot and builds the operation layer
// on top of it. The returned Services own the store; call Close when done.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	services := &Services{
		DbService: dbService,
		Ledger:    ledger.NewService(dbService),
	}

	if cfg.Database.SeedFile != "" {
		seeds, err := LoadSeedAccounts(cfg.Database.SeedFile)
		if err != nil {
			services.Close()
			return nil, err
		}
		if _, err := SeedAccounts(ctx, services.Ledger, seeds); err != nil {
			services.Close()
			return nil, err
		}
	}

	return services, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stderr: invalid argument") ||
		strings.Contains(msg, "sync /dev/stdout: invalid argument")
}
