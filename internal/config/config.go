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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"flat-ledger-go/internal/models"
)

func Load() (*models.Config, error) {
	readTimeout, err := getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	fileMode, err := getEnvFileMode("LEDGER_FILE_MODE", 0o644)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("LEDGER_FILE", "accounts.csv"),
			CreateIfMissing: getEnvBool("LEDGER_CREATE_IF_MISSING", true),
			FileMode:        fileMode,
			SeedFile:        getEnvString("SEED_FILE", ""),
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("HTTP_ADDR", "127.0.0.1:8090"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			MaxBodyBytes:    int64(getEnvInt("HTTP_MAX_BODY_BYTES", 1<<20)),
		},
		Display: models.DisplayConfig{
			Currency: getEnvString("DISPLAY_CURRENCY", "USD"),
		},
		Log: models.LogConfig{
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

// getEnvFileMode parses an octal permission string such as "0600".
func getEnvFileMode(key string, defaultValue os.FileMode) (os.FileMode, error) {
	if value := os.Getenv(key); value != "" {
		mode, err := strconv.ParseUint(value, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid file mode for %s: %q (%w)", key, value, err)
		}
		return os.FileMode(mode), nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
