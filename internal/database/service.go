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

package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Service)(nil)

// Service stores the ledger as a CSV snapshot on local disk. A single mutex
// owned by the service is the only exclusion primitive; it is held for the
// whole of every WithLock callback.
type Service struct {
	path string
	mode os.FileMode

	mu     sync.Mutex
	closed bool
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger file path cannot be empty")
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0o644
	}
	if cfg.FileMode&0o600 != 0o600 {
		return nil, fmt.Errorf("ledger file mode must allow owner read and write, got %v", cfg.FileMode)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zap.L().Info("Opening ledger snapshot", zap.String("file", cfg.Path))
	service := &Service{path: cfg.Path, mode: cfg.FileMode}

	if err := service.initSnapshot(cfg.CreateIfMissing); err != nil {
		return nil, fmt.Errorf("unable to initialize ledger snapshot: %w", err)
	}

	// Fail fast on a snapshot we would not be able to serve.
	accounts, err := service.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Ledger snapshot service initialized successfully",
		zap.String("file", cfg.Path),
		zap.Int("accounts", len(accounts)))
	return service, nil
}

// Path returns the location of the snapshot file.
func (s *Service) Path() string {
	return s.path
}

func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	zap.L().Debug("Ledger snapshot service closed", zap.String("file", s.path))
}

// WithLock runs fn inside the exclusive section. The lock is released on
// every exit path of fn, including a panic. fn must not call WithLock again.
func (s *Service) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("ledger snapshot service is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (s *Service) initSnapshot(createIfMissing bool) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", store.ErrStorageRead, s.path, err)
	}
	if !createIfMissing {
		return fmt.Errorf("%w: %s does not exist", store.ErrStorageRead, s.path)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: unable to create %s: %w", store.ErrStorageWrite, dir, err)
		}
	}

	zap.L().Info("Creating empty ledger snapshot", zap.String("file", s.path))
	return s.writeSnapshot(nil)
}
