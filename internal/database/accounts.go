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
	"fmt"
	"os"
	"path/filepath"

	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Exists reports whether an account with the given name is in the snapshot.
// Outside WithLock the answer may be stale by the time it is used.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	zap.L().Debug("Checking account existence", zap.String("account", name))

	accounts, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, account := range accounts {
		if account.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// LoadAll reads the whole snapshot into memory.
func (s *Service) LoadAll(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		zap.L().Error("Failed to open ledger snapshot", zap.String("file", s.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", store.ErrStorageRead, err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			zap.L().Warn("Failed to close ledger snapshot", zap.String("file", s.path), zap.Error(err))
		}
	}(f)

	accounts, err := decodeSnapshot(f)
	if err != nil {
		zap.L().Error("Failed to decode ledger snapshot", zap.String("file", s.path), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	zap.L().Debug("Loaded ledger snapshot", zap.String("file", s.path), zap.Int("count", len(accounts)))
	return accounts, nil
}

// ReplaceAll atomically swaps the snapshot for one holding exactly accounts.
// On failure the previous snapshot is left untouched.
func (s *Service) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.writeSnapshot(accounts); err != nil {
		zap.L().Error("Failed to replace ledger snapshot", zap.String("file", s.path), zap.Error(err))
		return err
	}

	zap.L().Debug("Replaced ledger snapshot", zap.String("file", s.path), zap.Int("count", len(accounts)))
	return nil
}

// Append adds one account row at the end of the snapshot without rewriting
// the existing rows. The row is written with a single write call so a
// concurrent unlocked reader never sees half a record.
func (s *Service) Append(ctx context.Context, account models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, s.mode)
	if err != nil {
		zap.L().Error("Failed to open ledger snapshot for append", zap.String("file", s.path), zap.Error(err))
		return fmt.Errorf("%w: %w", store.ErrStorageWrite, err)
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrStorageWrite, multierr.Append(err, f.Close()))
	}

	record, err := encodeRecord(account, info.Size() == 0)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", store.ErrStorageWrite, account.Name, multierr.Append(err, f.Close()))
	}

	// A snapshot written by another tool may lack the final line break.
	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			return fmt.Errorf("%w: %w", store.ErrStorageWrite, multierr.Append(err, f.Close()))
		}
		if last[0] != '\n' {
			record = append([]byte{'\n'}, record...)
		}
	}

	_, err = f.Write(record)
	err = multierr.Combine(err, f.Sync(), f.Close())
	if err != nil {
		zap.L().Error("Failed to append account", zap.String("file", s.path), zap.String("account", account.Name), zap.Error(err))
		return fmt.Errorf("%w: %w", store.ErrStorageWrite, err)
	}

	zap.L().Debug("Appended account", zap.String("file", s.path), zap.String("account", account.Name))
	return nil
}

// writeSnapshot writes to a temporary file in the snapshot's directory and
// renames it over the snapshot.
func (s *Service) writeSnapshot(accounts []models.Account) error {
	data, err := encodeSnapshot(accounts)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", store.ErrStorageWrite, err)
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrStorageWrite, err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	err = multierr.Combine(err, tmp.Chmod(s.mode), tmp.Sync(), tmp.Close())
	if err == nil {
		err = os.Rename(tmpPath, s.path)
	}
	if err != nil {
		err = multierr.Append(err, os.Remove(tmpPath))
		return fmt.Errorf("%w: %w", store.ErrStorageWrite, err)
	}

	syncDir(dir)
	return nil
}

// syncDir makes the rename durable where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	if err := multierr.Append(d.Sync(), d.Close()); err != nil {
		zap.L().Debug("Directory sync not supported", zap.String("dir", dir), zap.Error(err))
	}
}
