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
	"fmt"

	"flat-ledger-go/internal/ledger"
	"flat-ledger-go/internal/models"

	"go.uber.org/zap"
)

// SelectAccounts retrieves accounts based on an optional name filter.
// If nameFilter is provided, returns the single account with that name.
// If nameFilter is empty, returns all accounts in snapshot order.
func SelectAccounts(ctx context.Context, svc *ledger.Service, nameFilter string, logger *zap.Logger) ([]models.Account, error) {
	var accounts []models.Account

	if nameFilter != "" {
		logger.Info("Looking up account by name", zap.String("account", nameFilter))
		balance, err := svc.Balance(ctx, nameFilter)
		if err != nil {
			return nil, fmt.Errorf("account lookup failed: %w", err)
		}
		accounts = append(accounts, models.Account{Name: nameFilter, Balance: balance})
	} else {
		all, err := svc.Accounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get accounts: %w", err)
		}
		accounts = all
	}

	logger.Info("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
