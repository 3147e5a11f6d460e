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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flat-ledger-go/internal/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type SeedAccount struct {
	Name    string `yaml:"name"`
	Balance string `yaml:"balance"`
}

type SeedConfig struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// SeedResult counts what SeedAccounts did
type SeedResult struct {
	Created int
	Skipped int
}

// LoadSeedAccounts reads a YAML file of the form
//
//	accounts:
//	  - name: alice
//	    balance: "100.00"
//
// Balances are kept as text until parsed into decimals, never floats.
func LoadSeedAccounts(seedFile string) ([]SeedAccount, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	seen := make(map[string]bool, len(config.Accounts))
	for i, account := range config.Accounts {
		if strings.TrimSpace(account.Name) == "" {
			return nil, fmt.Errorf("account at index %d missing name", i)
		}
		if seen[account.Name] {
			return nil, fmt.Errorf("account %s listed more than once", account.Name)
		}
		seen[account.Name] = true

		balance, err := decimal.NewFromString(account.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s has invalid balance %q: %w", account.Name, account.Balance, err)
		}
		if balance.IsNegative() {
			return nil, fmt.Errorf("account %s has negative balance %s", account.Name, account.Balance)
		}
	}

	return config.Accounts, nil
}

// SeedAccounts creates every seed account that does not exist yet.
// Existing accounts keep their balance.
func SeedAccounts(ctx context.Context, svc *ledger.Service, seeds []SeedAccount) (SeedResult, error) {
	var result SeedResult
	for _, seed := range seeds {
		balance, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			return result, fmt.Errorf("seed account %s: %w", seed.Name, err)
		}

		_, err = svc.Create(ctx, seed.Name, balance)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, ledger.ErrDuplicateAccount):
			result.Skipped++
		default:
			return result, fmt.Errorf("seed account %s: %w", seed.Name, err)
		}
	}

	zap.L().Info("Seed accounts applied",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
