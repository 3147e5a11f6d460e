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
	"fmt"

	"flat-ledger-go/internal/common"
	"flat-ledger-go/internal/ledger"
	"flat-ledger-go/internal/models"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type balanceCmd struct {
	app  *app
	name string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print one account balance" }
func (*balanceCmd) Usage() string {
	return `balance -name <name>
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name (required)")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.app.usageError("-name is required")
	}
	return c.app.run(ctx, ledger.OpBalance, func(ctx context.Context, svc *ledger.Service) error {
		balance, err := svc.Balance(ctx, c.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "%s: %s\n", c.name, c.app.display(balance))
		return nil
	})
}

type balancesCmd struct {
	app  *app
	name string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "print the account balance report" }
func (*balancesCmd) Usage() string {
	return `balances [-name <name>]

  Prints every account in snapshot order, or only -name.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Filter by a single account name (optional)")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := zap.L()
	logger.Info("Starting balance query")

	return c.app.run(ctx, ledger.OpBalance, func(ctx context.Context, svc *ledger.Service) error {
		accounts, err := common.SelectAccounts(ctx, svc, c.name, logger)
		if err != nil {
			return err
		}

		common.PrintHeader(c.app.out, "ACCOUNT BALANCE REPORT", common.DefaultWidth)
		total := c.printAccounts(accounts)

		summary := fmt.Sprintf("SUMMARY: %d accounts, total balance %s", len(accounts), c.app.display(total))
		common.PrintFooter(c.app.out, summary, common.DefaultWidth)

		logger.Info("Balance query completed",
			zap.Int("accounts", len(accounts)),
			zap.String("total", total.String()))
		return nil
	})
}

func (c *balancesCmd) printAccounts(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for i, account := range accounts {
		isLast := i == len(accounts)-1
		fmt.Fprintf(c.app.out, "%s%-30s %20s\n", common.BoxPrefix(isLast), account.Name, c.app.display(account.Balance))
		total = total.Add(account.Balance)
	}
	return total
}
