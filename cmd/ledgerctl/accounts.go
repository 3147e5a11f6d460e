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

	"flat-ledger-go/internal/ledger"

	"github.com/google/subcommands"
)

type createCmd struct {
	app     *app
	name    string
	balance string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "open a new account" }
func (*createCmd) Usage() string {
	return `create -name <name> [-balance <amount>]

  Opens an account with an initial balance (default 0). Names are unique.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name (required)")
	f.StringVar(&c.balance, "balance", "0", "Initial balance, must not be negative")
}

func (c *createCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.app.usageError("-name is required")
	}
	initial, err := parseAmount("balance", c.balance)
	if err != nil {
		return c.app.usageError("%v", err)
	}

	return c.app.run(ctx, ledger.OpCreate, func(ctx context.Context, svc *ledger.Service) error {
		balance, err := svc.Create(ctx, c.name, initial)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "✅ Account %s created, initial balance: %s\n", c.name, c.app.display(balance))
		return nil
	})
}

type depositCmd struct {
	app    *app
	name   string
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit an existing account" }
func (*depositCmd) Usage() string {
	return `deposit -name <name> -amount <amount>

  Adds a positive amount to the account balance.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name (required)")
	f.StringVar(&c.amount, "amount", "", "Amount to deposit (required)")
}

func (c *depositCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.app.usageError("-name is required")
	}
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		return c.app.usageError("%v", err)
	}

	return c.app.run(ctx, ledger.OpDeposit, func(ctx context.Context, svc *ledger.Service) error {
		balance, err := svc.Deposit(ctx, c.name, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "✅ Deposited %s to %s, new balance: %s\n",
			c.app.display(amount), c.name, c.app.display(balance))
		return nil
	})
}

type withdrawCmd struct {
	app    *app
	name   string
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "debit an existing account" }
func (*withdrawCmd) Usage() string {
	return `withdraw -name <name> -amount <amount>

  Removes a positive amount from the account. The balance must stay above zero.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Account name (required)")
	f.StringVar(&c.amount, "amount", "", "Amount to withdraw (required)")
}

func (c *withdrawCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.app.usageError("-name is required")
	}
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		return c.app.usageError("%v", err)
	}

	return c.app.run(ctx, ledger.OpWithdraw, func(ctx context.Context, svc *ledger.Service) error {
		balance, err := svc.Withdraw(ctx, c.name, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "✅ Withdrew %s from %s, new balance: %s\n",
			c.app.display(amount), c.name, c.app.display(balance))
		return nil
	})
}

type transferCmd struct {
	app    *app
	from   string
	to     string
	amount string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move funds between two accounts" }
func (*transferCmd) Usage() string {
	return `transfer -from <name> -to <name> -amount <amount>

  Debits -from and credits -to in a single snapshot write.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account (required)")
	f.StringVar(&c.to, "to", "", "Destination account (required)")
	f.StringVar(&c.amount, "amount", "", "Amount to transfer (required)")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		return c.app.usageError("-from and -to are required")
	}
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		return c.app.usageError("%v", err)
	}

	return c.app.run(ctx, ledger.OpTransfer, func(ctx context.Context, svc *ledger.Service) error {
		balance, err := svc.Transfer(ctx, c.from, c.to, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "✅ Transferred %s from %s to %s, remaining balance: %s\n",
			c.app.display(amount), c.from, c.to, c.app.display(balance))
		return nil
	})
}
