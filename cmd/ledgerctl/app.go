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
	"fmt"
	"io"

	"flat-ledger-go/internal/common"
	"flat-ledger-go/internal/ledger"
	"flat-ledger-go/internal/models"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// app is shared by every subcommand. A CLI invocation opens the snapshot once
// and runs a single operation against it.
type app struct {
	cfg    *models.Config
	out    io.Writer
	errOut io.Writer
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func register(c *subcommands.Commander, a *app) {
	c.Register(&createCmd{app: a}, "accounts")
	c.Register(&depositCmd{app: a}, "accounts")
	c.Register(&withdrawCmd{app: a}, "accounts")
	c.Register(&transferCmd{app: a}, "accounts")
	c.Register(&balanceCmd{app: a}, "reports")
	c.Register(&balancesCmd{app: a}, "reports")
}

// run opens the ledger, calls fn and maps its error to an exit status.
// Business rejections are reported on errOut and exit with ExitFailure.
func (a *app) run(ctx context.Context, op string, fn func(ctx context.Context, svc *ledger.Service) error) subcommands.ExitStatus {
	services, err := common.InitializeServices(ctx, a.cfg)
	if err != nil {
		fmt.Fprintf(a.errOut, "Error opening ledger %q: %v\n", a.cfg.Database.Path, err)
		return subcommands.ExitFailure
	}
	defer services.Close()

	if err := fn(ctx, services.Ledger); err != nil {
		if _, ok := ledger.KindOf(err); !ok {
			zap.L().Error("Ledger command failed", zap.String("op", op), zap.Error(err))
		}
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (a *app) usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// parseAmount reads a required decimal flag value.
func parseAmount(flagName, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("-%s is required", flagName)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("-%s %q is not a decimal number", flagName, value)
	}
	return amount, nil
}

func (a *app) display(amount decimal.Decimal) string {
	return common.FormatAmount(amount, a.cfg.Display.Currency)
}
