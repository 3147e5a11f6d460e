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
	"os"
	"path"

	"flat-ledger-go/internal/common"
	"flat-ledger-go/internal/config"

	"github.com/google/subcommands"
)

func main() {
	ledgerFile := flag.String("ledger-file", "", "Path to the CSV snapshot (overrides LEDGER_FILE)")
	currency := flag.String("currency", "", "Display currency for reports, e.g. USD (overrides DISPLAY_CURRENCY)")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	a := newApp(os.Stdout, os.Stderr)
	register(commander, a)

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		common.FatalStartup("Failed to load configuration", err)
	}
	if *ledgerFile != "" {
		cfg.Database.Path = *ledgerFile
	}
	if *currency != "" {
		cfg.Display.Currency = *currency
	}
	a.cfg = cfg

	_, loggerCleanup := common.InitializeLogger(cfg.Log.Development)
	status := commander.Execute(context.Background())
	loggerCleanup()
	os.Exit(int(status))
}
