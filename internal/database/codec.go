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
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

const (
	// Snapshot columns, in file order
	columnName    = "name"
	columnBalance = "balance"
)

var snapshotHeader = []string{columnName, columnBalance}

// decodeSnapshot parses a full CSV snapshot. An empty input is an empty ledger.
func decodeSnapshot(r io.Reader) ([]models.Account, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(snapshotHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", store.ErrStorageRead, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var accounts []models.Account
	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read record: %w", store.ErrStorageRead, err)
		}

		name := record[0]
		if name == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: empty account name on line %d", store.ErrStorageRead, line)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: account %q appears more than once", store.ErrStorageRead, name)
		}
		seen[name] = struct{}{}

		balance, err := parseBalance(name, record[1])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, models.Account{Name: name, Balance: balance})
	}

	return accounts, nil
}

func checkHeader(header []string) error {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, column := range snapshotHeader {
		if header[i] != column {
			return fmt.Errorf("%w: unexpected header %q, want %q",
				store.ErrStorageRead, strings.Join(header, ","), strings.Join(snapshotHeader, ","))
		}
	}
	return nil
}

func parseBalance(name, raw string) (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: account %s balance %q: %w", store.ErrBalanceConversion, name, raw, err)
	}
	if !store.InRange(balance) {
		return decimal.Zero, fmt.Errorf("%w: account %s balance exponent %d is outside [-%d, %d]",
			store.ErrBalanceConversion, name, balance.Exponent(), store.MaxScale, store.MaxExponent)
	}
	return balance, nil
}

// formatBalance keeps the scale of the value so that 100.00 round-trips as 100.00.
func formatBalance(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// encodeSnapshot renders the header followed by every account.
func encodeSnapshot(accounts []models.Account) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(snapshotHeader); err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if err := writer.Write([]string{account.Name, formatBalance(account.Balance)}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeRecord renders a single account row, optionally preceded by the header.
func encodeRecord(account models.Account, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if withHeader {
		if err := writer.Write(snapshotHeader); err != nil {
			return nil, err
		}
	}
	if err := writer.Write([]string{account.Name, formatBalance(account.Balance)}); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
