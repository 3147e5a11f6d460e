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

package models

import (
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a new account with an initial balance
type CreateAccountRequest struct {
	BankName string              `json:"bank_name"`
	Balance  decimal.NullDecimal `json:"balance"`
}

// DepositRequest credits an existing account
type DepositRequest struct {
	BankName string              `json:"bank_name"`
	Amount   decimal.NullDecimal `json:"amount"`
}

// WithdrawRequest debits an existing account
type WithdrawRequest struct {
	BankName string              `json:"bank_name"`
	Amount   decimal.NullDecimal `json:"amount"`
}

// TransferRequest moves funds between two accounts
type TransferRequest struct {
	FromName string              `json:"from_name"`
	ToName   string              `json:"to_name"`
	Amount   decimal.NullDecimal `json:"amount"`
}

// BalanceResponse is returned by every successful operation
type BalanceResponse struct {
	Message string          `json:"message,omitempty"`
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountsResponse lists the full snapshot
type AccountsResponse struct {
	Accounts []AccountBalance `json:"accounts"`
}

// AccountBalance is the wire form of models.Account
type AccountBalance struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// HealthResponse reports whether the snapshot is readable
type HealthResponse struct {
	Status   string `json:"status"`
	Accounts int    `json:"accounts"`
}

// ErrorResponse carries a failed operation back to the client
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
