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

package ledger

import (
	"errors"
	"fmt"

	"flat-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

// Sentinel errors for business failures. Every *OperationError matches exactly
// one of them through errors.Is.
var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrSameAccount        = errors.New("source and destination are the same account")
)

// Kind identifies the business rule an operation violated.
type Kind string

const (
	KindDuplicateAccount   Kind = "duplicate_account"
	KindAccountNotFound    Kind = "account_not_found"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindInvalidAmount      Kind = "invalid_amount"
	KindInvalidAccountName Kind = "invalid_account_name"
	KindSameAccount        Kind = "same_account"
)

var kindSentinels = map[Kind]error{
	KindDuplicateAccount:   ErrDuplicateAccount,
	KindAccountNotFound:    ErrAccountNotFound,
	KindInsufficientFunds:  ErrInsufficientFunds,
	KindInvalidAmount:      ErrInvalidAmount,
	KindInvalidAccountName: ErrInvalidAccountName,
	KindSameAccount:        ErrSameAccount,
}

// Operation names used in messages and logs
const (
	OpCreate   = "create"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpBalance  = "balance"
)

// OperationError is a rejected operation. No state was written.
type OperationError struct {
	Kind    Kind
	Op      string
	Account string
	Amount  decimal.Decimal
	// Balance is the account's committed balance when the rejection depends on it.
	Balance decimal.Decimal
}

func (e *OperationError) Error() string {
	switch e.Kind {
	case KindDuplicateAccount:
		return fmt.Sprintf("account %s already exists", e.Account)
	case KindAccountNotFound:
		return fmt.Sprintf("account %s does not exist, %s failed", e.Account, e.Op)
	case KindInsufficientFunds:
		return fmt.Sprintf("account %s balance %s is insufficient to %s %s", e.Account, e.Balance, e.Op, e.Amount)
	case KindInvalidAmount:
		if !store.InRange(e.Amount) {
			return fmt.Sprintf("%s amount for %s is outside the supported range of at most %d decimal places and exponent %d",
				e.Op, e.Account, store.MaxScale, store.MaxExponent)
		}
		if e.Op == OpCreate {
			return fmt.Sprintf("initial balance for %s cannot be negative, got %s", e.Account, e.Amount)
		}
		return fmt.Sprintf("%s amount must be positive, got %s", e.Op, e.Amount)
	case KindInvalidAccountName:
		return fmt.Sprintf("account name %q is invalid", e.Account)
	case KindSameAccount:
		return fmt.Sprintf("cannot %s from account %s to itself", e.Op, e.Account)
	}
	return fmt.Sprintf("%s failed for account %s", e.Op, e.Account)
}

// Is matches the sentinel for e.Kind.
func (e *OperationError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the business failure kind of err, if it is one.
func KindOf(err error) (Kind, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return "", false
}

func rejected(kind Kind, op, account string, amount decimal.Decimal) *OperationError {
	return &OperationError{Kind: kind, Op: op, Account: account, Amount: amount}
}

func insufficient(op, account string, amount, balance decimal.Decimal) *OperationError {
	return &OperationError{Kind: KindInsufficientFunds, Op: op, Account: account, Amount: amount, Balance: balance}
}
