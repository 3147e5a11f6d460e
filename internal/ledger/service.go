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
	"context"
	"strings"

	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service applies business operations to a store.LedgerStore. Every operation
// runs its whole load, validate, apply and persist cycle inside one exclusive
// section of the store, so operations never interleave.
type Service struct {
	store store.LedgerStore
}

func NewService(st store.LedgerStore) *Service {
	return &Service{
		store: st,
	}
}

// Exists is an unlocked, best-effort existence check.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.store.Exists(ctx, name)
}

// Create opens a new account. The duplicate check and the append happen in
// the same exclusive section, so of several racing creates for one name
// exactly one succeeds.
func (s *Service) Create(ctx context.Context, name string, initialBalance decimal.Decimal) (decimal.Decimal, error) {
	logger := operationLogger(OpCreate, zap.String("account", name), amountField("amount", initialBalance))

	if !store.InRange(initialBalance) {
		return decimal.Zero, s.reject(logger, rejected(KindInvalidAmount, OpCreate, name, initialBalance))
	}
	if strings.TrimSpace(name) == "" {
		return decimal.Zero, s.reject(logger, rejected(KindInvalidAccountName, OpCreate, name, initialBalance))
	}
	if initialBalance.IsNegative() {
		return decimal.Zero, s.reject(logger, rejected(KindInvalidAmount, OpCreate, name, initialBalance))
	}

	err := s.store.WithLock(ctx, func(ctx context.Context) error {
		exists, err := s.store.Exists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return rejected(KindDuplicateAccount, OpCreate, name, initialBalance)
		}
		return s.store.Append(ctx, models.Account{Name: name, Balance: initialBalance})
	})
	if err != nil {
		return decimal.Zero, s.reject(logger, err)
	}

	logger.Info("Account created", zap.String("balance", initialBalance.String()))
	return initialBalance, nil
}

// Deposit credits amount to name and returns the new balance.
func (s *Service) Deposit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.adjust(ctx, OpDeposit, name, amount)
}

// Withdraw debits amount from name and returns the new balance. The balance
// must be strictly greater than amount: an account cannot be emptied to zero.
func (s *Service) Withdraw(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.adjust(ctx, OpWithdraw, name, amount)
}

func (s *Service) adjust(ctx context.Context, op, name string, amount decimal.Decimal) (decimal.Decimal, error) {
	logger := operationLogger(op, zap.String("account", name), amountField("amount", amount))

	if !amount.IsPositive() || !store.InRange(amount) {
		return decimal.Zero, s.reject(logger, rejected(KindInvalidAmount, op, name, amount))
	}

	var oldBalance, newBalance decimal.Decimal
	err := s.mutate(ctx, func(accounts []models.Account) error {
		i := indexOf(accounts, name)
		if i < 0 {
			return rejected(KindAccountNotFound, op, name, amount)
		}

		oldBalance = accounts[i].Balance
		switch op {
		case OpDeposit:
			newBalance = oldBalance.Add(amount)
		case OpWithdraw:
			if oldBalance.LessThanOrEqual(amount) {
				return insufficient(op, name, amount, oldBalance)
			}
			newBalance = oldBalance.Sub(amount)
		}
		accounts[i].Balance = newBalance
		return nil
	})
	if err != nil {
		return decimal.Zero, s.reject(logger, err)
	}

	logger.Info("Balance updated",
		zap.String("old_balance", oldBalance.String()),
		zap.String("new_balance", newBalance.String()))
	return newBalance, nil
}

// Transfer moves amount from one account to another and returns the source's
// new balance. Both sides are committed by a single snapshot replacement.
func (s *Service) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	logger := operationLogger(OpTransfer,
		zap.String("from", from),
		zap.String("to", to),
		amountField("amount", amount))

	if !amount.IsPositive() || !store.InRange(amount) {
		return decimal.Zero, s.reject(logger, rejected(KindInvalidAmount, OpTransfer, from, amount))
	}
	if from == to {
		return decimal.Zero, s.reject(logger, rejected(KindSameAccount, OpTransfer, from, amount))
	}

	var fromBalance, toBalance decimal.Decimal
	err := s.mutate(ctx, func(accounts []models.Account) error {
		fromIdx, toIdx := -1, -1
		for i := range accounts {
			switch accounts[i].Name {
			case from:
				fromIdx = i
			case to:
				toIdx = i
			}
			if fromIdx >= 0 && toIdx >= 0 {
				break
			}
		}
		if fromIdx < 0 {
			return rejected(KindAccountNotFound, OpTransfer, from, amount)
		}
		if toIdx < 0 {
			return rejected(KindAccountNotFound, OpTransfer, to, amount)
		}

		if accounts[fromIdx].Balance.LessThanOrEqual(amount) {
			return insufficient(OpTransfer, from, amount, accounts[fromIdx].Balance)
		}

		accounts[fromIdx].Balance = accounts[fromIdx].Balance.Sub(amount)
		accounts[toIdx].Balance = accounts[toIdx].Balance.Add(amount)
		fromBalance, toBalance = accounts[fromIdx].Balance, accounts[toIdx].Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, s.reject(logger, err)
	}

	logger.Info("Transfer committed",
		zap.String("from_balance", fromBalance.String()),
		zap.String("to_balance", toBalance.String()))
	return fromBalance, nil
}

// Balance returns the committed balance of name.
func (s *Service) Balance(ctx context.Context, name string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.store.WithLock(ctx, func(ctx context.Context) error {
		accounts, err := s.store.LoadAll(ctx)
		if err != nil {
			return err
		}
		i := indexOf(accounts, name)
		if i < 0 {
			return rejected(KindAccountNotFound, OpBalance, name, decimal.Zero)
		}
		balance = accounts[i].Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	zap.L().Debug("Retrieved balance", zap.String("account", name), zap.String("balance", balance.String()))
	return balance, nil
}

// Accounts returns a consistent copy of the whole snapshot.
func (s *Service) Accounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := s.store.WithLock(ctx, func(ctx context.Context) error {
		var err error
		accounts, err = s.store.LoadAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// mutate loads the snapshot, lets apply change it in memory and persists the
// result, all inside one exclusive section. Nothing is written if apply fails.
func (s *Service) mutate(ctx context.Context, apply func(accounts []models.Account) error) error {
	return s.store.WithLock(ctx, func(ctx context.Context) error {
		accounts, err := s.store.LoadAll(ctx)
		if err != nil {
			return err
		}
		if err := apply(accounts); err != nil {
			return err
		}
		return s.store.ReplaceAll(ctx, accounts)
	})
}

// reject logs a failed operation at a level matching its cause and returns err.
func (s *Service) reject(logger *zap.Logger, err error) error {
	if kind, ok := KindOf(err); ok {
		logger.Warn("Operation rejected", zap.String("reason", string(kind)), zap.Error(err))
	} else {
		logger.Error("Operation failed", zap.Error(err))
	}
	return err
}

func operationLogger(op string, fields ...zap.Field) *zap.Logger {
	return zap.L().With(append([]zap.Field{
		zap.String("op", op),
		zap.String("op_id", uuid.New().String()),
	}, fields...)...)
}

// amountField logs d without rendering values whose exponent is out of range.
func amountField(key string, d decimal.Decimal) zap.Field {
	if !store.InRange(d) {
		return zap.Int32(key+"_exponent", d.Exponent())
	}
	return zap.String(key, d.String())
}

func indexOf(accounts []models.Account, name string) int {
	for i := range accounts {
		if accounts[i].Name == name {
			return i
		}
	}
	return -1
}
