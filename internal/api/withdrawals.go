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

package api

import (
	"fmt"
	"net/http"

	"flat-ledger-go/internal/models"
)

// handleWithdraw handles POST /withdraw
func (s *LedgerService) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.BankName == "" {
		writeError(w, r, invalidRequest("bank_name is required"))
		return
	}
	if !req.Amount.Valid {
		writeError(w, r, invalidRequest("amount is required"))
		return
	}

	balance, err := s.ledger.Withdraw(r.Context(), req.BankName, req.Amount.Decimal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BalanceResponse{
		Message: fmt.Sprintf("account %s withdrew %s, new balance: %s", req.BankName, req.Amount.Decimal, balance),
		Account: req.BankName,
		Balance: balance,
	})
}
