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
	"net/http"

	"flat-ledger-go/internal/models"
)

// handleBalance handles GET /account/{name}
func (s *LedgerService) handleBalance(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	balance, err := s.ledger.Balance(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.BalanceResponse{Account: name, Balance: balance})
}

// handleAccounts handles GET /accounts, in snapshot order
func (s *LedgerService) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.Accounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.AccountsResponse{Accounts: make([]models.AccountBalance, 0, len(accounts))}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, models.AccountBalance{
			Name:    account.Name,
			Balance: account.Balance,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
