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

// handleTransfer handles POST /transfer. The response carries the source balance.
func (s *LedgerService) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	switch {
	case req.FromName == "":
		writeError(w, r, invalidRequest("from_name is required"))
		return
	case req.ToName == "":
		writeError(w, r, invalidRequest("to_name is required"))
		return
	case !req.Amount.Valid:
		writeError(w, r, invalidRequest("amount is required"))
		return
	}

	balance, err := s.ledger.Transfer(r.Context(), req.FromName, req.ToName, req.Amount.Decimal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BalanceResponse{
		Message: fmt.Sprintf("account %s transferred %s to %s, remaining balance: %s",
			req.FromName, req.Amount.Decimal, req.ToName, balance),
		Account: req.FromName,
		Balance: balance,
	})
}
