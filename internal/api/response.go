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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flat-ledger-go/internal/ledger"
	"flat-ledger-go/internal/models"
	"flat-ledger-go/internal/store"

	"go.uber.org/zap"
)

// Codes for failures that are not ledger rejections
const (
	CodeInvalidRequest    = "invalid_request"
	CodeRequestTooLarge   = "request_too_large"
	CodeStorageRead       = "storage_read_error"
	CodeStorageWrite      = "storage_write_error"
	CodeBalanceConversion = "balance_conversion_error"
	CodeInternal          = "internal_error"
)

const storageFailureMessage = "ledger storage is unavailable, no changes were made"

// requestError is a malformed request, rejected before the ledger sees it.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func invalidRequest(format string, args ...any) *requestError {
	return &requestError{
		status:  http.StatusBadRequest,
		code:    CodeInvalidRequest,
		message: fmt.Sprintf(format, args...),
	}
}

func (s *LedgerService) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &requestError{
				status:  http.StatusRequestEntityTooLarge,
				code:    CodeRequestTooLarge,
				message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			}
		}
		return invalidRequest("malformed request body: %v", err)
	}
	return nil
}

func statusForKind(kind ledger.Kind) int {
	switch kind {
	case ledger.KindAccountNotFound:
		return http.StatusNotFound
	case ledger.KindDuplicateAccount:
		return http.StatusConflict
	case ledger.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func storageCode(err error) string {
	switch {
	case errors.Is(err, store.ErrBalanceConversion):
		return CodeBalanceConversion
	case errors.Is(err, store.ErrStorageWrite):
		return CodeStorageWrite
	case errors.Is(err, store.ErrStorageRead):
		return CodeStorageRead
	}
	return CodeInternal
}

// writeError maps err to a status and error body. Storage details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeJSON(w, reqErr.status, models.ErrorResponse{Message: reqErr.message, Code: reqErr.code})
		return
	}

	if kind, ok := ledger.KindOf(err); ok {
		writeJSON(w, statusForKind(kind), models.ErrorResponse{Message: err.Error(), Code: string(kind)})
		return
	}

	requestLogger(r).Error("Ledger operation failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Message: storageFailureMessage,
		Code:    storageCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("Failed to write response body", zap.Error(err))
	}
}
