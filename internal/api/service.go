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
	"context"
	"fmt"
	"net/http"
	"time"

	"flat-ledger-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// RequestIDHeader is set on every response
const RequestIDHeader = "X-Request-Id"

// Ledger is the set of operations the HTTP layer exposes
type Ledger interface {
	Create(ctx context.Context, name string, initialBalance decimal.Decimal) (decimal.Decimal, error)
	Deposit(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, name string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error)
	Balance(ctx context.Context, name string) (decimal.Decimal, error)
	Accounts(ctx context.Context) ([]models.Account, error)
}

// LedgerService serves the ledger over HTTP/1.1 and h2c
type LedgerService struct {
	ledger       Ledger
	maxBodyBytes int64
}

func NewLedgerService(ledger Ledger, cfg models.ServerConfig) *LedgerService {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &LedgerService{
		ledger:       ledger,
		maxBodyBytes: maxBody,
	}
}

func (s *LedgerService) HealthCheck(ctx context.Context) (int, error) {
	accounts, err := s.ledger.Accounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger health check failed: %w", err)
	}
	return len(accounts), nil
}

// Handler returns the routed handler with request ids, access logging and h2c.
func (s *LedgerService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /account", s.handleCreateAccount)
	mux.HandleFunc("POST /deposit", s.handleDeposit)
	mux.HandleFunc("POST /withdraw", s.handleWithdraw)
	mux.HandleFunc("POST /transfer", s.handleTransfer)
	mux.HandleFunc("GET /account/{name}", s.handleBalance)
	mux.HandleFunc("GET /accounts", s.handleAccounts)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return h2c.NewHandler(withRequestID(mux), &http2.Server{})
}

// NewHTTPServer builds the listener-side server for cfg.
func (s *LedgerService) NewHTTPServer(cfg models.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

func (s *LedgerService) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.HealthCheck(r.Context())
	if err != nil {
		requestLogger(r).Error("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Accounts: count})
}

type ctxKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, requestID)))

		zap.L().Info("Request handled",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("proto", r.Proto),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestLogger(r *http.Request) *zap.Logger {
	return zap.L().With(zap.String("request_id", RequestID(r.Context())))
}
