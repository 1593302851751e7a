// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"go.uber.org/zap"

	"glittrmint/balance"
	"glittrmint/mint"
)

// Config holds the HTTP server configuration.
type Config struct {
	ListenAddr      string
	ExplorerBaseURL string
	RequestTimeout  time.Duration
}

// Server exposes the balance view and the mint workflows over HTTP.
type Server struct {
	cfg        Config
	aggregator *balance.Aggregator
	workflows  map[mint.AssetKind]*mint.Workflow
	metrics    *metricsRegistry
	log        *zap.Logger
	httpServer *http.Server
}

// New is a constructor for Server.
func New(cfg Config, aggregator *balance.Aggregator, workflows map[mint.AssetKind]*mint.Workflow, log *zap.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		aggregator: aggregator,
		workflows:  workflows,
		metrics:    newMetricsRegistry(),
		log:        log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.handler())
	mux.HandleFunc("/api/v1/balances", s.handleBalances)
	mux.HandleFunc("/api/v1/mint", s.handleMint)
	mux.HandleFunc("/api/v1/mint/state", s.handleMintState)

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("http server listening", zap.String("addr", s.cfg.ListenAddr))

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assetView extends the aggregated asset balance with its display string.
type assetView struct {
	balance.AssetBalance
	Display string `json:"display"`
}

// balancesResponse is the merged balance view model.
type balancesResponse struct {
	Stable     assetView `json:"stable"`
	Wrapped    assetView `json:"wrapped"`
	NativeSats uint64    `json:"nativeSats"`
}

// handleBalances re-aggregates and returns balances for the address. An
// empty address yields the zero view without issuing network calls.
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	s.metrics.incRefresh()
	view := s.aggregator.Refresh(ctx, r.URL.Query().Get("address"))

	writeJSON(w, http.StatusOK, balancesResponse{
		Stable:     assetView{AssetBalance: view.Stable, Display: view.Stable.Display()},
		Wrapped:    assetView{AssetBalance: view.Wrapped, Display: view.Wrapped.Display()},
		NativeSats: view.NativeSats,
	})
}

// mintRequest is the purchase submission body.
type mintRequest struct {
	Asset     string `json:"asset"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Amount    int64  `json:"amount"` // in smallest native units.
}

// mintResponse is the terminal attempt outcome.
type mintResponse struct {
	mint.Result
	ExplorerLink string `json:"explorerLink,omitempty"`
}

// handleMint drives one mint attempt to a terminal result.
func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workflow, ok := s.workflows[mint.AssetKind(req.Asset)]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown asset kind")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := workflow.Submit(ctx, mint.Request{
		Address:   req.Address,
		PublicKey: req.PublicKey,
		Amount:    big.NewInt(req.Amount),
	})
	switch {
	case errors.Is(err, mint.ErrMintInProgress):
		s.metrics.incMint(req.Asset, "rejected")
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, mint.ErrWalletNotConnected):
		s.metrics.incMint(req.Asset, "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.metrics.incMint(req.Asset, "error")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if result.Success {
		s.metrics.incMint(req.Asset, "settled")
	} else {
		s.metrics.incMint(req.Asset, "failed")
	}

	writeJSON(w, http.StatusOK, mintResponse{
		Result:       result,
		ExplorerLink: mint.ExplorerLink(s.cfg.ExplorerBaseURL, result.TxID),
	})
}

// handleMintState returns the state machine state of an asset's workflow.
func (s *Server) handleMintState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	workflow, ok := s.workflows[mint.AssetKind(r.URL.Query().Get("asset"))]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown asset kind")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"asset": string(workflow.Kind()),
		"state": string(workflow.State()),
	})
}

// requestContext bounds a request with the configured timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}

	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
