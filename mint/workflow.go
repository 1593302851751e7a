// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"glittrmint/wallet"
)

// AssetKind selects which synthetic asset a workflow purchases.
type AssetKind string

const (
	// StableAsset is the stablecoin purchased via a simple contract call.
	StableAsset AssetKind = "stable"
	// WrappedNativeAsset is the wrapped native asset purchased via a raw
	// marker transaction.
	WrappedNativeAsset AssetKind = "wrapped"
)

// State is a mint workflow state machine state.
type State string

const (
	// StateIdle defines that no attempt is in flight, submissions are accepted.
	StateIdle State = "IDLE"
	// StateValidating defines that fundability of the request is being checked.
	StateValidating State = "VALIDATING"
	// StateAssembling defines that the purchase transaction is being built.
	StateAssembling State = "ASSEMBLING"
	// StateAwaitingSignature defines that the external signer holds the transaction.
	StateAwaitingSignature State = "AWAITING_SIGNATURE"
	// StateBroadcasting defines that the finalized transaction is being submitted.
	StateBroadcasting State = "BROADCASTING"
)

// failureMessage is the generic failure surfaced for assembly, signing and
// broadcast errors.
const failureMessage = "mint error"

// NativeBalanceSource provides the spendable native balance of an address.
type NativeBalanceSource interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
}

// Workflow drives a single asset kind through validate, assemble, sign and
// broadcast stages. One attempt at a time: submissions outside the Idle state
// are rejected. Workflows for different asset kinds are independent.
type Workflow struct {
	kind        AssetKind
	balances    NativeBalanceSource
	assemble    AssembleFunc
	coordinator *Coordinator
	broadcaster Broadcaster
	log         *zap.Logger

	mu    sync.Mutex
	state State
	last  Result
}

// NewWorkflow is a constructor for Workflow.
func NewWorkflow(kind AssetKind, balances NativeBalanceSource, assemble AssembleFunc,
	coordinator *Coordinator, broadcaster Broadcaster, log *zap.Logger) *Workflow {
	return &Workflow{
		kind:        kind,
		balances:    balances,
		assemble:    assemble,
		coordinator: coordinator,
		broadcaster: broadcaster,
		log:         log.With(zap.String("asset", string(kind))),
		state:       StateIdle,
	}
}

// Kind returns the asset kind this workflow purchases.
func (w *Workflow) Kind() AssetKind {
	return w.kind
}

// State returns the current state machine state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// LastResult returns the result of the most recent finished attempt.
func (w *Workflow) LastResult() Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.last
}

// Submit drives one mint attempt to a terminal result. It returns
// ErrMintInProgress when an attempt for this asset kind is already in flight
// and ErrWalletNotConnected for requests with no payer identity; every other
// failure is terminal for the attempt and reported through the Result.
func (w *Workflow) Submit(ctx context.Context, req Request) (Result, error) {
	if req.Address == "" || req.PublicKey == "" {
		return Result{}, ErrWalletNotConnected
	}

	if err := w.begin(); err != nil {
		return Result{}, err
	}
	defer w.finish()

	available, err := w.balances.NativeBalance(ctx, req.Address)
	if err != nil {
		w.log.Error("native balance lookup failed", zap.Error(err))
		return w.fail(failureMessage), nil
	}

	if !CanFund(req.Amount, available) {
		return w.fail(fmt.Sprintf("Insufficient balance. You need at least %s sats.", req.Amount)), nil
	}

	w.setState(StateAssembling)
	serializedPSBT, err := w.assemble(ctx, req)
	if err != nil {
		w.log.Error("assembly failed", zap.Error(err))
		return w.fail(failureMessage), nil
	}

	w.setState(StateAwaitingSignature)
	rawTxHex, err := w.coordinator.Sign(ctx, serializedPSBT)
	if err != nil {
		if errors.Is(err, wallet.ErrSigningDeclined) {
			// attempt ends without a surfaced message, workflow becomes
			// re-submittable.
			w.log.Info("signing declined")
			return w.fail(""), nil
		}

		w.log.Error("signing failed", zap.Error(err))
		return w.fail(failureMessage), nil
	}

	w.setState(StateBroadcasting)
	txID, err := w.broadcaster.BroadcastTx(ctx, rawTxHex)
	if err != nil {
		w.log.Error("broadcast failed", zap.Error(err))
		return w.fail(failureMessage), nil
	}

	w.log.Info("mint settled", zap.String("txid", txID))

	return w.settle(txID), nil
}

// begin moves Idle to Validating, rejecting concurrent submissions.
func (w *Workflow) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return ErrMintInProgress
	}

	w.state = StateValidating

	return nil
}

// finish returns the workflow to Idle.
func (w *Workflow) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateIdle
}

// setState advances the state machine.
func (w *Workflow) setState(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = state
}

// fail stores and returns a failed terminal result.
func (w *Workflow) fail(message string) Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = Result{Success: false, Message: message}

	return w.last
}

// settle stores and returns a successful terminal result.
func (w *Workflow) settle(txID string) Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = Result{Success: true, TxID: txID}

	return w.last
}
