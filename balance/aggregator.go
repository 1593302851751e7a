// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package balance

import (
	"context"
	"math/big"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"glittrmint/glittr"
)

// ProtocolBalances is the protocol-side balance query collaborator.
type ProtocolBalances interface {
	BalanceSummary(ctx context.Context, address string) (*glittr.BalanceSummary, error)
}

// NativeBalances is the indexer-side native balance collaborator.
type NativeBalances interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
}

// AssetBalance is the per-asset piece of the aggregated view.
type AssetBalance struct {
	ContractID   string `json:"contractId"`
	Amount       string `json:"amount"` // smallest units, decimal string.
	Ticker       string `json:"ticker"`
	Divisibility uint8  `json:"divisibility"`
}

// Display returns the balance scaled by divisibility with thousand grouping.
func (b AssetBalance) Display() string {
	return FormatAmount(b.Amount, b.Divisibility)
}

// View is the merged balance view model exposed to the UI.
type View struct {
	Stable     AssetBalance `json:"stable"`
	Wrapped    AssetBalance `json:"wrapped"`
	NativeSats uint64       `json:"nativeSats"`
}

// Aggregator merges protocol asset balances and the native balance of the
// connected address into a single view. Each fetch fails independently:
// an error on one side zeroes only that side's data.
type Aggregator struct {
	protocol  ProtocolBalances
	native    NativeBalances
	stableID  glittr.BlockTx
	wrappedID glittr.BlockTx
	log       *zap.Logger

	mu   sync.RWMutex
	view View
}

// NewAggregator is a constructor for Aggregator.
func NewAggregator(protocol ProtocolBalances, native NativeBalances, stableID, wrappedID glittr.BlockTx, log *zap.Logger) *Aggregator {
	a := &Aggregator{
		protocol:  protocol,
		native:    native,
		stableID:  stableID,
		wrappedID: wrappedID,
		log:       log,
	}
	a.view = a.emptyView()

	return a
}

// View returns the last aggregated view.
func (a *Aggregator) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.view
}

// Refresh re-fetches both balance sources for the address and updates the
// exposed view. An empty address resets the view without network calls.
func (a *Aggregator) Refresh(ctx context.Context, address string) View {
	if address == "" {
		a.mu.Lock()
		a.view = a.emptyView()
		view := a.view
		a.mu.Unlock()

		return view
	}

	view := a.emptyView()

	summary, err := a.protocol.BalanceSummary(ctx, address)
	if err != nil {
		a.log.Warn("protocol balance fetch failed", zap.String("address", address), zap.Error(err))
	} else {
		view.Stable = a.assetBalance(summary, a.stableID, view.Stable)
		view.Wrapped = a.assetBalance(summary, a.wrappedID, view.Wrapped)
	}

	native, err := a.native.NativeBalance(ctx, address)
	if err != nil {
		a.log.Warn("native balance fetch failed", zap.String("address", address), zap.Error(err))
	} else {
		view.NativeSats = native.Uint64()
	}

	a.mu.Lock()
	a.view = view
	a.mu.Unlock()

	return view
}

// assetBalance extracts a single asset from the summary, keeping the zero
// state's metadata when the contract reports none.
func (a *Aggregator) assetBalance(summary *glittr.BalanceSummary, contract glittr.BlockTx, zero AssetBalance) AssetBalance {
	meta, ok := summary.AssetMetadata(contract)

	return AssetBalance{
		ContractID:   contract.String(),
		Amount:       summary.AssetAmount(contract),
		Ticker:       lo.Ternary(ok, meta.Ticker, zero.Ticker),
		Divisibility: lo.Ternary(ok, meta.Divisibility, zero.Divisibility),
	}
}

// emptyView returns the defined zero state: no amounts, wrapped asset keeps
// its hardcoded fallback metadata.
func (a *Aggregator) emptyView() View {
	return View{
		Stable: AssetBalance{
			ContractID: a.stableID.String(),
			Amount:     "0",
		},
		Wrapped: AssetBalance{
			ContractID:   a.wrappedID.String(),
			Amount:       "0",
			Ticker:       "gBTC",
			Divisibility: 8,
		},
	}
}
