// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import (
	"context"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg"

	"glittrmint/bitcoin"
	"glittrmint/bitcoin/txassembler"
	"glittrmint/glittr"
)

const (
	// stableMintPointer is the output index credited with minted stable units:
	// the dust return to the payer.
	stableMintPointer uint32 = 0
	// wrappedMintPointer is the output index credited with minted wrapped
	// units: the self-payment right after the marker.
	wrappedMintPointer uint32 = 1
)

// ProtocolState queries contract configuration by compound identifier.
type ProtocolState interface {
	ContractState(ctx context.Context, contract glittr.BlockTx) (*glittr.ContractState, error)
}

// UTXOSource enumerates spendable outputs of an address, with outputs
// committed to protocol state already excluded.
type UTXOSource interface {
	SpendableUTXOs(ctx context.Context, address string) ([]bitcoin.UTXO, error)
}

// Request describes a single purchase submission.
type Request struct {
	Address   string
	PublicKey string   // hex-encoded payer public key.
	Amount    *big.Int // in smallest native units.
}

// AssembleFunc builds the purchase transaction for a request and returns it
// as serialized PSBT. Any failure aborts assembly with no partial transaction.
type AssembleFunc func(ctx context.Context, req Request) ([]byte, error)

// AssemblyDeps bundles the collaborators both assembly shapes depend on.
type AssemblyDeps struct {
	Assembler     *txassembler.Assembler
	UTXOs         UTXOSource
	NetworkParams *chaincfg.Params
	FeeRate       *big.Int // satoshi per kilo virtual byte.
}

// StableAssembly returns the stable-asset transaction assembly routine:
// a contract call paying the purchase amount to the target resolved from the
// contract's purchase mechanism.
func StableAssembly(deps AssemblyDeps, protocol ProtocolState, contract glittr.BlockTx) AssembleFunc {
	return func(ctx context.Context, req Request) ([]byte, error) {
		state, err := protocol.ContractState(ctx, contract)
		if err != nil {
			return nil, fmt.Errorf("resolving contract state: %w", err)
		}

		target, err := state.PayToAddress(deps.NetworkParams)
		if err != nil {
			return nil, fmt.Errorf("deriving payment target: %w", err)
		}

		marker, err := glittr.NewMintMessage(contract, stableMintPointer).IntoScript()
		if err != nil {
			return nil, err
		}

		utxos, err := deps.UTXOs.SpendableUTXOs(ctx, req.Address)
		if err != nil {
			return nil, fmt.Errorf("enumerating spendable outputs: %w", err)
		}

		return deps.Assembler.BuildStablePurchaseTx(txassembler.StablePurchaseParams{
			PurchaseParams: txassembler.PurchaseParams{
				PayerAddress:     req.Address,
				PayerPubKey:      req.PublicKey,
				Amount:           req.Amount,
				UTXOs:            utxos,
				SatoshiPerKVByte: deps.FeeRate,
			},
			PaymentTarget: target.EncodeAddress(),
			MarkerScript:  marker,
		})
	}
}

// WrappedAssembly returns the wrapped-native-asset transaction assembly
// routine: a fee-funded raw transaction with the marker instruction at output
// index 0, a self-payment and a settlement-target payment of the purchase
// amount behind it.
func WrappedAssembly(deps AssemblyDeps, contract glittr.BlockTx, settlementAddress string) AssembleFunc {
	return func(ctx context.Context, req Request) ([]byte, error) {
		marker, err := glittr.NewMintMessage(contract, wrappedMintPointer).IntoScript()
		if err != nil {
			return nil, err
		}

		utxos, err := deps.UTXOs.SpendableUTXOs(ctx, req.Address)
		if err != nil {
			return nil, fmt.Errorf("enumerating spendable outputs: %w", err)
		}

		return deps.Assembler.BuildWrappedPurchaseTx(txassembler.WrappedPurchaseParams{
			PurchaseParams: txassembler.PurchaseParams{
				PayerAddress:     req.Address,
				PayerPubKey:      req.PublicKey,
				Amount:           req.Amount,
				UTXOs:            utxos,
				SatoshiPerKVByte: deps.FeeRate,
			},
			SettlementAddress: settlementAddress,
			MarkerScript:      marker,
		})
	}
}
