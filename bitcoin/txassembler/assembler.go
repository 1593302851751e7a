// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package txassembler

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"glittrmint/bitcoin"
)

const (
	// txVersion defines transaction version for this assembler.
	txVersion int32 = 2
	// signHashType define signature hash type for input signing.
	signHashType = txscript.SigHashAll
)

// PurchaseParams describes data common to both purchase transaction shapes.
type PurchaseParams struct {
	PayerAddress     string
	PayerPubKey      string         // hex-encoded payer public key.
	Amount           *big.Int       // purchase amount in satoshi.
	UTXOs            []bitcoin.UTXO // spendable utxos, sorted by btc amount desc.
	SatoshiPerKVByte *big.Int       // fee rate in satoshi per kilo virtual byte.
}

// StablePurchaseParams describes data needed to build the stable-asset purchase transaction.
type StablePurchaseParams struct {
	PurchaseParams
	PaymentTarget string // resolved contract payment-target address.
	MarkerScript  []byte // serialized contract-call instruction script.
}

// WrappedPurchaseParams describes data needed to build the wrapped-native-asset purchase transaction.
type WrappedPurchaseParams struct {
	PurchaseParams
	SettlementAddress string // fixed external settlement target.
	MarkerScript      []byte // serialized contract-call instruction script.
}

// Assembler provides purchase transaction building related logic.
type Assembler struct {
	networkParams *chaincfg.Params
}

// NewAssembler is a constructor for Assembler.
func NewAssembler(networkParams *chaincfg.Params) *Assembler {
	return &Assembler{
		networkParams: networkParams,
	}
}

// BuildStablePurchaseTx constructs the stable-asset purchase transaction and
// returns it as serialized PSBT for external signing.
//
//	outputs:
//	┌─────────┬──────────────┬────────────────────────────────────────┐
//	│  index  │     type     │             description                │
//	├=========┼==============┼========================================┤
//	│       0 │ base output  │ dust return to the payer, receives     │
//	│         │              │ minted units (mint pointer 0).         │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       1 │ base output  │ payment to the contract target.        │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       2 │ marker       │ contract-call instruction, zero value. │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       3 │ base output  │ change to the payer. optional.         │
//	└─────────┴──────────────┴────────────────────────────────────────┘
func (a *Assembler) BuildStablePurchaseTx(params StablePurchaseParams) ([]byte, error) {
	if err := validatePurchaseParams(params.PurchaseParams); err != nil {
		return nil, err
	}
	if params.PaymentTarget == "" {
		return nil, errors.New("empty payment target")
	}

	inputs, outputs, _, err := FundOutputs(FundParams{
		PayerAddress: params.PayerAddress,
		UTXOs:        params.UTXOs,
		Outputs: []bitcoin.TxOutput{
			bitcoin.NewAddressOutput(params.PayerAddress, DustAmount),
			bitcoin.NewAddressOutput(params.PaymentTarget, params.Amount),
			bitcoin.NewScriptOutput(params.MarkerScript, big.NewInt(0)),
		},
		SatoshiPerKVByte: params.SatoshiPerKVByte,
	})
	if err != nil {
		return nil, err
	}

	return a.buildPSBT(inputs, outputs, params.PayerAddress, params.PayerPubKey)
}

// BuildWrappedPurchaseTx constructs the wrapped-native-asset purchase
// transaction and returns it as serialized PSBT for external signing.
// The marker output stays at index 0: the protocol decodes instructions
// only from the first output.
//
//	outputs:
//	┌─────────┬──────────────┬────────────────────────────────────────┐
//	│  index  │     type     │             description                │
//	├=========┼==============┼========================================┤
//	│       0 │ marker       │ contract-call instruction, zero value. │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       1 │ base output  │ self-payment of the purchase amount,   │
//	│         │              │ receives minted units (pointer 1).     │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       2 │ base output  │ settlement target, purchase amount.    │
//	├─────────┼──────────────┼────────────────────────────────────────┤
//	│       3 │ base output  │ change to the payer. optional.         │
//	└─────────┴──────────────┴────────────────────────────────────────┘
func (a *Assembler) BuildWrappedPurchaseTx(params WrappedPurchaseParams) ([]byte, error) {
	if err := validatePurchaseParams(params.PurchaseParams); err != nil {
		return nil, err
	}
	if params.SettlementAddress == "" {
		return nil, errors.New("empty settlement address")
	}

	inputs, outputs, _, err := FundOutputs(FundParams{
		PayerAddress: params.PayerAddress,
		UTXOs:        params.UTXOs,
		Outputs: []bitcoin.TxOutput{
			bitcoin.NewScriptOutput(params.MarkerScript, big.NewInt(0)),
			bitcoin.NewAddressOutput(params.PayerAddress, params.Amount),
			bitcoin.NewAddressOutput(params.SettlementAddress, params.Amount),
		},
		SatoshiPerKVByte: params.SatoshiPerKVByte,
	})
	if err != nil {
		return nil, err
	}

	return a.buildPSBT(inputs, outputs, params.PayerAddress, params.PayerPubKey)
}

// buildPSBT converts final inputs and outputs into a serialized PSBT with
// signing data prepared for the payer's address type.
func (a *Assembler) buildPSBT(inputs []*bitcoin.UTXO, outputs []bitcoin.TxOutput, payerAddress, payerPubKey string) ([]byte, error) {
	pib, err := NewPSBTInputBuilder(payerPubKey, payerAddress, a.networkParams)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(txVersion)
	for _, in := range inputs {
		utxoHash, err := chainhash.NewHashFromStr(in.TxHash)
		if err != nil {
			return nil, err
		}

		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(utxoHash, in.Index), nil, nil))
	}

	for _, out := range outputs {
		if out.Script != nil {
			tx.AddTxOut(wire.NewTxOut(out.Value.Int64(), out.Script))
			continue
		}

		address, err := btcutil.DecodeAddress(out.Address, a.networkParams)
		if err != nil {
			return nil, err
		}

		script, err := txscript.PayToAddrScript(address)
		if err != nil {
			return nil, err
		}

		tx.AddTxOut(wire.NewTxOut(out.Value.Int64(), script))
	}

	p, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, err
	}

	for i := range p.Inputs {
		script := inputs[i].Script
		if len(script) == 0 {
			// all selected utxos belong to the payer.
			script = pib.PayerScript()
		}

		p.Inputs[i].WitnessUtxo = wire.NewTxOut(inputs[i].Amount.Int64(), script)
		p.Inputs[i].SighashType = signHashType
		pib.PrepareInput(&p.Inputs[i])
	}

	w := bytes.NewBuffer(nil)
	err = p.Serialize(w)
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// validatePurchaseParams checks common purchase parameters.
func validatePurchaseParams(params PurchaseParams) error {
	switch {
	case params.PayerAddress == "":
		return errors.New("empty payer address")
	case params.PayerPubKey == "":
		return errors.New("empty payer public key")
	case params.Amount == nil || params.Amount.Sign() <= 0:
		return errors.New("non-positive purchase amount")
	case params.SatoshiPerKVByte == nil || params.SatoshiPerKVByte.Sign() <= 0:
		return errors.New("non-positive fee rate")
	}

	return nil
}
