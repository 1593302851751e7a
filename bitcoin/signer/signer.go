// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package signer

import (
	"bytes"
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"glittrmint/wallet"
)

// ErrUnsupportedScript defines that an input locks to a script type this signer cannot sign.
var ErrUnsupportedScript = errors.New("unsupported input script type")

// Signer signs PSBT inputs with a locally held private key. It implements
// the wallet.Signer port for operator mode and tests; user-mediated wallets
// replace it in production.
type Signer struct {
	networkParams *chaincfg.Params
	privateKey    *btcec.PrivateKey
}

// New is a constructor for Signer.
func New(networkParams *chaincfg.Params, privateKey *btcec.PrivateKey) *Signer {
	return &Signer{
		networkParams: networkParams,
		privateKey:    privateKey,
	}
}

// SignPSBT signs every input of the packet, returns updated serialized PSBT.
// Finalize and broadcast flags are rejected: both stages belong to the caller.
func (signer *Signer) SignPSBT(ctx context.Context, serializedPSBT []byte, opts wallet.Options) ([]byte, error) {
	if opts.Finalize || opts.Broadcast {
		return nil, errors.New("finalization and broadcast are owned by the caller")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	packet, err := psbt.NewFromRawBytes(bytes.NewBuffer(serializedPSBT), false)
	if err != nil {
		return nil, err
	}

	var (
		tx                   = packet.UnsignedTx
		prevOutputFetcherMap = make(map[wire.OutPoint]*wire.TxOut, len(tx.TxIn))
	)
	for idx, in := range packet.Inputs {
		prevOutputFetcherMap[tx.TxIn[idx].PreviousOutPoint] = in.WitnessUtxo
	}

	prevOutputFetcher := txscript.NewMultiPrevOutFetcher(prevOutputFetcherMap)
	for idx := range packet.Inputs {
		err = signer.signInput(packet, idx, prevOutputFetcher)
		if err != nil {
			return nil, err
		}
	}

	w := bytes.NewBuffer(nil)
	err = packet.Serialize(w)
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// signInput signs a single input according to its witness utxo script type.
func (signer *Signer) signInput(packet *psbt.Packet, idx int, inputFetcher txscript.PrevOutputFetcher) error {
	var (
		input       = &packet.Inputs[idx]
		sigHashes   = txscript.NewTxSigHashes(packet.UnsignedTx, inputFetcher)
		value       = input.WitnessUtxo.Value
		pkScript    = input.WitnessUtxo.PkScript
		sigHashType = input.SighashType
	)

	switch txscript.GetScriptClass(pkScript) {
	case txscript.WitnessV1TaprootTy:
		witness, err := txscript.TaprootWitnessSignature(
			packet.UnsignedTx, sigHashes, idx,
			value, pkScript, sigHashType, signer.privateKey)
		if err != nil {
			return err
		}

		input.TaprootKeySpendSig = witness[0]

		return nil
	case txscript.WitnessV0PubKeyHashTy:
		// sighash for p2wpkh commits to the corresponding p2pkh script.
		publicKey := signer.privateKey.PubKey().SerializeCompressed()
		sigScript, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(btcutil.Hash160(publicKey)).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
		if err != nil {
			return err
		}

		sig, err := txscript.RawTxInWitnessSignature(
			packet.UnsignedTx, sigHashes, idx,
			value, sigScript, sigHashType, signer.privateKey)
		if err != nil {
			return err
		}

		input.PartialSigs = []*psbt.PartialSig{{
			PubKey:    publicKey,
			Signature: sig,
		}}

		return nil
	default:
		return ErrUnsupportedScript
	}
}
