// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package signer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"glittrmint/bitcoin/signer"
	"glittrmint/wallet"
)

func TestSigner(t *testing.T) {
	ctx := context.Background()

	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubKey := privKey.PubKey()

	s := signer.New(&chaincfg.TestNet3Params, privKey)

	newPacket := func(t *testing.T, prevScript []byte) *psbt.Packet {
		t.Helper()

		tx := wire.NewMsgTx(2)
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(mustHash(t, "5aa4e4e957b467d07413aa75cdab5e4ce9ff2b714cd81b6af0e90bfee5ff070c"), 0), nil, nil))
		tx.AddTxOut(wire.NewTxOut(43000, prevScript))

		packet, err := psbt.NewFromUnsignedTx(tx)
		require.NoError(t, err)

		packet.Inputs[0].WitnessUtxo = wire.NewTxOut(50000, prevScript)
		packet.Inputs[0].SighashType = txscript.SigHashAll

		return packet
	}

	verify := func(t *testing.T, signedPSBTBytes, prevScript []byte) {
		t.Helper()

		signedPSBT, err := psbt.NewFromRawBytes(bytes.NewReader(signedPSBTBytes), false)
		require.NoError(t, err)
		require.NoError(t, psbt.Finalize(signedPSBT, 0))

		signedTx, err := psbt.Extract(signedPSBT)
		require.NoError(t, err)

		prevFetcher := txscript.NewCannedPrevOutputFetcher(prevScript, 50000)
		sigHashes := txscript.NewTxSigHashes(signedTx, prevFetcher)

		vm, err := txscript.NewEngine(
			prevScript, signedTx, 0, txscript.StandardVerifyFlags,
			nil, sigHashes, 50000, prevFetcher,
		)
		require.NoError(t, err)
		require.NoError(t, vm.Execute())
	}

	t.Run("taproot key spend", func(t *testing.T) {
		taprootAddr, err := btcutil.NewAddressTaproot(
			schnorr.SerializePubKey(txscript.ComputeTaprootKeyNoScript(pubKey)), &chaincfg.TestNet3Params)
		require.NoError(t, err)

		prevScript, err := txscript.PayToAddrScript(taprootAddr)
		require.NoError(t, err)

		packet := newPacket(t, prevScript)
		packet.Inputs[0].TaprootInternalKey = pubKey.SerializeCompressed()[1:]

		packetBytes := bytes.NewBuffer(nil)
		require.NoError(t, packet.Serialize(packetBytes))

		signedPSBTBytes, err := s.SignPSBT(ctx, packetBytes.Bytes(), wallet.Options{})
		require.NoError(t, err)

		verify(t, signedPSBTBytes, prevScript)
	})

	t.Run("p2wpkh", func(t *testing.T) {
		p2wpkhAddr, err := btcutil.NewAddressWitnessPubKeyHash(
			btcutil.Hash160(pubKey.SerializeCompressed()), &chaincfg.TestNet3Params)
		require.NoError(t, err)

		prevScript, err := txscript.PayToAddrScript(p2wpkhAddr)
		require.NoError(t, err)

		packet := newPacket(t, prevScript)

		packetBytes := bytes.NewBuffer(nil)
		require.NoError(t, packet.Serialize(packetBytes))

		signedPSBTBytes, err := s.SignPSBT(ctx, packetBytes.Bytes(), wallet.Options{})
		require.NoError(t, err)

		verify(t, signedPSBTBytes, prevScript)
	})

	t.Run("unsupported script", func(t *testing.T) {
		prevScript, err := txscript.NullDataScript(nil)
		require.NoError(t, err)

		packet := newPacket(t, prevScript)

		packetBytes := bytes.NewBuffer(nil)
		require.NoError(t, packet.Serialize(packetBytes))

		_, err = s.SignPSBT(ctx, packetBytes.Bytes(), wallet.Options{})
		require.ErrorIs(t, err, signer.ErrUnsupportedScript)
	})

	t.Run("finalize and broadcast flags rejected", func(t *testing.T) {
		_, err := s.SignPSBT(ctx, nil, wallet.Options{Finalize: true})
		require.Error(t, err)

		_, err = s.SignPSBT(ctx, nil, wallet.Options{Broadcast: true})
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.SignPSBT(cancelled, nil, wallet.Options{})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func mustHash(t *testing.T, s string) *chainhash.Hash {
	t.Helper()

	h, err := chainhash.NewHashFromStr(s)
	require.NoError(t, err)

	return h
}
