// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"go.uber.org/zap"

	"glittrmint/wallet"
)

// Broadcaster submits a finalized raw transaction to the network.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// Coordinator owns the signing and finalization stages of a mint attempt.
// The external signer only signs: finalize and broadcast flags are always off.
type Coordinator struct {
	signer wallet.Signer
	log    *zap.Logger
}

// NewCoordinator is a constructor for Coordinator.
func NewCoordinator(signer wallet.Signer, log *zap.Logger) *Coordinator {
	return &Coordinator{
		signer: signer,
		log:    log,
	}
}

// Sign requests a signature for the assembled PSBT, finalizes all inputs and
// returns the transaction in final wire format as hex. A nil signed payload
// is treated as a declined attempt.
func (c *Coordinator) Sign(ctx context.Context, serializedPSBT []byte) (string, error) {
	signed, err := c.signer.SignPSBT(ctx, serializedPSBT, wallet.Options{Finalize: false, Broadcast: false})
	if err != nil {
		return "", err
	}
	if len(signed) == 0 {
		return "", wallet.ErrSigningDeclined
	}

	packet, err := psbt.NewFromRawBytes(bytes.NewReader(signed), false)
	if err != nil {
		return "", fmt.Errorf("parsing signed psbt: %w", err)
	}

	if err = psbt.MaybeFinalizeAll(packet); err != nil {
		return "", fmt.Errorf("finalizing inputs: %w", err)
	}

	tx, err := psbt.Extract(packet)
	if err != nil {
		return "", fmt.Errorf("extracting transaction: %w", err)
	}

	w := bytes.NewBuffer(nil)
	if err = tx.Serialize(w); err != nil {
		return "", fmt.Errorf("serializing transaction: %w", err)
	}

	return hex.EncodeToString(w.Bytes()), nil
}
