// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import "errors"

var (
	// ErrMintInProgress defines that a mint attempt for this asset kind is already in flight.
	ErrMintInProgress = errors.New("mint already in progress")
	// ErrWalletNotConnected defines that no payer address or public key was provided.
	ErrWalletNotConnected = errors.New("wallet not connected")
)
