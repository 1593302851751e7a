// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package bitcoin

import "errors"

var (
	// ErrInsufficientNativeBalance defines that utxos do not cover the requested satoshi amount.
	ErrInsufficientNativeBalance = errors.New("insufficient native balance")
	// ErrInvalidUTXOAmount defines that utxo selection was requested with impossible parameters.
	ErrInvalidUTXOAmount = errors.New("invalid utxo amount")
)
