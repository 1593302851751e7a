// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package txassembler

import (
	"fmt"
	"math/big"

	"glittrmint/bitcoin"
)

// InsufficientError is the error type to describe insufficient balance errors with details.
type InsufficientError struct {
	Need *big.Int
	Have *big.Int
}

// NewInsufficientError is a constructor for InsufficientError.
func NewInsufficientError(need, have *big.Int) *InsufficientError {
	return &InsufficientError{Need: need, Have: have}
}

// Error returns error description.
func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient native balance: Need - %s, Have - %s", e.Need, e.Have)
}

// Is implements comparator method for [errors] package.
func (e *InsufficientError) Is(target error) bool {
	t, ok := target.(*InsufficientError)

	return ok && e.Error() == t.Error()
}

// Unwrap returns the underlying sentinel error.
func (e *InsufficientError) Unwrap() error {
	return bitcoin.ErrInsufficientNativeBalance
}
