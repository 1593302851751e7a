// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import (
	"math/big"

	"glittrmint/internal/numbers"
)

// CanFund reports whether the requested purchase amount can be covered by the
// available native balance. Non-positive requests are never fundable.
func CanFund(requested, available *big.Int) bool {
	if requested == nil || !numbers.IsPositive(requested) {
		return false
	}

	return !numbers.IsGreater(requested, available)
}
