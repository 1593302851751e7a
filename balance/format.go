// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package balance

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount converts a smallest-unit integer amount into a human-readable
// decimal string scaled by divisibility (display = amount / 10^divisibility),
// with the integer part grouped by thousands.
func FormatAmount(amount string, divisibility uint8) string {
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return "0"
	}

	value := decimal.NewFromBigInt(n, -int32(divisibility)).String()

	intPart, fracPart, hasFrac := strings.Cut(value, ".")
	grouped := groupThousands(intPart)
	if !hasFrac {
		return grouped
	}

	return grouped + "." + fracPart
}

// groupThousands inserts comma separators into a non-negative integer string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}

	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
