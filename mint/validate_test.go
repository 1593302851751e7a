// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"glittrmint/mint"
)

func TestCanFund(t *testing.T) {
	tests := []struct {
		requested int64
		available int64
		canFund   bool
	}{
		{600, 500, false},
		{500, 500, true},
		{1, 500, true},
		{500, 600, true},
		{0, 500, false},
		{-1, 500, false},
		{1, 0, false},
	}
	for _, test := range tests {
		require.Equal(t, test.canFund,
			mint.CanFund(big.NewInt(test.requested), big.NewInt(test.available)),
			"requested %d available %d", test.requested, test.available)
	}

	require.False(t, mint.CanFund(nil, big.NewInt(500)))
}

func TestExplorerLink(t *testing.T) {
	require.Equal(t, "https://explorer.test/tx/abc", mint.ExplorerLink("https://explorer.test", "abc"))
	require.Equal(t, "https://explorer.test/tx/abc", mint.ExplorerLink("https://explorer.test/", "abc"))
	require.Empty(t, mint.ExplorerLink("https://explorer.test", ""))
}
