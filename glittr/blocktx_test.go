// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"glittrmint/glittr"
)

func TestBlockTx(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		tests := []struct {
			str     string
			blockTx glittr.BlockTx
			isValid bool
		}{
			{"70868:166", glittr.BlockTx{Block: 70868, Tx: 166}, true},
			{"70929:166", glittr.BlockTx{Block: 70929, Tx: 166}, true},
			{"0:0", glittr.BlockTx{}, true},
			{"70868", glittr.BlockTx{}, false},
			{"70868:166:1", glittr.BlockTx{}, false},
			{"abc:166", glittr.BlockTx{}, false},
			{"70868:abc", glittr.BlockTx{}, false},
			{"-1:166", glittr.BlockTx{}, false},
			{"70868:4294967296", glittr.BlockTx{}, false},
			{"", glittr.BlockTx{}, false},
		}
		for _, test := range tests {
			blockTx, err := glittr.NewBlockTxFromString(test.str)
			if !test.isValid {
				require.Error(t, err, test.str)
				continue
			}

			require.NoError(t, err, test.str)
			require.Equal(t, test.blockTx, blockTx)
		}
	})

	t.Run("string", func(t *testing.T) {
		require.Equal(t, "70868:166", glittr.BlockTx{Block: 70868, Tx: 166}.String())
		require.Equal(t, "0:0", glittr.BlockTx{}.String())
	})

	t.Run("is zero", func(t *testing.T) {
		require.True(t, glittr.BlockTx{}.IsZero())
		require.False(t, glittr.BlockTx{Block: 1}.IsZero())
		require.False(t, glittr.BlockTx{Tx: 1}.IsZero())
	})

	t.Run("to int sequence", func(t *testing.T) {
		seq := glittr.BlockTx{Block: 70868, Tx: 166}.ToIntSeq()
		require.Equal(t, []*big.Int{big.NewInt(70868), big.NewInt(166)}, seq)
	})
}
