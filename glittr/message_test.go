// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"glittrmint/glittr"
)

func TestMessage(t *testing.T) {
	t.Run("message into script", func(t *testing.T) {
		t.Run("mint with pointer 0", func(t *testing.T) {
			script := "6a5f0902d4a90402a6010400"
			message := glittr.NewMintMessage(glittr.BlockTx{Block: 70868, Tx: 166}, 0)

			data, err := message.IntoScript()
			require.NoError(t, err)
			require.Equal(t, script, hex.EncodeToString(data))
		})

		t.Run("mint with pointer 1", func(t *testing.T) {
			script := "6a5f090291aa0402a6010401"
			message := glittr.NewMintMessage(glittr.BlockTx{Block: 70929, Tx: 166}, 1)

			data, err := message.IntoScript()
			require.NoError(t, err)
			require.Equal(t, script, hex.EncodeToString(data))
		})

		t.Run("contract call without mint", func(t *testing.T) {
			script := "6a5f0702d4a90402a601"
			message := &glittr.Message{
				ContractCall: &glittr.ContractCall{
					Contract: glittr.BlockTx{Block: 70868, Tx: 166},
				},
			}

			data, err := message.IntoScript()
			require.NoError(t, err)
			require.Equal(t, script, hex.EncodeToString(data))
		})

		t.Run("empty message", func(t *testing.T) {
			_, err := (&glittr.Message{}).IntoScript()
			require.ErrorIs(t, err, glittr.ErrTruncatedMessage)
		})
	})

	t.Run("parse script data", func(t *testing.T) {
		t.Run("mint with pointer 0", func(t *testing.T) {
			message := glittr.NewMintMessage(glittr.BlockTx{Block: 70868, Tx: 166}, 0)

			data, err := hex.DecodeString("6a5f0902d4a90402a6010400")
			require.NoError(t, err)

			parsed, err := glittr.ParseMessage(data)
			require.NoError(t, err)
			require.Equal(t, message, parsed)
		})

		t.Run("mint with pointer 1", func(t *testing.T) {
			message := glittr.NewMintMessage(glittr.BlockTx{Block: 70929, Tx: 166}, 1)

			data, err := hex.DecodeString("6a5f090291aa0402a6010401")
			require.NoError(t, err)

			parsed, err := glittr.ParseMessage(data)
			require.NoError(t, err)
			require.Equal(t, message, parsed)
		})

		t.Run("contract call without mint", func(t *testing.T) {
			data, err := hex.DecodeString("6a5f0702d4a90402a601")
			require.NoError(t, err)

			parsed, err := glittr.ParseMessage(data)
			require.NoError(t, err)
			require.Nil(t, parsed.ContractCall.Mint)
			require.Equal(t, glittr.BlockTx{Block: 70868, Tx: 166}, parsed.ContractCall.Contract)
		})

		t.Run("tag without value", func(t *testing.T) {
			data, err := hex.DecodeString("6a5f0102")
			require.NoError(t, err)

			_, err = glittr.ParseMessage(data)
			require.ErrorIs(t, err, glittr.ErrTruncatedMessage)
		})

		t.Run("unknown tag", func(t *testing.T) {
			data, err := hex.DecodeString("6a5f020301")
			require.NoError(t, err)

			_, err = glittr.ParseMessage(data)
			require.ErrorIs(t, err, glittr.ErrMalformedMessage)
		})

		t.Run("incomplete contract identifier", func(t *testing.T) {
			data, err := hex.DecodeString("6a5f0402010400")
			require.NoError(t, err)

			_, err = glittr.ParseMessage(data)
			require.ErrorIs(t, err, glittr.ErrMalformedMessage)
		})

		t.Run("not a marker", func(t *testing.T) {
			data, err := hex.DecodeString("6a5d0902d4a90402a6010400")
			require.NoError(t, err)

			_, err = glittr.ParseMessage(data)
			require.ErrorIs(t, err, glittr.ErrMalformedMessage)
		})
	})

	t.Run("round trip", func(t *testing.T) {
		message := glittr.NewMintMessage(glittr.BlockTx{Block: 123456789, Tx: 65535}, 3)

		data, err := message.IntoScript()
		require.NoError(t, err)

		parsed, err := glittr.ParseMessage(data)
		require.NoError(t, err)
		require.Equal(t, message, parsed)
	})

	t.Run("IsPossibleMarker", func(t *testing.T) {
		tests := []struct {
			script string
			mustBe bool
		}{
			{"6a5f0902d4a90402a6010400", true},
			{"6a5f090291aa0402a6010401", true},
			{"6a5f0702d4a90402a601", true},
			{"6a5f0100", true},
			{"", false},
			{"6a", false},
			{"6a5f", false},
			{"6a5f09", false},
			{"6a5f0000", false},
			{"6a5fff00", false},
			{"6a5d0902d4a90402a6010400", false},
			{"515f0902d4a90402a6010400", false},
		}
		for _, test := range tests {
			script, err := hex.DecodeString(test.script)
			require.NoError(t, err)
			require.Equal(t, test.mustBe, glittr.IsPossibleMarker(script), test.script)
		}
	})
}
