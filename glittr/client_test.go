// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"glittrmint/glittr"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/helper/address/tb1qpayer/balance", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"balance": {"summarized": {"70868:166": "120000000"}},
			"contract_info": {"70868:166": {"ticker": "USDG", "divisibility": 6, "total_supply": "1000000000000"}}
		}`))
	})
	mux.HandleFunc("/helper/address/tb1qpayer/utxo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"utxos": [{"txid": "deadbeef", "vout": 1}, {"txid": "cafebabe", "vout": 0}]}`))
	})
	mux.HandleFunc("/blocktx/70868/166", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"message": {"message": {"contract_creation": {"contract_type": {"mba": {
				"mint_mechanism": {"purchase": {"pay_to_key": [2, 1, 2, 3]}}
			}}}}}
		}`))
	})
	mux.HandleFunc("/tx/broadcast", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "0200ff", body["tx"])

		_, _ = w.Write([]byte(`{"txid": "a1b2c3"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := glittr.NewClient(srv.URL)
	contract := glittr.BlockTx{Block: 70868, Tx: 166}

	t.Run("balance summary", func(t *testing.T) {
		summary, err := client.BalanceSummary(ctx, "tb1qpayer")
		require.NoError(t, err)
		require.Equal(t, "120000000", summary.AssetAmount(contract))
		require.Equal(t, "0", summary.AssetAmount(glittr.BlockTx{Block: 1, Tx: 1}))

		meta, ok := summary.AssetMetadata(contract)
		require.True(t, ok)
		require.Equal(t, "USDG", meta.Ticker)
		require.EqualValues(t, 6, meta.Divisibility)

		_, ok = summary.AssetMetadata(glittr.BlockTx{Block: 1, Tx: 1})
		require.False(t, ok)
	})

	t.Run("contract state", func(t *testing.T) {
		state, err := client.ContractState(ctx, contract)
		require.NoError(t, err)

		key, err := state.PayToKey()
		require.NoError(t, err)
		require.Equal(t, []byte{2, 1, 2, 3}, key)
	})

	t.Run("committed outpoints", func(t *testing.T) {
		outpoints, err := client.CommittedOutpoints(ctx, "tb1qpayer")
		require.NoError(t, err)
		require.Equal(t, []glittr.Outpoint{{TxID: "deadbeef", Vout: 1}, {TxID: "cafebabe", Vout: 0}}, outpoints)
	})

	t.Run("broadcast", func(t *testing.T) {
		txID, err := client.BroadcastTx(ctx, "0200ff")
		require.NoError(t, err)
		require.Equal(t, "a1b2c3", txID)
	})

	t.Run("http error", func(t *testing.T) {
		_, err := client.BalanceSummary(ctx, "unknown")
		require.Error(t, err)
	})
}

func TestClientBroadcastFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected transaction", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "dust output", http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := glittr.NewClient(srv.URL).BroadcastTx(ctx, "0200ff")
		require.Error(t, err)
		require.ErrorContains(t, err, "dust output")
	})

	t.Run("empty txid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := glittr.NewClient(srv.URL).BroadcastTx(ctx, "0200ff")
		require.Error(t, err)
	})
}
