// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"glittrmint/bitcoin"
	"glittrmint/glittr"
)

// CommittedLister reports outpoints of an address that are committed to
// protocol state and must be excluded from plain spending.
type CommittedLister interface {
	CommittedOutpoints(ctx context.Context, address string) ([]glittr.Outpoint, error)
}

// AddressStats holds on-chain totals of an address in smallest native units.
type AddressStats struct {
	FundedTxoSum uint64 `json:"funded_txo_sum"`
	SpentTxoSum  uint64 `json:"spent_txo_sum"`
}

// Client is an HTTP client for an esplora-style blockchain indexer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	committed  CommittedLister
	log        *zap.Logger
}

// NewClient is a constructor for indexer Client.
func NewClient(baseURL string, committed CommittedLister, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		committed:  committed,
		log:        log,
	}
}

// NativeBalance returns spendable satoshi total of the address, derived as
// funded minus spent. A negative difference means inconsistent indexer data
// and is clamped to zero.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	var response struct {
		ChainStats AddressStats `json:"chain_stats"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/address/%s", address), &response)
	if err != nil {
		return nil, err
	}

	funded := new(big.Int).SetUint64(response.ChainStats.FundedTxoSum)
	spent := new(big.Int).SetUint64(response.ChainStats.SpentTxoSum)
	balance := new(big.Int).Sub(funded, spent)
	if balance.Sign() < 0 {
		c.log.Warn("indexer reported spent above funded, clamping balance to zero",
			zap.String("address", address),
			zap.Uint64("funded", response.ChainStats.FundedTxoSum),
			zap.Uint64("spent", response.ChainStats.SpentTxoSum))
		balance.SetUint64(0)
	}

	return balance, nil
}

// utxoResponse is the indexer's unspent output shape.
type utxoResponse struct {
	TxID  string `json:"txid"`
	Vout  uint32 `json:"vout"`
	Value uint64 `json:"value"`
}

// SpendableUTXOs returns unspent outputs of the address excluding any
// committed to protocol state, sorted by amount descending.
func (c *Client) SpendableUTXOs(ctx context.Context, address string) ([]bitcoin.UTXO, error) {
	var unspent []utxoResponse
	err := c.getJSON(ctx, fmt.Sprintf("/address/%s/utxo", address), &unspent)
	if err != nil {
		return nil, err
	}

	committed, err := c.committed.CommittedOutpoints(ctx, address)
	if err != nil {
		return nil, err
	}

	reserved := make(map[glittr.Outpoint]struct{}, len(committed))
	for _, outpoint := range committed {
		reserved[outpoint] = struct{}{}
	}

	utxos := make([]bitcoin.UTXO, 0, len(unspent))
	for _, u := range unspent {
		if _, ok := reserved[glittr.Outpoint{TxID: u.TxID, Vout: u.Vout}]; ok {
			continue
		}

		utxos = append(utxos, bitcoin.UTXO{
			TxHash:  u.TxID,
			Index:   u.Vout,
			Amount:  new(big.Int).SetUint64(u.Value),
			Address: address,
		})
	}

	sort.Slice(utxos, func(i, j int) bool {
		return utxos[i].Amount.Cmp(utxos[j].Amount) > 0
	})

	return utxos, nil
}

// getJSON performs a GET request and unmarshals the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, path, string(data))
	}

	if err = json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", path, err)
	}

	return nil
}
