// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AssetMetadata describes on-chain metadata of a contract's asset.
type AssetMetadata struct {
	Ticker       string `json:"ticker"`
	Divisibility uint8  `json:"divisibility"`
	TotalSupply  string `json:"total_supply"`
}

// BalanceSummary is the per-address protocol balance response, keyed by
// compound contract identifiers.
type BalanceSummary struct {
	Balance struct {
		Summarized map[string]string `json:"summarized"`
	} `json:"balance"`
	ContractInfo map[string]AssetMetadata `json:"contract_info"`
}

// AssetAmount returns the summarized amount for the contract, "0" if absent.
func (bs *BalanceSummary) AssetAmount(contract BlockTx) string {
	if amount, ok := bs.Balance.Summarized[contract.String()]; ok {
		return amount
	}

	return "0"
}

// AssetMetadata returns the contract's asset metadata if present.
func (bs *BalanceSummary) AssetMetadata(contract BlockTx) (AssetMetadata, bool) {
	meta, ok := bs.ContractInfo[contract.String()]
	return meta, ok
}

// Outpoint references a transaction output committed to protocol state.
type Outpoint struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// Client is an HTTP client for the protocol core API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient is a constructor for protocol API Client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BalanceSummary requests summarized asset balances with metadata by address.
func (c *Client) BalanceSummary(ctx context.Context, address string) (*BalanceSummary, error) {
	summary := new(BalanceSummary)
	err := c.getJSON(ctx, fmt.Sprintf("/helper/address/%s/balance", address), summary)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ContractState requests contract-creation configuration by compound identifier.
func (c *Client) ContractState(ctx context.Context, contract BlockTx) (*ContractState, error) {
	state := new(ContractState)
	err := c.getJSON(ctx, fmt.Sprintf("/blocktx/%d/%d", contract.Block, contract.Tx), state)
	if err != nil {
		return nil, err
	}

	return state, nil
}

// CommittedOutpoints requests outpoints of the address that are committed to
// protocol state and must not be spent as plain bitcoin.
func (c *Client) CommittedOutpoints(ctx context.Context, address string) ([]Outpoint, error) {
	var response struct {
		UTXOs []Outpoint `json:"utxos"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/helper/address/%s/utxo", address), &response)
	if err != nil {
		return nil, err
	}

	return response.UTXOs, nil
}

// BroadcastTx submits a finalized raw transaction, returns its identifier.
func (c *Client) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	body, err := json.Marshal(map[string]string{"tx": rawTxHex})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tx/broadcast", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("broadcast: HTTP %d: %s", resp.StatusCode, string(data))
	}

	var response struct {
		TxID string `json:"txid"`
	}
	if err = json.Unmarshal(data, &response); err != nil {
		return "", fmt.Errorf("broadcast: parsing response: %w", err)
	}

	if response.TxID == "" {
		return "", fmt.Errorf("broadcast: empty transaction id")
	}

	return response.TxID, nil
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
