// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
)

// Config holds all application configuration.
type Config struct {
	Network           string        // "mainnet" or "testnet".
	GlittrAPIURL      string        // protocol core API base URL.
	ElectrumAPIURL    string        // esplora-style indexer base URL.
	ExplorerBaseURL   string        // block explorer base for result links.
	StableContract    string        // stable-asset contract id, "block:tx".
	WrappedContract   string        // wrapped-asset contract id, "block:tx".
	SettlementAddress string        // fixed settlement target of the wrapped path.
	FeeRateSatPerKVB  int64         // fee rate in satoshi per kilo virtual byte.
	RequestTimeout    time.Duration // per-request deadline for mint submissions.
	ListenAddr        string        // HTTP listen address.
	SignerKeyHex      string        // hex private key for the local signer, operator mode only.
}

// Default returns configuration pre-filled with testnet defaults.
func Default() Config {
	return Config{
		Network:           "testnet",
		GlittrAPIURL:      "https://testnet-core-api.glittr.fi",
		ElectrumAPIURL:    "https://testnet-electrum.glittr.fi",
		ExplorerBaseURL:   "https://testnet-explorer.glittr.fi",
		StableContract:    "70868:166",
		WrappedContract:   "70929:166",
		SettlementAddress: "tb1p53z0gyfwjp5gxu4776dghkjw7hcrwznw9j8ggmz889ku2kftzhgqhvmxkd",
		FeeRateSatPerKVB:  5000,
		RequestTimeout:    30 * time.Second,
		ListenAddr:        ":8080",
	}
}

// NetworkParams returns chain parameters for the configured network.
func (c Config) NetworkParams() (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("unknown network: %s", c.Network)
	}
}

// Validate checks that required values are set.
func (c Config) Validate() error {
	switch {
	case c.GlittrAPIURL == "":
		return errors.New("glittr api url is required")
	case c.ElectrumAPIURL == "":
		return errors.New("electrum api url is required")
	case c.StableContract == "":
		return errors.New("stable contract id is required")
	case c.WrappedContract == "":
		return errors.New("wrapped contract id is required")
	case c.SettlementAddress == "":
		return errors.New("settlement address is required")
	case c.FeeRateSatPerKVB <= 0:
		return errors.New("fee rate must be positive")
	case c.ListenAddr == "":
		return errors.New("listen address is required")
	}

	_, err := c.NetworkParams()

	return err
}
