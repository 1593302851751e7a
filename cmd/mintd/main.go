// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"glittrmint/balance"
	"glittrmint/bitcoin/signer"
	"glittrmint/bitcoin/txassembler"
	"glittrmint/config"
	"glittrmint/glittr"
	"glittrmint/indexer"
	"glittrmint/mint"
	"glittrmint/server"
)

const (
	flagNetwork           = "network"
	flagGlittrAPI         = "glittr-api"
	flagElectrumAPI       = "electrum-api"
	flagExplorerBase      = "explorer-base"
	flagStableContract    = "stable-contract"
	flagWrappedContract   = "wrapped-contract"
	flagSettlementAddress = "settlement-address"
	flagFeeRate           = "fee-rate"
	flagRequestTimeout    = "request-timeout"
	flagListenAddr        = "listen-addr"
	flagSignerKey         = "signer-key"

	envPrefix = "MINTD"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mintd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:           "mintd",
		Short:         "Glittr synthetic asset purchase service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(flagNetwork, cfg.Network, "bitcoin network: mainnet or testnet")
	flags.String(flagGlittrAPI, cfg.GlittrAPIURL, "protocol core API base URL")
	flags.String(flagElectrumAPI, cfg.ElectrumAPIURL, "esplora-style indexer base URL")
	flags.String(flagExplorerBase, cfg.ExplorerBaseURL, "block explorer base URL for result links")
	flags.String(flagStableContract, cfg.StableContract, "stable-asset contract id (block:tx)")
	flags.String(flagWrappedContract, cfg.WrappedContract, "wrapped-asset contract id (block:tx)")
	flags.String(flagSettlementAddress, cfg.SettlementAddress, "settlement target address of the wrapped path")
	flags.Int64(flagFeeRate, cfg.FeeRateSatPerKVB, "fee rate in satoshi per kilo virtual byte")
	flags.Duration(flagRequestTimeout, cfg.RequestTimeout, "per-request deadline for mint submissions")
	flags.String(flagListenAddr, cfg.ListenAddr, "HTTP listen address")
	flags.String(flagSignerKey, cfg.SignerKeyHex, "hex private key for the local signer")

	return cmd
}

// loadConfig merges flags and MINTD_* environment variables into cfg.
func loadConfig(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for env, flag := range map[string]string{
		"NETWORK":            flagNetwork,
		"GLITTR_API":         flagGlittrAPI,
		"ELECTRUM_API":       flagElectrumAPI,
		"EXPLORER_BASE":      flagExplorerBase,
		"STABLE_CONTRACT":    flagStableContract,
		"WRAPPED_CONTRACT":   flagWrappedContract,
		"SETTLEMENT_ADDRESS": flagSettlementAddress,
		"FEE_RATE":           flagFeeRate,
		"REQUEST_TIMEOUT":    flagRequestTimeout,
		"LISTEN_ADDR":        flagListenAddr,
		"SIGNER_KEY":         flagSignerKey,
	} {
		if err := v.BindEnv(flag, envPrefix+"_"+env); err != nil {
			return err
		}
		if err := v.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	cfg.Network = v.GetString(flagNetwork)
	cfg.GlittrAPIURL = v.GetString(flagGlittrAPI)
	cfg.ElectrumAPIURL = v.GetString(flagElectrumAPI)
	cfg.ExplorerBaseURL = v.GetString(flagExplorerBase)
	cfg.StableContract = v.GetString(flagStableContract)
	cfg.WrappedContract = v.GetString(flagWrappedContract)
	cfg.SettlementAddress = v.GetString(flagSettlementAddress)
	cfg.FeeRateSatPerKVB = v.GetInt64(flagFeeRate)
	cfg.RequestTimeout = v.GetDuration(flagRequestTimeout)
	cfg.ListenAddr = v.GetString(flagListenAddr)
	cfg.SignerKeyHex = v.GetString(flagSignerKey)

	return cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	networkParams, err := cfg.NetworkParams()
	if err != nil {
		return err
	}

	stableID, err := glittr.NewBlockTxFromString(cfg.StableContract)
	if err != nil {
		return fmt.Errorf("stable contract: %w", err)
	}

	wrappedID, err := glittr.NewBlockTxFromString(cfg.WrappedContract)
	if err != nil {
		return fmt.Errorf("wrapped contract: %w", err)
	}

	if cfg.SignerKeyHex == "" {
		return errors.New("signer key is required")
	}

	keyBytes, err := hex.DecodeString(cfg.SignerKeyHex)
	if err != nil {
		return fmt.Errorf("signer key: %w", err)
	}
	privateKey, _ := btcec.PrivKeyFromBytes(keyBytes)

	protocolClient := glittr.NewClient(cfg.GlittrAPIURL)
	indexerClient := indexer.NewClient(cfg.ElectrumAPIURL, protocolClient, logger)
	aggregator := balance.NewAggregator(protocolClient, indexerClient, stableID, wrappedID, logger)

	deps := mint.AssemblyDeps{
		Assembler:     txassembler.NewAssembler(networkParams),
		UTXOs:         indexerClient,
		NetworkParams: networkParams,
		FeeRate:       big.NewInt(cfg.FeeRateSatPerKVB),
	}
	coordinator := mint.NewCoordinator(signer.New(networkParams, privateKey), logger)

	workflows := map[mint.AssetKind]*mint.Workflow{
		mint.StableAsset: mint.NewWorkflow(mint.StableAsset, indexerClient,
			mint.StableAssembly(deps, protocolClient, stableID), coordinator, protocolClient, logger),
		mint.WrappedNativeAsset: mint.NewWorkflow(mint.WrappedNativeAsset, indexerClient,
			mint.WrappedAssembly(deps, wrappedID, cfg.SettlementAddress), coordinator, protocolClient, logger),
	}

	srv := server.New(server.Config{
		ListenAddr:      cfg.ListenAddr,
		ExplorerBaseURL: cfg.ExplorerBaseURL,
		RequestTimeout:  cfg.RequestTimeout,
	}, aggregator, workflows, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}
