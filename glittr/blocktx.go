// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// BlockTx is the compound contract identifier: the block and the transaction
// index where the contract was created.
type BlockTx struct {
	Block uint64
	Tx    uint32
}

// NewBlockTxFromString returns BlockTx parsed from "block:tx" string.
func NewBlockTxFromString(s string) (BlockTx, error) {
	data := strings.Split(s, ":")
	if len(data) != 2 {
		return BlockTx{}, fmt.Errorf("invalid contract id format: %s", s)
	}

	block, err := strconv.ParseUint(data[0], 10, 64)
	if err != nil {
		return BlockTx{}, err
	}

	tx, err := strconv.ParseUint(data[1], 10, 32)
	if err != nil {
		return BlockTx{}, err
	}

	return BlockTx{Block: block, Tx: uint32(tx)}, nil
}

// String returns BlockTx as "block:tx" string.
func (bt BlockTx) String() string {
	return fmt.Sprintf("%d:%d", bt.Block, bt.Tx)
}

// IsZero returns true if the identifier is unset.
func (bt BlockTx) IsZero() bool {
	return bt.Block == 0 && bt.Tx == 0
}

// ToIntSeq returns BlockTx as integer sequence.
func (bt BlockTx) ToIntSeq() []*big.Int {
	return []*big.Int{new(big.Int).SetUint64(bt.Block), big.NewInt(int64(bt.Tx))}
}
