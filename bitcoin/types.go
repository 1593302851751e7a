// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package bitcoin

import (
	"math/big"
)

// UTXO describes unspent transaction output data.
type UTXO struct {
	TxHash  string
	Index   uint32   // output index in transaction outputs.
	Amount  *big.Int // in Satoshi.
	Script  []byte   // ScriptPubKey.
	Address string   // output recipient address.
}

// TxOutput describes a transaction output to be built, either an address
// payment or a raw script carrier.
type TxOutput struct {
	Address string   // recipient address, empty for script outputs.
	Script  []byte   // raw output script, nil for address outputs.
	Value   *big.Int // in Satoshi.
}

// NewAddressOutput returns TxOutput paying value to address.
func NewAddressOutput(address string, value *big.Int) TxOutput {
	return TxOutput{Address: address, Value: value}
}

// NewScriptOutput returns TxOutput carrying a raw script with value.
func NewScriptOutput(script []byte, value *big.Int) TxOutput {
	return TxOutput{Script: script, Value: value}
}
