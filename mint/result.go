// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package mint

import "strings"

// Result is the terminal outcome of a single mint attempt. It is never
// mutated after creation, only replaced by the next attempt's result.
type Result struct {
	Success bool   `json:"success"`
	TxID    string `json:"txid,omitempty"`
	Message string `json:"message,omitempty"`
}

// ExplorerLink builds an explorer URL for a broadcast transaction,
// empty when there is no transaction identifier.
func ExplorerLink(explorerBase, txID string) string {
	if txID == "" {
		return ""
	}

	return strings.TrimSuffix(explorerBase, "/") + "/tx/" + txID
}
