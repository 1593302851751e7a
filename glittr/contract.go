// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr

import (
	"encoding/json"
	"errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrNoPurchaseMechanism defines that the contract has no purchase mint mechanism configured.
var ErrNoPurchaseMechanism = errors.New("contract has no purchase mint mechanism")

// keyBytes is a byte slice that unmarshals from a JSON array of numbers,
// the wire shape the protocol API uses for embedded public keys.
type keyBytes []byte

// UnmarshalJSON implements json.Unmarshaler.
func (k *keyBytes) UnmarshalJSON(data []byte) error {
	var nums []uint16
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}

	out := make([]byte, len(nums))
	for i, n := range nums {
		if n > 0xff {
			return errors.New("key byte out of range")
		}

		out[i] = byte(n)
	}

	*k = out

	return nil
}

// ContractState holds the contract-creation configuration returned by the
// protocol-state query for a compound identifier.
type ContractState struct {
	Message struct {
		Message struct {
			ContractCreation struct {
				ContractType struct {
					MBA struct {
						MintMechanism struct {
							Purchase *struct {
								PayToKey keyBytes `json:"pay_to_key"`
							} `json:"purchase"`
						} `json:"mint_mechanism"`
					} `json:"mba"`
				} `json:"contract_type"`
			} `json:"contract_creation"`
		} `json:"message"`
	} `json:"message"`
}

// PayToKey returns the public key the purchase mechanism pays to.
func (cs *ContractState) PayToKey() ([]byte, error) {
	purchase := cs.Message.Message.ContractCreation.ContractType.MBA.MintMechanism.Purchase
	if purchase == nil || len(purchase.PayToKey) == 0 {
		return nil, ErrNoPurchaseMechanism
	}

	return purchase.PayToKey, nil
}

// PayToAddress derives the p2pkh payment-target address from the purchase
// mechanism's embedded public key.
func (cs *ContractState) PayToAddress(networkParams *chaincfg.Params) (btcutil.Address, error) {
	key, err := cs.PayToKey()
	if err != nil {
		return nil, err
	}

	return btcutil.NewAddressPubKeyHash(btcutil.Hash160(key), networkParams)
}
