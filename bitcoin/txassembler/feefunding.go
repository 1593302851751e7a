// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package txassembler

import (
	"errors"
	"math/big"

	"glittrmint/bitcoin"
	"glittrmint/internal/numbers"
)

var (
	// headerSizeVBytes defined rough tx header size in vBytes.
	headerSizeVBytes = big.NewInt(11)
	// inputSizeVBytes defined rough tx input size in vBytes.
	inputSizeVBytes = big.NewInt(90)
	// outputSizeVBytes defined rough tx output size in vBytes.
	outputSizeVBytes = big.NewInt(30)

	// DustAmount defines the smallest satoshi value allowed for a spendable output.
	DustAmount = big.NewInt(546)
)

// FundParams describes data needed to fee-fund an output set.
type FundParams struct {
	PayerAddress     string
	UTXOs            []bitcoin.UTXO     // spendable utxos, must be sorted by btc amount desc.
	Inputs           []bitcoin.UTXO     // caller-required inputs, possibly empty.
	Outputs          []bitcoin.TxOutput // order is preserved as a prefix of the result.
	SatoshiPerKVByte *big.Int           // fee rate in satoshi per kilo virtual byte.
}

// FundOutputs selects additional inputs and appends a change output when
// needed, so that total input value covers the outputs plus network fee.
// Caller-supplied inputs and outputs keep their positions: inputs as a prefix
// of the input list, outputs as a prefix of the output list.
// Returns final inputs, final outputs, estimated fee, and error if any.
func FundOutputs(params FundParams) ([]*bitcoin.UTXO, []bitcoin.TxOutput, *big.Int, error) {
	var (
		satFn        = func(u *bitcoin.UTXO) *big.Int { return u.Amount }
		requiredSats = big.NewInt(0)
	)
	for _, out := range params.Outputs {
		requiredSats.Add(requiredSats, out.Value)
	}
	for _, in := range params.Inputs {
		requiredSats.Sub(requiredSats, in.Amount)
	}
	if numbers.IsNegative(requiredSats) {
		requiredSats.Set(numbers.ZeroBigInt)
	}

	for i := 1; i <= len(params.UTXOs); i++ {
		// extra output slot is reserved for change. vB * ( sat / kvB ) = 1000 sat.
		fee := new(big.Int).Mul(RoughTxSizeEstimate(i+len(params.Inputs), len(params.Outputs)+1), params.SatoshiPerKVByte)
		fee.Div(fee, big.NewInt(1000)) // sat.

		selected, totalAmount, err := SelectUTXO(params.UTXOs, satFn, new(big.Int).Add(fee, requiredSats), i, bitcoin.ErrInsufficientNativeBalance)
		if err != nil {
			if errors.Is(err, bitcoin.ErrInsufficientNativeBalance) {
				continue
			}

			return nil, nil, nil, err
		}

		inputs := make([]*bitcoin.UTXO, 0, len(params.Inputs)+len(selected))
		for idx := range params.Inputs {
			inputs = append(inputs, &params.Inputs[idx])
		}
		inputs = append(inputs, selected...)

		outputs := make([]bitcoin.TxOutput, len(params.Outputs), len(params.Outputs)+1)
		copy(outputs, params.Outputs)

		change := new(big.Int).Sub(totalAmount, requiredSats)
		change.Sub(change, fee)
		if numbers.IsGreater(change, DustAmount) {
			outputs = append(outputs, bitcoin.NewAddressOutput(params.PayerAddress, change))
		} else {
			// remainder below dust goes to fee.
			fee.Add(fee, change)
		}

		return inputs, outputs, fee, nil
	}

	available := big.NewInt(0)
	for idx := range params.UTXOs {
		available.Add(available, params.UTXOs[idx].Amount)
	}

	return nil, nil, nil, NewInsufficientError(requiredSats, available)
}

// RoughTxSizeEstimate returns Tx rough estimated size in vBytes.
func RoughTxSizeEstimate(inputs, outputs int) *big.Int {
	size := new(big.Int).Set(headerSizeVBytes)
	size.Add(size, new(big.Int).Mul(inputSizeVBytes, big.NewInt(int64(inputs))))
	size.Add(size, new(big.Int).Mul(outputSizeVBytes, big.NewInt(int64(outputs))))

	return size
}

// SelectUTXO is a partly greedy selection algorithm for UTXOs with 'requiredUTXOs' parameter.
// Returns list of selected by algorithm UTXOs with total amount, counted by passed amount function.
func SelectUTXO(utxos []bitcoin.UTXO, amountFn func(*bitcoin.UTXO) *big.Int, minAmount *big.Int, requiredUTXOs int,
	insufficientBalanceError error) (usedUTXOs []*bitcoin.UTXO, totalAmount *big.Int, _ error) {
	if len(utxos) < requiredUTXOs {
		return nil, nil, bitcoin.ErrInvalidUTXOAmount
	}

	usedUTXOs = make([]*bitcoin.UTXO, 0, requiredUTXOs)
	totalAmount = big.NewInt(0)
	var startIdx = 0
	var usedIdxs = make([]int, 0)

	// find the closest by amount UTXO that is grater then minAmount or take the biggest possible.
	for idx, utxo := range utxos {
		if numbers.IsGreater(minAmount, amountFn(&utxo)) {
			break
		}

		startIdx = idx
	}

	usedIdxs = append(usedIdxs, startIdx)
	totalAmount.Add(totalAmount, amountFn(&utxos[startIdx]))
	usedUTXOs = append(usedUTXOs, &utxos[startIdx])
	requiredUTXOs--

	// pick bigger amount if total amount do not cover minAmount, otherwise - the smallest to pass requiredUTXOs.
	for ; requiredUTXOs > 0; requiredUTXOs-- {
		idx := selectUnused(startIdx, len(utxos), usedIdxs, !numbers.IsGreater(minAmount, totalAmount))
		if idx == -1 {
			return nil, nil, bitcoin.ErrInvalidUTXOAmount
		}

		usedIdxs = append(usedIdxs, idx)
		totalAmount.Add(totalAmount, amountFn(&utxos[idx]))
		usedUTXOs = append(usedUTXOs, &utxos[idx])
	}

	if numbers.IsGreater(minAmount, totalAmount) {
		return nil, nil, insufficientBalanceError
	}

	return usedUTXOs, totalAmount, nil
}

// selectUnused returns first unused idx depending on search direction.
func selectUnused(start, end int, usedIdxs []int, reversed bool) int {
	if reversed {
		for idx := end - 1; idx >= start; idx-- {
			if !isUsed(idx, usedIdxs) {
				return idx
			}
		}
	} else {
		for idx := start; idx < end; idx++ {
			if !isUsed(idx, usedIdxs) {
				return idx
			}
		}
	}

	return -1
}

// isUsed returns true id idx is in usedIdxs.
func isUsed(idx int, usedIdxs []int) bool {
	for _, used := range usedIdxs {
		if used == idx {
			return true
		}
	}

	return false
}
