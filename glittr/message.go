// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package glittr

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/aviate-labs/leb128"
	"github.com/btcsuite/btcd/txscript"

	"glittrmint/internal/sequencereader"
)

// Tag defines tag type for marker message payload fields.
type Tag byte

const (
	// TagContract defines the contract identifier tag. Emitted twice,
	// once for the block and once for the transaction index.
	TagContract Tag = 2
	// TagMintPointer defines the mint call tag, its value is the index
	// of the output that receives the minted units.
	TagMintPointer Tag = 4
)

// markerMagic is the opcode that separates glittr marker outputs from
// other OP_RETURN usages, including the rune protocol's OP_13.
const markerMagic = txscript.OP_15

// ErrMalformedMessage defines that the payload violates the marker message format.
var ErrMalformedMessage = errors.New("malformed marker message")

// ErrTruncatedMessage defines that the payload misses required fields.
var ErrTruncatedMessage = errors.New("truncated marker message")

// BigInt returns Tag as big.Int.
func (t Tag) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(t))
}

// MintCall describes a purchase-mint invocation of a contract.
type MintCall struct {
	// Pointer is the output index the protocol credits minted units to.
	Pointer uint32
}

// ContractCall is the contract instruction carried by a marker output.
type ContractCall struct {
	Contract BlockTx
	Mint     *MintCall
}

// Message abstractly defines the instruction embedded into a protocol-marker output.
type Message struct {
	ContractCall *ContractCall
}

// NewMintMessage returns contract-call message minting to the given output index.
func NewMintMessage(contract BlockTx, pointer uint32) *Message {
	return &Message{
		ContractCall: &ContractCall{
			Contract: contract,
			Mint:     &MintCall{Pointer: pointer},
		},
	}
}

// IntoScript returns Message as protocol-marker script bytes.
func (message *Message) IntoScript() ([]byte, error) {
	payload, err := message.Serialize()
	if err != nil {
		return nil, err
	}

	payloadSize := len(payload)
	if payloadSize < txscript.OP_DATA_1 || payloadSize > txscript.OP_DATA_75 {
		return nil, errors.New("payload is out of PUSH_DATA bounds")
	}

	// OP_RETURN + magic + OP_PUSH_<num> + payload.
	return append([]byte{txscript.OP_RETURN, markerMagic, byte(payloadSize)}, payload...), nil
}

// Serialize returns Message payload as bytes array.
func (message *Message) Serialize() ([]byte, error) {
	if message.ContractCall == nil {
		return nil, ErrTruncatedMessage
	}

	sequence := make([]*big.Int, 0, 6)
	for _, val := range message.ContractCall.Contract.ToIntSeq() {
		sequence = append(sequence, TagContract.BigInt(), val)
	}

	if message.ContractCall.Mint != nil {
		sequence = append(sequence, TagMintPointer.BigInt(), big.NewInt(int64(message.ContractCall.Mint.Pointer)))
	}

	return intSequenceIntoPayload(sequence)
}

// ParseMessage parses Message from marker script bytes.
func ParseMessage(script []byte) (*Message, error) {
	payload, err := preparePayload(script)
	if err != nil {
		return nil, err
	}

	sequence, err := payloadIntoIntSequence(payload)
	if err != nil {
		return nil, err
	}

	var (
		sr       = sequencereader.New(sequence)
		call     = &ContractCall{}
		contract = make([]*big.Int, 0, 2)
	)
	for sr.HasNext() {
		tagBigInt, _ := sr.Next() // skip error due to loop condition check.

		value, err := sr.Next()
		if err != nil {
			return nil, ErrTruncatedMessage
		}

		switch Tag(tagBigInt.Uint64()) {
		case TagContract:
			contract = append(contract, value)
		case TagMintPointer:
			call.Mint = &MintCall{Pointer: uint32(value.Uint64())}
		default:
			return nil, ErrMalformedMessage
		}
	}

	if len(contract) != 2 {
		return nil, ErrMalformedMessage
	}

	call.Contract = BlockTx{Block: contract[0].Uint64(), Tx: uint32(contract[1].Uint64())}

	return &Message{ContractCall: call}, nil
}

// IsPossibleMarker returns true if the script starts with the protocol bytes sequence.
func IsPossibleMarker(script []byte) bool {
	switch {
	case len(script) < 4: // OP_RETURN + magic + OP_PUSH_<num> + data(at least 1 byte).
		return false
	case script[0] != txscript.OP_RETURN:
		return false
	case script[1] != markerMagic:
		return false
	case script[2] < txscript.OP_DATA_1 || script[2] > txscript.OP_DATA_75:
		return false
	}

	return true
}

// preparePayload validates raw marker script, removes OP_<...> bytes,
// returns collected data from OP_PUSH_<...> commands.
func preparePayload(rawPayload []byte) ([]byte, error) {
	if !IsPossibleMarker(rawPayload) {
		return nil, ErrMalformedMessage
	}

	payload := make([]byte, 0, len(rawPayload)-3)
	buffer := bytes.NewReader(rawPayload[2:])
	for buffer.Len() > 0 {
		op, err := buffer.ReadByte()
		if err != nil {
			return nil, err
		}

		if op < txscript.OP_DATA_1 || op > txscript.OP_DATA_75 {
			return nil, errors.New("missing OP_DATA_<num>")
		}

		data := make([]byte, op)
		_, err = buffer.Read(data)
		if err != nil {
			return nil, err
		}

		payload = append(payload, data...)
	}

	return payload, nil
}

// payloadIntoIntSequence decodes payload in LEB128 into integer sequence.
func payloadIntoIntSequence(payload []byte) ([]*big.Int, error) {
	sequence := make([]*big.Int, 0)
	data := bytes.NewReader(payload)
	for data.Len() > 0 {
		num, err := leb128.DecodeUnsigned(data)
		if err != nil {
			return nil, err
		}

		sequence = append(sequence, num)
	}

	return sequence, nil
}

// intSequenceIntoPayload encodes integer sequence into payload in LEB128.
func intSequenceIntoPayload(sequence []*big.Int) ([]byte, error) {
	payload := make([]byte, 0)
	for _, num := range sequence {
		bytes, err := leb128.EncodeUnsigned(num)
		if err != nil {
			return nil, err
		}

		payload = append(payload, bytes...)
	}

	return payload, nil
}
