package decoder

import (
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// InitiaHRP is the bech32 human-readable part of Initia addresses.
const InitiaHRP = "init"

// RippleAlphabet is the base58 alphabet used by the XRP Ledger.
var RippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

func encodeDestination(kind types.Kind, address []byte) (*types.Destination, error) {
	switch kind {
	case types.KindSelf:
		return nil, nil
	case types.KindEVM:
		return EncodeEVM(address)
	case types.KindMove:
		return EncodeMove(address)
	case types.KindInitia:
		return EncodeInitia(address), nil
	case types.KindBase58:
		return EncodeBase58(address), nil
	case types.KindXRP:
		return EncodeXRP(address), nil
	default:
		return nil, nil
	}
}

// EncodeEVM renders a 20-byte EVM address as lowercase hex and its EIP-55 form.
func EncodeEVM(address []byte) (*types.Destination, error) {
	if len(address) != EVMAddressLength {
		return nil, types.NewDecodeError(types.ErrCodeAddressLengthMismatch,
			"EVM address must be %d bytes, got %d", EVMAddressLength, len(address))
	}
	return &types.Destination{
		Hex:      utils.BytesToHex(address),
		Checksum: common.BytesToAddress(address).Hex(),
	}, nil
}

// EncodeMove renders a 32-byte Move address as hex.
func EncodeMove(address []byte) (*types.Destination, error) {
	if len(address) != MoveAddressLength {
		return nil, types.NewDecodeError(types.ErrCodeAddressLengthMismatch,
			"MOVE address must be %d bytes, got %d", MoveAddressLength, len(address))
	}
	return &types.Destination{Hex: utils.BytesToHex(address)}, nil
}

// EncodeInitia renders an Initia address as hex and, when possible, bech32.
func EncodeInitia(address []byte) *types.Destination {
	d := &types.Destination{Hex: utils.BytesToHex(address)}
	if s, err := bech32.ConvertAndEncode(InitiaHRP, address); err == nil {
		d.Bech32 = s
	}
	return d
}

// EncodeBase58 renders a base58 address. 32-byte addresses are flagged as
// Solana public keys.
func EncodeBase58(address []byte) *types.Destination {
	d := &types.Destination{
		Hex:        utils.BytesToHex(address),
		SolanaLike: len(address) == solana.PublicKeyLength,
	}
	switch {
	case d.SolanaLike:
		d.Base58 = solana.PublicKeyFromBytes(address).String()
	case len(address) > 0:
		d.Base58 = base58.Encode(address)
	}
	return d
}

// EncodeXRP renders an address in the Ripple base58 alphabet.
func EncodeXRP(address []byte) *types.Destination {
	d := &types.Destination{Hex: utils.BytesToHex(address)}
	if len(address) > 0 {
		d.XRP = base58.EncodeAlphabet(address, RippleAlphabet)
	}
	return d
}
