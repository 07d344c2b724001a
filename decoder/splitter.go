package decoder

import (
	"github.com/vitwit/gaszip/registry"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// Address lengths of the fixed-length families.
const (
	SelfAddressLength   = 0
	EVMAddressLength    = 20
	MoveAddressLength   = 32
	InitiaAddressLength = 20

	// SolanaAddressLength is the BASE58 length split without the heuristic.
	SolanaAddressLength = 32
)

// FixedAddressLength returns the address length for prefixes that have one.
func FixedAddressLength(prefix byte) (int, bool) {
	switch prefix {
	case types.PrefixSelf:
		return SelfAddressLength, true
	case types.PrefixEVM:
		return EVMAddressLength, true
	case types.PrefixMove:
		return MoveAddressLength, true
	case types.PrefixInitia:
		return InitiaAddressLength, true
	default:
		return 0, false
	}
}

// Split separates body into address bytes and the trailing chain id list,
// in wire order. prefix must be one of the known prefixes.
func Split(prefix byte, body []byte, reg *registry.Registry) ([]byte, []uint16, error) {
	if n, ok := FixedAddressLength(prefix); ok {
		if len(body) < n {
			return nil, nil, types.NewDecodeError(types.ErrCodeAddressLengthMismatch,
				"%s address requires %d bytes, got %d", types.KindForPrefix(prefix), n, len(body))
		}
		ids, err := parseChainTail(body[n:])
		if err != nil {
			return nil, nil, err
		}
		return body[:n], ids, nil
	}

	if prefix == types.PrefixBase58 && len(body) >= SolanaAddressLength && (len(body)-SolanaAddressLength)%2 == 0 {
		ids, err := parseChainTail(body[SolanaAddressLength:])
		if err != nil {
			return nil, nil, err
		}
		return body[:SolanaAddressLength], ids, nil
	}

	address, ids := splitVariable(body, reg)
	return address, ids, nil
}

func parseChainTail(tail []byte) ([]uint16, error) {
	if len(tail)%2 != 0 {
		return nil, types.NewDecodeError(types.ErrCodeMalformedChainTail,
			"chain id tail has odd length %d", len(tail))
	}

	ids := make([]uint16, 0, len(tail)/2)
	for i := 0; i < len(tail); i += 2 {
		ids = append(ids, utils.ReadUint16BE(tail, i))
	}
	return ids, nil
}

// splitVariable walks body backwards two bytes at a time. The last pair is
// always taken as a chain id; earlier pairs are taken while registered.
// At least one byte is always left for the address.
func splitVariable(body []byte, reg *registry.Registry) ([]byte, []uint16) {
	var reversed []uint16
	end := len(body)

	for end-2 >= 1 {
		v := utils.ReadUint16BE(body, end-2)
		if len(reversed) > 0 && !reg.Has(v) {
			break
		}
		reversed = append(reversed, v)
		end -= 2
	}

	ids := make([]uint16, len(reversed))
	for i, v := range reversed {
		ids[len(reversed)-1-i] = v
	}
	return body[:end], ids
}
