package utils

import (
	"encoding/binary"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vitwit/gaszip/types"
)

// HexToBytes decodes a hex string with an optional 0x prefix.
func HexToBytes(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, types.NewDecodeError(types.ErrCodeInvalidHexEncoding, "invalid hex encoding: %v", err)
	}
	return b, nil
}

// BytesToHex encodes b as lowercase 0x-prefixed hex. An empty input yields "0x".
func BytesToHex(b []byte) string {
	return hexutil.Encode(b)
}

// ReadUint16BE reads a big-endian uint16 at offset. The caller guarantees
// offset+1 < len(b).
func ReadUint16BE(b []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(b[offset : offset+2])
}
