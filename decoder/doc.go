// Package decoder decodes deposit calldata into a destination address and the
// list of protocol chain ids that should receive funds.
//
// Calldata is laid out as
//
//	prefix (1 byte) | address (fixed or variable length) | chain id (uint16 BE) ...
//
// The prefix selects the address family. SELF, EVM, MOVE and INITIA addresses
// have a fixed length, so the trailing chain id list is unambiguous. BASE58
// addresses of exactly 32 bytes are split the same way. Other BASE58 payloads
// and all XRP payloads carry a variable-length address with no delimiter, and
// the boundary is found by scanning chain ids backwards from the end of the
// body while they are known to the registry. That scan is a best-effort parse:
// trailing address bytes that happen to match a registered id are taken as a
// chain id, and an unregistered chain id stops the scan early and is left in
// the address. Both produce a well-formed but wrong split, and no decoder can
// tell the difference from the bytes alone.
//
// Decoding is pure. A Decoder only reads its registry and may be shared
// between goroutines.
package decoder
