package decoder

import (
	"fmt"

	"github.com/vitwit/gaszip/registry"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// Decoder decodes calldata against a chain registry.
type Decoder struct {
	registry *registry.Registry
}

// New returns a Decoder using reg, or the embedded registry when reg is nil.
func New(reg *registry.Registry) *Decoder {
	if reg == nil {
		reg = registry.Default()
	}
	return &Decoder{registry: reg}
}

// Registry returns the registry used for chain id lookups.
func (d *Decoder) Registry() *registry.Registry {
	return d.registry
}

// Decode decodes hex calldata. It returns a complete payload or a
// *types.DecodeError, never both.
func (d *Decoder) Decode(raw string) (*types.DecodedPayload, error) {
	data, err := utils.HexToBytes(raw)
	if err != nil {
		return nil, err
	}

	payload, err := d.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	payload.Raw = raw
	return payload, nil
}

// DecodeBytes decodes raw calldata bytes. Raw in the result is the
// lowercase hex form of data.
func (d *Decoder) DecodeBytes(data []byte) (*types.DecodedPayload, error) {
	if len(data) == 0 {
		return nil, types.ErrEmptyCalldata
	}

	prefix, body := data[0], data[1:]
	kind := types.KindForPrefix(prefix)

	payload := &types.DecodedPayload{
		Kind:      kind,
		Raw:       utils.BytesToHex(data),
		PrefixHex: fmt.Sprintf("%02x", prefix),
		ChainIDs:  []types.ChainIDEntry{},
	}

	if kind == types.KindUnknown {
		payload.Leftover = append([]byte{}, body...)
		return payload, nil
	}

	address, ids, err := Split(prefix, body, d.registry)
	if err != nil {
		return nil, err
	}

	destination, err := encodeDestination(kind, address)
	if err != nil {
		return nil, err
	}

	payload.Destination = destination
	payload.ChainIDs = Annotate(ids, d.registry)
	return payload, nil
}

// Annotate attaches registry metadata to each id. Unregistered ids are kept
// with no name or native id.
func Annotate(ids []uint16, reg *registry.Registry) []types.ChainIDEntry {
	entries := make([]types.ChainIDEntry, len(ids))
	for i, id := range ids {
		entries[i] = types.ChainIDEntry{ID: id}

		chain, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		name := chain.Name
		entries[i].Name = &name
		if chain.HasNativeID() {
			nativeID := chain.NativeID
			entries[i].NativeID = &nativeID
		}
	}
	return entries
}
