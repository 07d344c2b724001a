package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind classifies a decoded deposit payload by its destination address family.
type Kind string

const (
	KindSelf    Kind = "SELF"
	KindEVM     Kind = "EVM"
	KindBase58  Kind = "BASE58"
	KindMove    Kind = "MOVE"
	KindXRP     Kind = "XRP"
	KindInitia  Kind = "INITIA"
	KindUnknown Kind = "UNKNOWN"

	// KindError marks a batch record whose calldata could not be decoded.
	// Decode itself never returns it.
	KindError Kind = "ERROR"
)

// Prefix bytes selecting the destination address family.
const (
	PrefixSelf   byte = 0x01
	PrefixEVM    byte = 0x02
	PrefixBase58 byte = 0x03
	PrefixMove   byte = 0x04
	PrefixXRP    byte = 0x05
	PrefixInitia byte = 0x06
)

// KindForPrefix maps a prefix byte to its Kind. Unrecognized prefixes map to KindUnknown.
func KindForPrefix(prefix byte) Kind {
	switch prefix {
	case PrefixSelf:
		return KindSelf
	case PrefixEVM:
		return KindEVM
	case PrefixBase58:
		return KindBase58
	case PrefixMove:
		return KindMove
	case PrefixXRP:
		return KindXRP
	case PrefixInitia:
		return KindInitia
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	return string(k)
}

// DecodedPayload is the result of decoding one deposit calldata.
type DecodedPayload struct {
	// Kind of destination address family selected by the prefix byte.
	Kind Kind `json:"kind"`

	// Raw echoes the calldata that was decoded.
	Raw string `json:"raw"`

	// PrefixHex is the prefix byte as two lowercase hex characters.
	PrefixHex string `json:"prefixHex"`

	// Destination is nil for SELF and UNKNOWN payloads.
	Destination *Destination `json:"destination,omitempty"`

	// ChainIDs in the order they appear on the wire. Duplicates are kept.
	ChainIDs []ChainIDEntry `json:"chainIds"`

	// Leftover holds bytes no decode path consumed. Only UNKNOWN payloads
	// populate it, with the full body after the prefix.
	Leftover hexutil.Bytes `json:"leftover,omitempty"`
}

// Destination carries the family-specific renderings of the address bytes.
// Text fields that could not be produced are left empty.
type Destination struct {
	Hex        string `json:"hex,omitempty"`
	Checksum   string `json:"checksum,omitempty"` // EIP-55, EVM only
	Base58     string `json:"base58,omitempty"`
	Bech32     string `json:"bech32,omitempty"`
	XRP        string `json:"xrp,omitempty"`
	SolanaLike bool   `json:"solanaLike,omitempty"`
}

// ChainIDEntry is a protocol chain id annotated from the chain registry.
type ChainIDEntry struct {
	ID       uint16  `json:"id"`
	Name     *string `json:"name,omitempty"`
	NativeID *uint64 `json:"nativeId,omitempty"`
}

// Known reports whether the registry supplied metadata for the id.
func (e ChainIDEntry) Known() bool {
	return e.Name != nil
}

// Transaction is one deposit observed on chain, as supplied by an indexer.
type Transaction struct {
	BlockNumber uint64    `json:"blockNumber"`
	Timestamp   time.Time `json:"timestamp"`
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Value       string    `json:"value"` // wei, base 10
	Input       string    `json:"input"` // hex calldata, "0x" for value-only transfers
}

// Record is one output row of a batch scan.
type Record struct {
	Transaction Transaction     `json:"transaction"`
	Kind        Kind            `json:"kind"`
	Payload     *DecodedPayload `json:"payload,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ScanConfig contains the configuration of a batch scan.
type ScanConfig struct {
	RPCUrl         string        `json:"rpcUrl" mapstructure:"rpc_url" validate:"required,url"`
	Contract       string        `json:"contract" mapstructure:"contract" validate:"required,eth_addr"`
	FromBlock      uint64        `json:"fromBlock" mapstructure:"from_block"`
	ToBlock        uint64        `json:"toBlock" mapstructure:"to_block" validate:"omitempty,gtefield=FromBlock"`
	WindowSize     uint64        `json:"windowSize,omitempty" mapstructure:"window_size" validate:"omitempty,min=1,max=100000"`
	Workers        int           `json:"workers,omitempty" mapstructure:"workers" validate:"omitempty,min=1,max=64"`
	RetryCount     *int          `json:"retryCount,omitempty" mapstructure:"retry_count" validate:"omitempty,min=0,max=20"` // nil means DefaultRetryCount, 0 disables retries
	RequestTimeout time.Duration `json:"requestTimeout,omitempty" mapstructure:"request_timeout"`
	LogLevel       string        `json:"logLevel,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Output         string        `json:"output,omitempty" mapstructure:"output"`
	MetricsAddr    string        `json:"metricsAddr,omitempty" mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
	RegistryFile   string        `json:"registryFile,omitempty" mapstructure:"registry_file" validate:"omitempty,file"`
}

// Defaults applied to zero-valued ScanConfig fields.
const (
	DefaultWindowSize     uint64        = 500
	DefaultWorkers                      = 4
	DefaultRetryCount                   = 3
	DefaultRequestTimeout time.Duration = 30 * time.Second
)

// WithDefaults returns a copy of c with zero-valued tunables filled in.
func (c ScanConfig) WithDefaults() ScanConfig {
	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.RetryCount == nil {
		n := DefaultRetryCount
		c.RetryCount = &n
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
