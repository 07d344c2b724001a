// Package gaszip decodes the calldata of gas-delivery deposit transactions
// into a destination address and the chains that should be refuelled.
package gaszip

import (
	"sync"
	"time"

	"github.com/vitwit/gaszip/decoder"
	"github.com/vitwit/gaszip/logger"
	"github.com/vitwit/gaszip/metrics"
	"github.com/vitwit/gaszip/registry"
	"github.com/vitwit/gaszip/types"
)

// GasZip is the main entry point. It is safe for concurrent use.
type GasZip struct {
	decoder  *decoder.Decoder
	registry *registry.Registry
	logger   logger.Logger
	metrics  metrics.Recorder
}

// New creates a GasZip with the given options. Without options it uses the
// embedded chain registry and discards logs and metrics.
func New(opts ...Option) *GasZip {
	g := &GasZip{
		logger:  logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = registry.Default()
	}
	g.decoder = decoder.New(g.registry)
	return g
}

// NewWithDefaults creates a GasZip with the embedded registry.
func NewWithDefaults() *GasZip {
	return New()
}

// Decode decodes one hex calldata string.
func (g *GasZip) Decode(raw string) (*types.DecodedPayload, error) {
	start := time.Now()
	payload, err := g.decoder.Decode(raw)
	elapsed := time.Since(start)

	if err != nil {
		g.metrics.IncCounter(metrics.EventDecodeError, map[string]string{"kind": types.CodeOf(err)})
		g.logger.Debug("decode failed", map[string]any{"raw": raw, "error": err})
		return nil, err
	}

	labels := map[string]string{"kind": payload.Kind.String()}
	g.metrics.IncCounter(metrics.EventDecode, labels)
	g.metrics.ObserveLatency(metrics.OpDecode, elapsed, labels)
	if payload.Kind == types.KindUnknown {
		g.logger.Warn("unknown calldata prefix", map[string]any{"prefix": payload.PrefixHex})
	}
	return payload, nil
}

// Result pairs a batch input's payload with its error.
type Result struct {
	Payload *types.DecodedPayload
	Err     error
}

// DecodeBatch decodes raws concurrently. Results are in input order and a
// failing input does not affect the others.
func (g *GasZip) DecodeBatch(raws []string) []Result {
	results := make([]Result, len(raws))

	var wg sync.WaitGroup
	for i, raw := range raws {
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			payload, err := g.Decode(raw)
			results[i] = Result{Payload: payload, Err: err}
		}(i, raw)
	}
	wg.Wait()

	return results
}

// Registry returns the chain registry used for annotation.
func (g *GasZip) Registry() *registry.Registry {
	return g.registry
}

// Version information
const (
	Version = "1.0.0"
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"library_version": Version,
		"supported_kinds": []types.Kind{
			types.KindSelf,
			types.KindEVM,
			types.KindBase58,
			types.KindMove,
			types.KindXRP,
			types.KindInitia,
		},
		"chains": registry.Default().Len(),
	}
}
