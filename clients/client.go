package clients

import (
	"context"

	"github.com/vitwit/gaszip/types"
)

// Indexer supplies deposit transactions observed on chain.
type Indexer interface {
	// LatestBlock returns the current chain head.
	LatestBlock(ctx context.Context) (uint64, error)

	// Stream sends every deposit in [from, to] to out in block order and
	// closes out before returning.
	Stream(ctx context.Context, from, to uint64, out chan<- types.Transaction) error

	Close()
}
