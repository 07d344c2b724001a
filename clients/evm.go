package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/errgroup"

	"github.com/vitwit/gaszip/logger"
	"github.com/vitwit/gaszip/metrics"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// BlockSource is the subset of *rpc.Client used by EVMIndexer.
type BlockSource interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
	Close()
}

var _ BlockSource = (*rpc.Client)(nil)

var errBlockNotFound = errors.New("block not found")

// rpcBlock holds the fields of an eth_getBlockByNumber result that a scan
// reads. Transactions are decoded field by field so that chain-specific
// types (OP-stack deposits, Arbitrum system txs) never fail the block.
type rpcBlock struct {
	Number       hexutil.Uint64   `json:"number"`
	Timestamp    hexutil.Uint64   `json:"timestamp"`
	Transactions []rpcTransaction `json:"transactions"`
}

type rpcTransaction struct {
	Hash  common.Hash     `json:"hash"`
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value *hexutil.Big    `json:"value"`
	Input hexutil.Bytes   `json:"input"`
}

// EVMIndexer scans blocks over JSON-RPC for transactions sent to the deposit
// contract.
type EVMIndexer struct {
	source     BlockSource
	contract   common.Address
	windowSize uint64
	workers    int
	attempts   uint
	timeout    time.Duration
	retryDelay time.Duration
	logger     logger.Logger
	metrics    metrics.Recorder
}

var _ Indexer = (*EVMIndexer)(nil)

type Option func(*EVMIndexer)

func WithLogger(l logger.Logger) Option {
	return func(e *EVMIndexer) {
		e.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(e *EVMIndexer) {
		e.metrics = r
	}
}

// WithRetryDelay sets the base delay between retries of a failed request.
func WithRetryDelay(d time.Duration) Option {
	return func(e *EVMIndexer) {
		e.retryDelay = d
	}
}

// NewEVMIndexer dials the configured RPC endpoint.
func NewEVMIndexer(cfg types.ScanConfig, opts ...Option) (*EVMIndexer, error) {
	client, err := rpc.Dial(cfg.RPCUrl)
	if err != nil {
		return nil, networkError(err, "failed to dial %s", cfg.RPCUrl)
	}

	e, err := NewEVMIndexerFromSource(client, cfg, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	return e, nil
}

// NewEVMIndexerFromSource builds an indexer over an existing block source.
func NewEVMIndexerFromSource(source BlockSource, cfg types.ScanConfig, opts ...Option) (*EVMIndexer, error) {
	if err := utils.ValidateContractAddress(cfg.Contract); err != nil {
		return nil, configError(err, "invalid deposit contract address %q", cfg.Contract)
	}
	cfg = cfg.WithDefaults()

	e := &EVMIndexer{
		source:     source,
		contract:   common.HexToAddress(cfg.Contract),
		windowSize: cfg.WindowSize,
		workers:    cfg.Workers,
		attempts:   uint(*cfg.RetryCount) + 1,
		timeout:    cfg.RequestTimeout,
		retryDelay: 500 * time.Millisecond,
		logger:     logger.NoopLogger{},
		metrics:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LatestBlock returns the current chain head.
func (e *EVMIndexer) LatestBlock(ctx context.Context) (uint64, error) {
	var head hexutil.Uint64
	err := e.retry(ctx, func(ctx context.Context) error {
		return e.source.CallContext(ctx, &head, "eth_blockNumber")
	})
	if err != nil {
		return 0, networkError(err, "failed to fetch latest block")
	}
	return uint64(head), nil
}

// Stream sends every transaction to the deposit contract in [from, to] to
// out, in block and transaction order. Blocks within a window are fetched
// concurrently.
func (e *EVMIndexer) Stream(ctx context.Context, from, to uint64, out chan<- types.Transaction) error {
	defer close(out)

	windows, err := Windows(from, to, e.windowSize)
	if err != nil {
		return err
	}

	for _, w := range windows {
		e.logger.Debug("fetching window", map[string]any{"from": w.From, "to": w.To})

		blocks, err := e.fetchWindow(ctx, w)
		if err != nil {
			return err
		}

		for _, block := range blocks {
			for _, tx := range e.deposits(block) {
				select {
				case out <- tx:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

func (e *EVMIndexer) fetchWindow(ctx context.Context, w Window) ([]*rpcBlock, error) {
	blocks := make([]*rpcBlock, w.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range blocks {
		i := i
		number := w.From + uint64(i)
		g.Go(func() error {
			block, err := e.fetchBlock(gctx, number)
			if err != nil {
				return err
			}
			blocks[i] = block
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (e *EVMIndexer) fetchBlock(ctx context.Context, number uint64) (*rpcBlock, error) {
	start := time.Now()

	var block *rpcBlock
	err := e.retry(ctx, func(ctx context.Context) error {
		block = nil
		if err := e.source.CallContext(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(number), true); err != nil {
			return err
		}
		if block == nil {
			return errBlockNotFound
		}
		return nil
	})
	e.metrics.ObserveLatency(metrics.OpFetchBlock, time.Since(start), nil)
	if err != nil {
		e.metrics.IncCounter(metrics.EventFetchError, nil)
		return nil, networkError(err, "failed to fetch block %d", number)
	}
	return block, nil
}

func (e *EVMIndexer) deposits(block *rpcBlock) []types.Transaction {
	var out []types.Transaction
	for _, tx := range block.Transactions {
		if tx.To == nil || *tx.To != e.contract {
			continue
		}

		value := "0"
		if tx.Value != nil {
			value = tx.Value.ToInt().String()
		}

		out = append(out, types.Transaction{
			BlockNumber: uint64(block.Number),
			Timestamp:   time.Unix(int64(block.Timestamp), 0).UTC(),
			Hash:        tx.Hash.Hex(),
			From:        strings.ToLower(tx.From.Hex()),
			To:          strings.ToLower(tx.To.Hex()),
			Value:       value,
			Input:       hexutil.Encode(tx.Input),
		})
	}
	return out
}

func (e *EVMIndexer) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			return fn(rctx)
		},
		retry.Context(ctx),
		retry.Attempts(e.attempts),
		retry.Delay(e.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			e.logger.Debug("retrying rpc request", map[string]any{"attempt": n + 1, "error": err})
		}),
	)
}

func (e *EVMIndexer) Close() {
	e.source.Close()
}
