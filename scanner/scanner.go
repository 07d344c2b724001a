// Package scanner runs deposit transactions from an indexer through the
// decoder and hands one record per transaction to a writer.
package scanner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vitwit/gaszip/clients"
	"github.com/vitwit/gaszip/export"
	"github.com/vitwit/gaszip/logger"
	"github.com/vitwit/gaszip/metrics"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// Decoder decodes one hex calldata string.
type Decoder interface {
	Decode(raw string) (*types.DecodedPayload, error)
}

// Service scans a block range and records every deposit it finds.
type Service struct {
	decoder Decoder
	indexer clients.Indexer
	writer  export.RecordWriter
	logger  logger.Logger
	metrics metrics.Recorder
	buffer  int
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = r
	}
}

// WithBuffer sets how many fetched transactions may wait for decoding.
func WithBuffer(n int) Option {
	return func(s *Service) {
		s.buffer = n
	}
}

func NewService(d Decoder, idx clients.Indexer, w export.RecordWriter, opts ...Option) *Service {
	s := &Service{
		decoder: d,
		indexer: idx,
		writer:  w,
		logger:  logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
		buffer:  256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary counts what a scan saw.
type Summary struct {
	FromBlock    uint64             `json:"fromBlock"`
	ToBlock      uint64             `json:"toBlock"`
	Transactions int                `json:"transactions"`
	Decoded      int                `json:"decoded"`
	Failed       int                `json:"failed"`
	ByKind       map[types.Kind]int `json:"byKind"`
}

// Run scans [from, to]. A zero to scans up to the current head. Decode
// failures are recorded and never stop the scan; fetch and write failures
// do. The writer is flushed in either case and the summary covers every
// record written.
func (s *Service) Run(ctx context.Context, from, to uint64) (*Summary, error) {
	if to == 0 {
		head, err := s.indexer.LatestBlock(ctx)
		if err != nil {
			return nil, err
		}
		to = head
	}

	summary := &Summary{FromBlock: from, ToBlock: to, ByKind: map[types.Kind]int{}}
	s.logger.Info("scan started", map[string]any{"from": from, "to": to})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	txs := make(chan types.Transaction, s.buffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.indexer.Stream(gctx, from, to, txs)
	})

	var writeErr error
	for tx := range txs {
		rec := s.Process(tx)
		if err := s.writer.Write(rec); err != nil {
			writeErr = fmt.Errorf("failed to write record for %s: %w", tx.Hash, err)
			cancel()
			break
		}
		summary.add(rec)
		s.metrics.IncCounter(metrics.EventRowWritten, map[string]string{"kind": rec.Kind.String()})
	}
	// Unblock the stream if the loop exited early.
	for range txs {
	}

	streamErr := g.Wait()
	flushErr := s.writer.Flush()

	switch {
	case writeErr != nil:
		return summary, writeErr
	case streamErr != nil:
		return summary, streamErr
	case flushErr != nil:
		return summary, fmt.Errorf("failed to flush records: %w", flushErr)
	}

	s.logger.Info("scan finished", map[string]any{
		"transactions": summary.Transactions,
		"decoded":      summary.Decoded,
		"failed":       summary.Failed,
	})
	return summary, nil
}

// Process decodes one transaction into a record.
func (s *Service) Process(tx types.Transaction) types.Record {
	if utils.IsEmptyCalldata(tx.Input) {
		return BuildRecord(tx, nil, types.ErrEmptyCalldata)
	}

	payload, err := s.decoder.Decode(tx.Input)
	if err != nil {
		s.logger.Warn("failed to decode deposit", map[string]any{
			"tx":    tx.Hash,
			"block": tx.BlockNumber,
			"error": err,
		})
	}
	return BuildRecord(tx, payload, err)
}

// BuildRecord assembles a record. A non-nil err takes precedence over payload.
func BuildRecord(tx types.Transaction, payload *types.DecodedPayload, err error) types.Record {
	if err != nil {
		return types.Record{Transaction: tx, Kind: types.KindError, Error: err.Error()}
	}
	return types.Record{Transaction: tx, Kind: payload.Kind, Payload: payload}
}

func (s *Summary) add(rec types.Record) {
	s.Transactions++
	s.ByKind[rec.Kind]++
	if rec.Kind == types.KindError {
		s.Failed++
	} else {
		s.Decoded++
	}
}
