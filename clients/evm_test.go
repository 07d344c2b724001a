package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/gaszip/types"
)

const (
	testContract = "0x391e7c679d29bd940d63be94ad22a25d25b5a604"
	otherAddress = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	testSender   = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
)

// fakeSource answers eth_blockNumber and eth_getBlockByNumber from memory,
// round-tripping results through JSON the way rpc.Client does.
type fakeSource struct {
	mu       sync.Mutex
	blocks   map[uint64]map[string]any
	head     uint64
	failures map[uint64]int // remaining failures per block
	calls    map[uint64]int
	closed   bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		blocks:   map[uint64]map[string]any{},
		failures: map[uint64]int{},
		calls:    map[uint64]int{},
	}
}

func (f *fakeSource) CallContext(_ context.Context, result any, method string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var resp any
	switch method {
	case "eth_blockNumber":
		resp = hexutil.EncodeUint64(f.head)
	case "eth_getBlockByNumber":
		n, err := hexutil.DecodeUint64(args[0].(string))
		if err != nil {
			return err
		}
		f.calls[n]++
		if f.failures[n] > 0 {
			f.failures[n]--
			return errors.New("connection reset")
		}
		if b, ok := f.blocks[n]; ok {
			resp = b
		} else {
			resp = block(n)
		}
	default:
		return fmt.Errorf("unexpected method %s", method)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

func (f *fakeSource) Close() {
	f.closed = true
}

func (f *fakeSource) addBlock(n uint64, txs ...map[string]any) {
	b := block(n, txs...)
	f.blocks[n] = b
	if n > f.head {
		f.head = n
	}
}

func block(n uint64, txs ...map[string]any) map[string]any {
	if txs == nil {
		txs = []map[string]any{}
	}
	return map[string]any{
		"number":       hexutil.EncodeUint64(n),
		"timestamp":    hexutil.EncodeUint64(1700000000 + n),
		"transactions": txs,
	}
}

func tx(txType string, nonce uint64, to string, value uint64, input string) map[string]any {
	return map[string]any{
		"type":  txType,
		"hash":  common.BytesToHash([]byte{byte(nonce + 1)}).Hex(),
		"from":  testSender,
		"to":    to,
		"nonce": hexutil.EncodeUint64(nonce),
		"value": hexutil.EncodeUint64(value),
		"input": input,
	}
}

func retries(n int) *int {
	return &n
}

func newTestIndexer(t *testing.T, src BlockSource, cfg types.ScanConfig) *EVMIndexer {
	t.Helper()
	cfg.Contract = testContract
	e, err := NewEVMIndexerFromSource(src, cfg, WithRetryDelay(time.Millisecond))
	require.NoError(t, err)
	return e
}

func collect(t *testing.T, e *EVMIndexer, from, to uint64) ([]types.Transaction, error) {
	t.Helper()
	out := make(chan types.Transaction)
	errCh := make(chan error, 1)
	go func() { errCh <- e.Stream(context.Background(), from, to, out) }()

	var txs []types.Transaction
	for tx := range out {
		txs = append(txs, tx)
	}
	return txs, <-errCh
}

func TestStreamFiltersDeposits(t *testing.T) {
	src := newFakeSource()
	src.addBlock(10,
		tx("0x2", 0, testContract, 100, "0x0200"),
		tx("0x0", 1, otherAddress, 5, "0x"),
	)
	src.addBlock(12, tx("0x0", 2, testContract, 7, "0x"))
	src.addBlock(13, tx("0x2", 3, testContract, 9, "0x010036"))

	e := newTestIndexer(t, src, types.ScanConfig{WindowSize: 2, Workers: 3})
	txs, err := collect(t, e, 10, 13)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, uint64(10), txs[0].BlockNumber)
	assert.Equal(t, "0x0200", txs[0].Input)
	assert.Equal(t, "100", txs[0].Value)
	assert.Equal(t, testSender, txs[0].From)
	assert.Equal(t, testContract, txs[0].To)
	assert.Equal(t, time.Unix(1700000010, 0).UTC(), txs[0].Timestamp)
	assert.Equal(t, common.BytesToHash([]byte{1}).Hex(), txs[0].Hash)

	assert.Equal(t, uint64(12), txs[1].BlockNumber)
	assert.Equal(t, "0x", txs[1].Input)

	assert.Equal(t, uint64(13), txs[2].BlockNumber)
	assert.Equal(t, "0x010036", txs[2].Input)
}

func TestStreamSkipsContractCreation(t *testing.T) {
	src := newFakeSource()
	creation := tx("0x0", 0, testContract, 0, "0x6080")
	creation["to"] = nil
	src.addBlock(1, creation, tx("0x0", 1, testContract, 1, "0x01"))

	e := newTestIndexer(t, src, types.ScanConfig{})
	txs, err := collect(t, e, 1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "0x01", txs[0].Input)
}

func TestStreamChainSpecificTxTypes(t *testing.T) {
	// OP-stack blocks open with a 0x7e deposit; Arbitrum uses 0x64-0x6a.
	src := newFakeSource()
	src.addBlock(1,
		tx("0x7e", 0, "0x4200000000000000000000000000000000000015", 0, "0x098999be"),
		tx("0x6a", 1, "0x00000000000000000000000000000000000a4b05", 0, "0x"),
		tx("0x2", 2, testContract, 42, "0x020036"),
	)

	e := newTestIndexer(t, src, types.ScanConfig{})
	txs, err := collect(t, e, 1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "0x020036", txs[0].Input)
	assert.Equal(t, "42", txs[0].Value)
}

func TestStreamOverJSONRPC(t *testing.T) {
	deposit := tx("0x7e", 0, "0x4200000000000000000000000000000000000015", 0, "0x098999be")
	transfer := tx("0x2", 1, testContract, 1000, "0x0236")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &req))

		var result any
		switch req.Method {
		case "eth_blockNumber":
			result = "0x1"
		case "eth_getBlockByNumber":
			result = block(1, deposit, transfer)
		default:
			t.Errorf("unexpected method %s", req.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	defer srv.Close()

	e, err := NewEVMIndexer(types.ScanConfig{RPCUrl: srv.URL, Contract: testContract, RetryCount: retries(0)})
	require.NoError(t, err)
	defer e.Close()

	head, err := e.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), head)

	txs, err := collect(t, e, 1, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "1000", txs[0].Value)
	assert.Equal(t, "0x0236", txs[0].Input)
	assert.Equal(t, testSender, txs[0].From)
}

func TestStreamRetries(t *testing.T) {
	src := newFakeSource()
	src.failures[3] = 2

	e := newTestIndexer(t, src, types.ScanConfig{RetryCount: retries(2)})
	_, err := collect(t, e, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls[3])
}

func TestStreamRetriesDisabled(t *testing.T) {
	src := newFakeSource()
	src.failures[1] = 1

	e := newTestIndexer(t, src, types.ScanConfig{RetryCount: retries(0)})
	_, err := collect(t, e, 1, 1)
	require.Error(t, err)
	assert.Equal(t, 1, src.calls[1])
}

func TestStreamGivesUp(t *testing.T) {
	src := newFakeSource()
	src.failures[2] = 10

	e := newTestIndexer(t, src, types.ScanConfig{RetryCount: retries(1)})
	_, err := collect(t, e, 1, 4)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeNetworkError, types.CodeOf(err))
	assert.Contains(t, err.Error(), "block 2")
}

func TestStreamMissingBlock(t *testing.T) {
	src := &nullSource{}
	e := newTestIndexer(t, src, types.ScanConfig{RetryCount: retries(0)})
	_, err := collect(t, e, 7, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBlockNotFound))
}

type nullSource struct{}

func (nullSource) CallContext(_ context.Context, result any, _ string, _ ...any) error {
	return json.Unmarshal([]byte("null"), result)
}

func (nullSource) Close() {}

func TestStreamInvalidRange(t *testing.T) {
	e := newTestIndexer(t, newFakeSource(), types.ScanConfig{})
	_, err := collect(t, e, 5, 1)
	assert.Equal(t, types.ErrCodeInvalidRange, types.CodeOf(err))
}

func TestStreamCancelled(t *testing.T) {
	src := newFakeSource()
	src.addBlock(1, tx("0x0", 0, testContract, 1, "0x"), tx("0x0", 1, testContract, 1, "0x"))

	e := newTestIndexer(t, src, types.ScanConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan types.Transaction)
	errCh := make(chan error, 1)
	go func() { errCh <- e.Stream(ctx, 1, 1, out) }()

	<-out
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestLatestBlock(t *testing.T) {
	src := newFakeSource()
	src.addBlock(42)

	e := newTestIndexer(t, src, types.ScanConfig{})
	head, err := e.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), head)

	e.Close()
	assert.True(t, src.closed)
}

func TestNewEVMIndexerRejectsBadContract(t *testing.T) {
	for _, contract := range []string{"", "0x12", strings.Repeat("z", 40)} {
		_, err := NewEVMIndexerFromSource(newFakeSource(), types.ScanConfig{Contract: contract})
		require.Error(t, err, contract)
		assert.Equal(t, types.ErrCodeConfigError, types.CodeOf(err))
	}
}
