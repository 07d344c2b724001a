package gaszip

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitwit/gaszip/registry"
	"github.com/vitwit/gaszip/types"
)

type countingRecorder struct {
	mu       sync.Mutex
	counters map[string]int
	latency  int
}

func (c *countingRecorder) IncCounter(name string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counters == nil {
		c.counters = map[string]int{}
	}
	c.counters[name+"/"+labels["kind"]]++
}

func (c *countingRecorder) ObserveLatency(string, time.Duration, map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latency++
}

type captureLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *captureLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *captureLogger) Debug(msg string, _ map[string]any) { l.add(msg) }
func (l *captureLogger) Info(msg string, _ map[string]any)  { l.add(msg) }
func (l *captureLogger) Warn(msg string, _ map[string]any)  { l.add(msg) }
func (l *captureLogger) Error(msg string, _ map[string]any) { l.add(msg) }

func TestDecode(t *testing.T) {
	g := NewWithDefaults()

	p, err := g.Decode("0x02" + strings.Repeat("11", 20) + "0036")
	require.NoError(t, err)
	assert.Equal(t, types.KindEVM, p.Kind)
	assert.Equal(t, "Base Mainnet", *p.ChainIDs[0].Name)
}

func TestDecodeRecordsMetrics(t *testing.T) {
	rec := &countingRecorder{}
	log := &captureLogger{}
	g := New(WithMetrics(rec), WithLogger(log))

	_, err := g.Decode("0x0100370038")
	require.NoError(t, err)
	_, err = g.Decode("0x07")
	require.NoError(t, err)
	_, err = g.Decode("0x")
	require.Error(t, err)

	assert.Equal(t, 1, rec.counters["decode/SELF"])
	assert.Equal(t, 1, rec.counters["decode/UNKNOWN"])
	assert.Equal(t, 1, rec.counters["decode_error/EMPTY_CALLDATA"])
	assert.Equal(t, 2, rec.latency)
	assert.Equal(t, []string{"unknown calldata prefix", "decode failed"}, log.msgs)
}

func TestWithRegistry(t *testing.T) {
	reg, err := registry.New([]registry.Chain{{ID: 54, Name: "Custom", NativeID: 1}})
	require.NoError(t, err)

	g := New(WithRegistry(reg))
	assert.Same(t, reg, g.Registry())

	p, err := g.Decode("0x010036")
	require.NoError(t, err)
	assert.Equal(t, "Custom", *p.ChainIDs[0].Name)
}

func TestDecodeBatch(t *testing.T) {
	g := New()
	raws := []string{
		"0x0100370038",
		"0x",
		"0x02" + strings.Repeat("ab", 19),
		"0xzz",
		"0x07aa",
	}

	results := g.DecodeBatch(raws)
	require.Len(t, results, len(raws))

	assert.NoError(t, results[0].Err)
	assert.Equal(t, types.KindSelf, results[0].Payload.Kind)
	assert.True(t, errors.Is(results[1].Err, types.ErrEmptyCalldata))
	assert.True(t, errors.Is(results[2].Err, types.ErrAddressLengthMismatch))
	assert.True(t, errors.Is(results[3].Err, types.ErrInvalidHexEncoding))
	assert.Nil(t, results[3].Payload)
	assert.Equal(t, types.KindUnknown, results[4].Payload.Kind)
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v["library_version"])
	assert.Len(t, v["supported_kinds"], 6)
}
