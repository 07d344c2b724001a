// Package metrics defines the metrics recording interface used by the
// decoder and scanner, with a no-op and a Prometheus implementation.
package metrics

import "time"

// Event names
const (
	EventDecode      = "decode"
	EventDecodeError = "decode_error"
	EventRowWritten  = "rows_written"
	EventFetchError  = "fetch_error"

	OpDecode     = "decode"
	OpFetchBlock = "fetch_block"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
