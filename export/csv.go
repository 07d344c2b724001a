// Package export serialises scan records.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

// Header is the fixed CSV column order.
var Header = []string{
	"block_number",
	"timestamp",
	"tx_hash",
	"from",
	"to",
	"value_wei",
	"value_eth",
	"decode_type",
	"prefix",
	"destination",
	"chain_ids",
	"chain_names",
	"native_chain_ids",
	"error",
}

// ListSeparator joins multi-valued columns.
const ListSeparator = "|"

// RecordWriter consumes scan records.
type RecordWriter interface {
	Write(rec types.Record) error
	Flush() error
}

// CSVWriter writes records as CSV rows. The header is written before the
// first row.
type CSVWriter struct {
	w             *csv.Writer
	headerWritten bool
}

var _ RecordWriter = (*CSVWriter)(nil)

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) Write(rec types.Record) error {
	if !c.headerWritten {
		if err := c.w.Write(Header); err != nil {
			return err
		}
		c.headerWritten = true
	}
	return c.w.Write(Row(rec))
}

// Flush writes the header if no row was written, then flushes.
func (c *CSVWriter) Flush() error {
	if !c.headerWritten {
		if err := c.w.Write(Header); err != nil {
			return err
		}
		c.headerWritten = true
	}
	c.w.Flush()
	return c.w.Error()
}

// Row renders rec in Header order.
func Row(rec types.Record) []string {
	tx := rec.Transaction

	var ts string
	if !tx.Timestamp.IsZero() {
		ts = tx.Timestamp.UTC().Format(time.RFC3339)
	}

	row := []string{
		strconv.FormatUint(tx.BlockNumber, 10),
		ts,
		tx.Hash,
		tx.From,
		tx.To,
		tx.Value,
		utils.FormatWei(tx.Value),
		rec.Kind.String(),
		"", "", "", "", "",
		rec.Error,
	}

	if p := rec.Payload; p != nil {
		row[8] = p.PrefixHex
		row[9] = Destination(p)

		ids := make([]string, len(p.ChainIDs))
		names := make([]string, len(p.ChainIDs))
		natives := make([]string, len(p.ChainIDs))
		for i, e := range p.ChainIDs {
			ids[i] = strconv.FormatUint(uint64(e.ID), 10)
			if e.Known() {
				names[i] = *e.Name
			}
			if e.NativeID != nil {
				natives[i] = strconv.FormatUint(*e.NativeID, 10)
			}
		}
		row[10] = strings.Join(ids, ListSeparator)
		row[11] = strings.Join(names, ListSeparator)
		row[12] = strings.Join(natives, ListSeparator)
	}
	return row
}

// Destination picks the most readable rendering of the payload's address.
func Destination(p *types.DecodedPayload) string {
	d := p.Destination
	if d == nil {
		return ""
	}
	switch p.Kind {
	case types.KindEVM:
		if d.Checksum != "" {
			return d.Checksum
		}
	case types.KindBase58:
		if d.Base58 != "" {
			return d.Base58
		}
	case types.KindXRP:
		if d.XRP != "" {
			return d.XRP
		}
	case types.KindInitia:
		if d.Bech32 != "" {
			return d.Bech32
		}
	}
	return d.Hex
}
