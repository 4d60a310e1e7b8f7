// Copyright 2026 OnyxHQ, Ltd.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/onyxhq/onyx-cli/internal/onyx"
)

// DelimWriter streams records as delimited text. Columns are taken from
// the first record's keys in service order; the header row is written
// immediately before the first data row. Output is flushed after every
// record so partial results survive a mid-stream failure.
type DelimWriter struct {
	cw      *csv.Writer
	columns []string
	started bool
	count   int
}

// NewDelimWriter returns a writer emitting comma-delimited rows to w.
// Pass '\t' for TSV output.
func NewDelimWriter(w io.Writer, comma rune) *DelimWriter {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	return &DelimWriter{cw: cw}
}

// Write renders one record as a row, preceded by the header row when the
// record is the first of the stream.
func (d *DelimWriter) Write(rec onyx.Record) error {
	if !d.started {
		d.started = true
		d.columns = rec.Keys()
		if err := d.cw.Write(d.columns); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
	}
	row := make([]string, len(d.columns))
	for i, key := range d.columns {
		row[i] = rec.Display(key)
	}
	if err := d.cw.Write(row); err != nil {
		return fmt.Errorf("writing record row: %w", err)
	}
	d.cw.Flush()
	if err := d.cw.Error(); err != nil {
		return fmt.Errorf("flushing record row: %w", err)
	}
	d.count++
	return nil
}

// Close flushes any buffered output. A stream with zero records produces
// no output at all, not even a header.
func (d *DelimWriter) Close() error {
	d.cw.Flush()
	if err := d.cw.Error(); err != nil {
		return fmt.Errorf("flushing delimited output: %w", err)
	}
	return nil
}

// Count returns the number of data rows written so far.
func (d *DelimWriter) Count() int {
	return d.count
}
