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
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/onyxhq/onyx-cli/internal/onyx"
)

// NewTable returns a table writer in the client's house style: light box
// drawing with a separator line between every row, mirrored to w. Header
// cells keep their exact text; field keys are case-sensitive identifiers.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = true
	t.Style().Format.Header = text.FormatDefault
	return t
}

// RecordTable renders a record stream as a boxed table. Rows accumulate
// as they are pulled and the table is drawn at Close: column widths span
// the whole result set, so the layout cannot be fixed until the stream
// ends. The delimited writer is the streaming path for large result sets.
type RecordTable struct {
	tw      table.Writer
	columns []string
	started bool
	count   int
}

// NewRecordTable returns a table renderer writing to w.
func NewRecordTable(w io.Writer) *RecordTable {
	return &RecordTable{tw: NewTable(w)}
}

// Write buffers one record as a table row. Columns are taken from the
// first record's keys in service order.
func (t *RecordTable) Write(rec onyx.Record) error {
	if !t.started {
		t.started = true
		t.columns = rec.Keys()
		header := make(table.Row, len(t.columns))
		for i, key := range t.columns {
			header[i] = key
		}
		t.tw.AppendHeader(header)
	}
	row := make(table.Row, len(t.columns))
	for i, key := range t.columns {
		row[i] = rec.Display(key)
	}
	t.tw.AppendRow(row)
	t.count++
	return nil
}

// Close draws the accumulated table. A stream with zero records draws
// nothing at all.
func (t *RecordTable) Close() error {
	if !t.started {
		return nil
	}
	t.tw.Render()
	return nil
}

// Count returns the number of rows buffered so far.
func (t *RecordTable) Count() int {
	return t.count
}
