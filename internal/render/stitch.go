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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// indentStep is the indentation unit for stitched JSON output.
const indentStep = "    "

// ArrayStitcher writes one valid JSON array incrementally across page
// boundaries. The opening bracket is emitted with the first record, a
// comma separates every subsequent record regardless of which page it
// arrived on, and Close emits the terminator. Records pass through as
// raw bytes so the service's key order and number formatting survive
// intact; each is re-indented to the document's four-space step.
type ArrayStitcher struct {
	w       io.Writer
	started bool
	closed  bool
	count   int
}

// NewArrayStitcher returns a stitcher writing the array to w.
func NewArrayStitcher(w io.Writer) *ArrayStitcher {
	return &ArrayStitcher{w: w}
}

// WritePage appends one page of records to the array. Each record is
// fully written before the next begins, so output produced by earlier
// calls is never revisited.
func (s *ArrayStitcher) WritePage(records []json.RawMessage) error {
	for _, raw := range records {
		var buf bytes.Buffer
		if s.started {
			buf.WriteString(",\n")
		} else {
			buf.WriteString("[\n")
		}
		buf.WriteString(indentStep)
		if err := json.Indent(&buf, raw, indentStep, indentStep); err != nil {
			return fmt.Errorf("record is not valid JSON: %w", err)
		}
		if _, err := s.w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		s.started = true
		s.count++
	}
	return nil
}

// Close terminates the array. An empty stream yields a bare [].
func (s *ArrayStitcher) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	terminator := "\n]\n"
	if !s.started {
		terminator = "[]\n"
	}
	if _, err := s.w.Write([]byte(terminator)); err != nil {
		return fmt.Errorf("closing array: %w", err)
	}
	return nil
}

// Count returns the number of records written so far.
func (s *ArrayStitcher) Count() int {
	return s.count
}
