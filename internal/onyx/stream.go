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

package onyx

import (
	"context"
	"encoding/json"
	"fmt"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
)

// streamState tracks an iterator through its life. Streams are
// non-restartable: once exhausted or failed they stay that way.
type streamState int

const (
	streamActive streamState = iota
	streamExhausted
	streamFailed
)

// PageIterator pulls filter result pages one at a time. Page N+1 is
// requested only when the consumer asks for it, so at most one page is in
// memory. Not safe for concurrent use; a stream has exactly one consumer.
//
// Usage follows the scanner idiom:
//
//	for pages.Next() {
//	    p := pages.Page()
//	    ...
//	}
//	if err := pages.Err(); err != nil { ... }
type PageIterator struct {
	ctx   context.Context
	fetch func(ctx context.Context, cursor string) (*Page, error)
	fail  func(p *Page) error

	cursor  string
	started bool
	page    *Page
	state   streamState
	err     error
}

// Next advances to the next page. It returns false when the stream is
// exhausted or an error occurred; pages already returned stay valid for
// whatever output they produced.
func (it *PageIterator) Next() bool {
	if it.state != streamActive {
		return false
	}
	if it.started && !it.page.HasNext {
		it.state = streamExhausted
		it.page = nil
		return false
	}

	page, err := it.fetch(it.ctx, it.cursor)
	if err != nil {
		it.state = streamFailed
		it.err = err
		it.page = nil
		return false
	}
	if !page.OK {
		it.state = streamFailed
		it.err = it.fail(page)
		it.page = nil
		return false
	}
	if page.HasNext && page.NextURL == "" {
		it.state = streamFailed
		it.err = fmt.Errorf("page advertises a continuation but carries no URL: %w", onyxerrors.ErrBadResponse)
		it.page = nil
		return false
	}

	it.started = true
	it.page = page
	it.cursor = page.NextURL
	return true
}

// Page returns the current page. Only valid after a Next call that
// returned true.
func (it *PageIterator) Page() *Page {
	return it.page
}

// Err returns the terminal error, if any, once Next has returned false.
func (it *PageIterator) Err() error {
	return it.err
}

// RecordIterator flattens a PageIterator into individual records, decoding
// one page's worth at a time.
type RecordIterator struct {
	pages *PageIterator

	buf []Record
	idx int
	rec Record
	err error
}

// Next advances to the next record, fetching the next page when the
// current one is drained.
func (it *RecordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.idx >= len(it.buf) {
		if !it.pages.Next() {
			it.err = it.pages.Err()
			return false
		}

		page := it.pages.Page()
		buf := make([]Record, 0, len(page.Records))
		for _, raw := range page.Records {
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				it.err = fmt.Errorf("decoding record: %v: %w", err, onyxerrors.ErrBadResponse)
				return false
			}
			buf = append(buf, rec)
		}
		it.buf = buf
		it.idx = 0
	}

	it.rec = it.buf[it.idx]
	it.idx++
	return true
}

// Record returns the current record. Only valid after a Next call that
// returned true.
func (it *RecordIterator) Record() Record {
	return it.rec
}

// Err returns the terminal error, if any, once Next has returned false.
func (it *RecordIterator) Err() error {
	return it.err
}
