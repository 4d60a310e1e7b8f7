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

import "github.com/onyxhq/onyx-cli/internal/onyx"

// RecordRenderer consumes a record stream one record at a time. Write is
// called for each record as it is pulled from the service; Close finishes
// the document once the stream is drained. Implementations must tolerate
// Close after a Write failure so callers can salvage partial output.
type RecordRenderer interface {
	// Write renders a single record.
	Write(rec onyx.Record) error

	// Close completes the output. For streaming formats this flushes;
	// for buffered formats this draws the accumulated document.
	Close() error
}
