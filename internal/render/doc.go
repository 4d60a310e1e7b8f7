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

// Package render turns lazily streamed Onyx results into terminal output.
// It provides the JSON array stitcher that joins paginated fragments into
// one valid document, delimited (CSV/TSV) streaming with columns inferred
// from the first record, and the rich-table renderers for records and
// field specification trees.
//
// Every renderer here is single-consumer and incremental where the format
// allows: by the time a mid-stream error surfaces, everything already
// pulled from the service has been written and flushed.
package render
