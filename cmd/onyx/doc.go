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

// Package main implements the onyx command-line interface. The client
// talks to a record-oriented Onyx data service and streams filter
// results page by page, rendering them as a JSON array, CSV, TSV, or a
// table without ever holding more than one result page in memory.
//
// The CLI supports:
//   - Streaming record filtering with repeatable name=value criteria
//   - Single-record retrieval as indented JSON
//   - Project, field specification, and choice discovery
//   - Account registration, login, and token management
//   - Site and admin user listings
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	onyx filter <project> [-f name=value]... [-F json|csv|tsv|table]
//
// Example:
//
//	export ONYX_DOMAIN=https://onyx.example.org
//	export ONYX_TOKEN=your_token
//	onyx filter mpx -f status=published -F csv > published.csv
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Configuration, usage, or authorization error
//   - 3: Network error
package main
