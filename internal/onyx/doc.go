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

// Package onyx provides a client for the Onyx record service REST API.
// It abstracts the service's response envelope and cursor pagination and
// provides lazy, pull-based iteration over filtered result sets with a
// strict one-page-at-a-time memory bound.
//
// The package includes:
//   - A Client for all account, project, and record endpoints
//   - A filter criteria builder for name=value criteria
//   - Page and record iterators over cursor-paginated results
//   - An order-preserving Record type for rendering
//
// Basic usage:
//
//	client, err := onyx.New("https://onyx.example.ac.uk", onyx.WithToken(token))
//	if err != nil {
//	    // Handle error
//	}
//	records := client.Filter(ctx, "mpx", onyx.FilterQuery{})
//	for records.Next() {
//	    // Process records.Record()
//	}
//	if err := records.Err(); err != nil {
//	    // Handle error; records already seen stay valid
//	}
package onyx
