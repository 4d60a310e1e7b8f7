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

// Package testutil provides common test helpers for the onyx client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// MockOnyx simulates an Onyx service for tests. It wraps an httptest
// server and counts the requests it receives, which lets tests assert
// that fail-fast paths never touch the network.
type MockOnyx struct {
	*httptest.Server
	requestCount int32
}

// NewMockOnyx creates a mock service with a custom handler. The handler
// runs after the request counter is bumped.
func NewMockOnyx(t *testing.T, handler http.HandlerFunc) *MockOnyx {
	t.Helper()
	m := &MockOnyx{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.requestCount, 1)
		handler(w, r)
	}))
	return m
}

// Requests returns how many requests the server has received.
func (m *MockOnyx) Requests() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// WriteEnvelope writes a success envelope around data. next and previous
// are raw JSON values: "null", a quoted URL, or a bool literal.
func WriteEnvelope(w http.ResponseWriter, data, next, previous string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "success", "code": 200, "data": %s, "messages": {}, "next": %s, "previous": %s}`,
		data, next, previous)
}

// WriteError writes a fail envelope with the given status and detail
// message.
func WriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"status": "fail", "code": %d, "messages": {"detail": %q}}`, status, detail)
}

// PagedFilterConfig describes the paginated filter fixture a test wants.
type PagedFilterConfig struct {
	// Project is the project segment the fixture answers for.
	Project string

	// Pages holds the record payloads, one slice per page, each record
	// as raw JSON text.
	Pages [][]string

	// FailPage, when non-negative, makes that page (0-based) return
	// FailStatus with FailDetail instead of its records.
	FailPage   int
	FailStatus int
	FailDetail string
}

// NewPagedFilterServer creates a mock service that serves a paginated
// filter result set. Continuation URLs are server-minted, pointing back
// at the mock with a cursor query parameter, mirroring how the real
// service hands out opaque next links.
func NewPagedFilterServer(t *testing.T, cfg PagedFilterConfig) *MockOnyx {
	t.Helper()
	if cfg.Project == "" {
		cfg.Project = "project"
	}

	var m *MockOnyx
	m = NewMockOnyx(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/"+cfg.Project+"/" {
			WriteError(w, http.StatusNotFound, "Not found.")
			return
		}

		page := 0
		if cursor := r.URL.Query().Get("cursor"); cursor != "" {
			n, err := strconv.Atoi(cursor)
			if err != nil || n < 0 || n >= len(cfg.Pages) {
				WriteError(w, http.StatusBadRequest, "Invalid cursor.")
				return
			}
			page = n
		}

		if cfg.FailStatus != 0 && page == cfg.FailPage {
			WriteError(w, cfg.FailStatus, cfg.FailDetail)
			return
		}

		data := "["
		for i, rec := range cfg.Pages[page] {
			if i > 0 {
				data += ", "
			}
			data += rec
		}
		data += "]"

		next := "null"
		if page+1 < len(cfg.Pages) {
			next = fmt.Sprintf("%q", m.URL+"/projects/"+cfg.Project+"/?cursor="+strconv.Itoa(page+1))
		}
		previous := "null"
		if page > 0 {
			previous = "true"
		}
		WriteEnvelope(w, data, next, previous)
	})
	return m
}

// NewErrorServer creates a mock service that answers every request with
// the given status and detail.
func NewErrorServer(t *testing.T, status int, detail string) *MockOnyx {
	t.Helper()
	return NewMockOnyx(t, func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, status, detail)
	})
}

// GenerateRecords produces n records of uniform shape as raw JSON text,
// useful for large-page fixtures.
func GenerateRecords(n int) []string {
	records := make([]string, n)
	for i := range records {
		rec, _ := json.Marshal(map[string]any{
			"climb_id":  fmt.Sprintf("C-%06d", i),
			"published": true,
		})
		records[i] = string(rec)
	}
	return records
}
