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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onyxhq/onyx-cli/internal/neterror"
)

// recordingTransport captures requests and answers each with a canned
// response.
type recordingTransport struct {
	requests []*http.Request
	status   int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.requests = append(rt.requests, req)
	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// testRetryTransport builds a retry transport with fast backoff.
func testRetryTransport(base http.RoundTripper, maxRetries int) *retryTransport {
	return &retryTransport{
		base:           base,
		maxRetries:     maxRetries,
		initialBackoff: time.Millisecond,
		maxBackoff:     10 * time.Millisecond,
		inspector:      neterror.NewErrorChainInspector(neterror.NewInspector()),
	}
}

func TestAuthTransportHeaders(t *testing.T) {
	base := &recordingTransport{}
	transport := &authTransport{token: "test-token", base: base}

	req, _ := http.NewRequest(http.MethodGet, "https://onyx.example.org/projects/", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}

	sent := base.requests[0]
	if got := sent.Header.Get("Authorization"); got != "Token test-token" {
		t.Errorf("Authorization = %q, want %q", got, "Token test-token")
	}
	if got := sent.Header.Get("User-Agent"); !strings.HasPrefix(got, "onyx-cli/") {
		t.Errorf("User-Agent = %q, want onyx-cli/ prefix", got)
	}
	if sent.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}

	// The caller's request must not be mutated.
	if req.Header.Get("Authorization") != "" {
		t.Error("original request was mutated")
	}
}

func TestAuthTransportPreservesExistingAuthorization(t *testing.T) {
	base := &recordingTransport{}
	transport := &authTransport{token: "test-token", base: base}

	// Login authenticates with basic auth; the token must not clobber it.
	req, _ := http.NewRequest(http.MethodPost, "https://onyx.example.org/accounts/login/", nil)
	req.SetBasicAuth("ada", "secret")
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}

	if got := base.requests[0].Header.Get("Authorization"); !strings.HasPrefix(got, "Basic ") {
		t.Errorf("Authorization = %q, want Basic auth preserved", got)
	}
}

func TestAuthTransportNoToken(t *testing.T) {
	base := &recordingTransport{}
	transport := &authTransport{base: base}

	req, _ := http.NewRequest(http.MethodGet, "https://onyx.example.org/projects/", nil)
	if _, err := transport.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}

	if got := base.requests[0].Header.Get("Authorization"); got != "" {
		t.Errorf("Authorization = %q, want unset", got)
	}
}

func TestAuthTransportFreshRequestIDs(t *testing.T) {
	base := &recordingTransport{}
	transport := &authTransport{token: "test-token", base: base}

	req, _ := http.NewRequest(http.MethodGet, "https://onyx.example.org/projects/", nil)
	for i := 0; i < 2; i++ {
		if _, err := transport.RoundTrip(req); err != nil {
			t.Fatalf("RoundTrip() error = %v", err)
		}
	}

	first := base.requests[0].Header.Get("X-Request-ID")
	second := base.requests[1].Header.Get("X-Request-ID")
	if first == second {
		t.Errorf("X-Request-ID repeated across attempts: %q", first)
	}
}

func TestRetryTransportRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	transport := testRetryTransport(http.DefaultTransport, 3)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRetryTransportExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := testRetryTransport(http.DefaultTransport, 2)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	_, err := transport.RoundTrip(req)
	if err == nil {
		t.Fatal("RoundTrip() should have failed")
	}
	if !strings.Contains(err.Error(), "did not respond after repeated attempts") {
		t.Errorf("error %q missing the user guidance", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRetryTransportDoesNotRetryPost(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := testRetryTransport(http.DefaultTransport, 3)
	req, _ := http.NewRequest(http.MethodPost, server.URL, nil)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 passed through", resp.StatusCode)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestRetryTransportDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	transport := testRetryTransport(http.DefaultTransport, 3)
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 passed through", resp.StatusCode)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestRetryTransportContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	transport := &retryTransport{
		base:           http.DefaultTransport,
		maxRetries:     3,
		initialBackoff: 10 * time.Second,
		maxBackoff:     time.Minute,
		inspector:      neterror.NewErrorChainInspector(neterror.NewInspector()),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)

	start := time.Now()
	_, err := transport.RoundTrip(req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, backoff was not interrupted", elapsed)
	}
}

func TestLimitedReaderCapsBody(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: io.NopCloser(strings.NewReader(strings.Repeat("x", 100))),
		limit:      10,
	}

	_, err := io.ReadAll(lr)
	if err == nil {
		t.Fatal("ReadAll() should have failed past the limit")
	}
	if !strings.Contains(err.Error(), "exceeded limit") {
		t.Errorf("error = %v, want size limit failure", err)
	}
}

func TestLimitedReaderUnderLimit(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: io.NopCloser(strings.NewReader("small")),
		limit:      1024,
	}

	data, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "small" {
		t.Errorf("data = %q, want %q", data, "small")
	}
}
