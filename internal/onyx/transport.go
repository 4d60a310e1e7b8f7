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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/onyxhq/onyx-cli/internal/neterror"
	"github.com/onyxhq/onyx-cli/pkg/version"
)

// maxResponseBodySize caps how much of a response the client will read.
// A single page should be far below this; the limit guards against a
// misbehaving endpoint streaming unbounded data.
const maxResponseBodySize = 10 * 1024 * 1024 // 10MB

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Add the token header unless the caller already set its own
	// authorization (login uses HTTP basic auth)
	if t.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Token "+t.token)
	}

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("onyx-cli/%s", version.Version))

	// Fresh correlation ID per attempt for server-side log matching
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Execute the request
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBodySize,
		}
	}

	return resp, nil
}

// retryTransport adds exponential backoff retry logic for transient failures.
// Only idempotent requests are retried; everything else passes through.
type retryTransport struct {
	base           http.RoundTripper
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	inspector      neterror.Inspector
}

// newRetryTransport creates a new transport with retry logic.
func newRetryTransport(base http.RoundTripper) *retryTransport {
	return &retryTransport{
		base:           base,
		maxRetries:     3,
		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
		inspector:      neterror.NewErrorChainInspector(neterror.NewInspector()),
	}
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return t.base.RoundTrip(req)
	}

	var lastErr error
	backoff := t.initialBackoff

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		// Clone request for each attempt
		clonedReq := req.Clone(req.Context())

		resp, err := t.base.RoundTrip(clonedReq)

		// Success - return immediately
		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		// Check if error is retryable
		if err != nil {
			if !t.inspector.IsRetryable(err) {
				return nil, err
			}
			lastErr = neterror.WithRetryInfo(err, attempt+1, t.maxRetries+1)
		} else {
			// Retryable status code
			lastErr = neterror.WithRetryInfo(
				fmt.Errorf("received status %d", resp.StatusCode),
				attempt+1, t.maxRetries+1)
			resp.Body.Close()
		}

		// Don't wait after the last attempt
		if attempt < t.maxRetries {
			// Wait with exponential backoff
			select {
			case <-time.After(backoff):
				// Increase backoff for next attempt
				backoff *= 2
				if backoff > t.maxBackoff {
					backoff = t.maxBackoff
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, neterror.WithUserAction(lastErr,
		"The service did not respond after repeated attempts. Please check your connection and try again")
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
