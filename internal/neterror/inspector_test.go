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

package neterror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
	"time"
)

func TestStringInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
			want: true,
		},
		{
			name: "no such host",
			err:  errors.New("dial tcp: lookup onyx.example: no such host"),
			want: true,
		},
		{
			name: "tls handshake failure",
			err:  errors.New("tls handshake timeout"),
			want: true,
		},
		{
			name: "connection reset",
			err:  errors.New("read tcp: connection reset by peer"),
			want: true,
		},
		{
			name: "server rejection is not a network error",
			err:  errors.New("you have no permission to view this project"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStringInspector_IsTimeoutError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "i/o timeout",
			err:  errors.New("read tcp 10.0.0.1:443: i/o timeout"),
			want: true,
		},
		{
			name: "deadline exceeded text",
			err:  errors.New("context deadline exceeded"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("record not found"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsTimeoutError(tt.err); got != tt.want {
				t.Errorf("IsTimeoutError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// timeoutError implements net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "operation timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestErrorChainInspector_TypedErrors(t *testing.T) {
	inspector := NewErrorChainInspector(NewInspector())

	tests := []struct {
		name        string
		err         error
		wantNetwork bool
		wantTimeout bool
		wantRetry   bool
	}{
		{
			name:        "wrapped ECONNREFUSED",
			err:         fmt.Errorf("page request: %w", syscall.ECONNREFUSED),
			wantNetwork: true,
			wantTimeout: false,
			wantRetry:   true,
		},
		{
			name:        "wrapped ECONNRESET",
			err:         fmt.Errorf("page request: %w", syscall.ECONNRESET),
			wantNetwork: true,
			wantTimeout: false,
			wantRetry:   true,
		},
		{
			name:        "net.Error timeout",
			err:         fmt.Errorf("page request: %w", timeoutError{}),
			wantNetwork: true,
			wantTimeout: true,
			wantRetry:   true,
		},
		{
			name:        "DNS failure",
			err:         &net.DNSError{Err: "no such host", Name: "onyx.example"},
			wantNetwork: true,
			wantTimeout: false,
			wantRetry:   false,
		},
		{
			name:        "context deadline exceeded",
			err:         fmt.Errorf("page request: %w", context.DeadlineExceeded),
			wantNetwork: true,
			wantTimeout: true,
			wantRetry:   true,
		},
		{
			name:        "context canceled is not transport",
			err:         fmt.Errorf("page request: %w", context.Canceled),
			wantNetwork: false,
			wantTimeout: false,
			wantRetry:   false,
		},
		{
			name:        "truncated body",
			err:         fmt.Errorf("decode page: %w", io.ErrUnexpectedEOF),
			wantNetwork: false,
			wantTimeout: false,
			wantRetry:   true,
		},
		{
			name:        "plain application error",
			err:         errors.New("project not found"),
			wantNetwork: false,
			wantTimeout: false,
			wantRetry:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.wantNetwork {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, got, tt.wantNetwork)
			}
			if got := inspector.IsTimeoutError(tt.err); got != tt.wantTimeout {
				t.Errorf("IsTimeoutError(%v) = %v, want %v", tt.err, got, tt.wantTimeout)
			}
			if got := inspector.IsRetryable(tt.err); got != tt.wantRetry {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.wantRetry)
			}
		})
	}
}

// classifiedError self-reports as a network error through the As probe.
type classifiedError struct{}

func (classifiedError) Error() string        { return "backend unreachable" }
func (classifiedError) IsNetworkError() bool { return true }

func TestErrorChainInspector_AsProbe(t *testing.T) {
	inspector := NewErrorChainInspector(NewInspector())

	err := fmt.Errorf("fetch: %w", classifiedError{})
	if !inspector.IsNetworkError(err) {
		t.Errorf("IsNetworkError(%v) = false, want true", err)
	}
}

func TestErrorChainInspector_DialTimeout(t *testing.T) {
	// A real dial against a non-routable address produces a genuine
	// net.Error; keep the timeout tiny so the test stays fast.
	_, err := net.DialTimeout("tcp", "10.255.255.1:81", 5*time.Millisecond)
	if err == nil {
		t.Skip("dial unexpectedly succeeded")
	}

	inspector := NewErrorChainInspector(NewInspector())
	if !inspector.IsNetworkError(err) {
		t.Errorf("IsNetworkError(%v) = false, want true", err)
	}
	if !inspector.IsRetryable(err) {
		t.Errorf("IsRetryable(%v) = false, want true", err)
	}
}
