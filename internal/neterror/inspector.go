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
	"os"
	"strings"
	"syscall"
)

// WithRetryInfo annotates an error with the attempt count that produced it.
func WithRetryInfo(err error, attempt, maxAttempts int) error {
	return fmt.Errorf("attempt %d/%d: %w", attempt, maxAttempts, err)
}

// WithUserAction appends a suggested remedy to an error message.
func WithUserAction(err error, action string) error {
	return fmt.Errorf("%w. %s", err, action)
}

// Inspector provides methods for analyzing transport-level request failures.
type Inspector interface {
	// IsNetworkError returns true if the error represents a network connectivity failure.
	IsNetworkError(err error) bool

	// IsTimeoutError returns true if the error represents a timeout.
	IsTimeoutError(err error) bool

	// IsRetryable returns true if the error is transient and a retry may succeed.
	IsRetryable(err error) bool
}

// StringInspector implements the Inspector interface by matching error text.
// It is the fallback for errors whose concrete types were lost at an API
// boundary and only their message survives.
type StringInspector struct{}

// NewInspector creates a new StringInspector.
func NewInspector() Inspector {
	return &StringInspector{}
}

// IsNetworkError checks if the error text describes a connectivity failure.
func (i *StringInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "network is unreachable")
}

// IsTimeoutError checks if the error text describes a timeout.
func (i *StringInspector) IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "timed out") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsRetryable checks if the error text describes a transient failure.
func (i *StringInspector) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "unexpected eof") ||
		i.IsTimeoutError(err)
}

// ErrorChainInspector wraps a base inspector and adds support for checking
// typed errors in the error chain using errors.Is and errors.As before
// falling back to string-based inspection.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	// A canceled context is the caller's doing, not the network's.
	if errors.Is(err, context.Canceled) {
		return false
	}
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	return e.base.IsNetworkError(err)
}

// IsTimeoutError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	return e.base.IsTimeoutError(err)
}

// IsRetryable checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var retryableErr interface{ IsRetryable() bool }
	if errors.As(err, &retryableErr) && retryableErr.IsRetryable() {
		return true
	}
	if e.IsTimeoutError(err) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return e.base.IsRetryable(err)
}
