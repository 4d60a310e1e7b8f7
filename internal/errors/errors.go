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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrMalformedCriterion indicates a -f/--field criterion that does not
	// use the 'name=value' syntax. Raised before any network call.
	// Maps to exit code 2.
	ErrMalformedCriterion = errors.New("malformed field criterion")

	// ErrMissingDomain indicates no Onyx domain was resolvable from flags,
	// environment, or config file.
	// Maps to exit code 2.
	ErrMissingDomain = errors.New("onyx domain not configured")

	// ErrMissingCredentials indicates a username or password was required
	// but not provided and could not be prompted for.
	// Maps to exit code 2.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidFormat indicates an unknown value for -F/--format.
	// Maps to exit code 2.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates a project, field, or record identifier
	// that is empty, contains URL syntax, or collides with an endpoint
	// segment. Raised before any network call.
	// Maps to exit code 2.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidToken indicates Onyx authentication failed (HTTP 401).
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid onyx token")

	// ErrPermissionDenied indicates the authenticated user lacks access
	// (HTTP 403).
	// Maps to exit code 2.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound indicates the project or record does not exist or is not
	// accessible (HTTP 404).
	// Maps to exit code 2.
	ErrNotFound = errors.New("not found")

	// ErrRequestFailed indicates the service rejected a request for any
	// other reason; the wrapped message carries the server's detail.
	// Maps to exit code 1.
	ErrRequestFailed = errors.New("request failed")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrBadResponse indicates a response body that could not be decoded
	// against the service envelope.
	// Maps to exit code 1.
	ErrBadResponse = errors.New("malformed service response")
)
