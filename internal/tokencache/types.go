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

package tokencache

import (
	"time"
)

// CurrentVersion is the current token file schema version.
// Increment this when making breaking changes to the Token structure.
const CurrentVersion = 1

// Token is the persistent record of an authenticated session with one
// Onyx service domain. It is versioned and checksummed so a corrupted
// or tampered file is rejected instead of silently sending a bad
// credential.
type Token struct {
	// Version indicates the schema version of this token file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the file content (excluding this
	// field). Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Domain is the service base URL the token authenticates against.
	// Example: "https://onyx.example.org"
	Domain string `json:"domain"`

	// Username is the account the token was issued to.
	Username string `json:"username"`

	// Token is the opaque credential sent in the Authorization header.
	Token string `json:"token"`

	// Expiry is the expiry timestamp reported by the service at login,
	// kept verbatim for display.
	Expiry string `json:"expiry"`

	// ObtainedAt records when the login that produced this token
	// completed.
	ObtainedAt time.Time `json:"obtained_at"`
}
