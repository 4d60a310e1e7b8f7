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

// Package tokencache provides atomic persistence for Onyx auth tokens.
//
// A successful login stores one token file per service domain so later
// invocations can authenticate without prompting. Files are written with
// a write-to-temp-and-rename pattern, carry a SHA256 checksum for
// integrity validation, and a schema version for forward compatibility.
// Token files hold credentials, so both the cache directory and the
// files themselves are restricted to the owning user.
//
// Example usage:
//
//	tok := &Token{
//	    Domain:   "https://onyx.example.org",
//	    Username: "ada",
//	    Token:    "0a1b2c...",
//	}
//	err := SaveToken(tok, GetTokenFilePath(dir, tok.Domain))
package tokencache
