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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// GetTokenFilePath returns the standard path for a domain's token file.
// The file name is derived from the domain's host so tokens for
// different services never collide.
// Returns: <tokenDir>/<host>.token
func GetTokenFilePath(tokenDir, domain string) string {
	host := domain
	if u, err := url.Parse(domain); err == nil && u.Host != "" {
		host = u.Host
	}

	// Replace path and port separators for filesystem compatibility
	safeName := strings.NewReplacer("/", "-", ":", "-").Replace(host)

	return filepath.Join(tokenDir, safeName+".token")
}

// SaveToken atomically saves the token to disk with integrity validation.
// It uses a write-to-temp-and-rename pattern to ensure atomicity. The
// cache directory and the file are only accessible to the owning user.
func SaveToken(tok *Token, tokenFile string) error {
	// Set version to current
	tok.Version = CurrentVersion

	// Calculate checksum before adding it to the struct
	checksum, err := calculateChecksum(tok)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	tok.Checksum = checksum

	// Ensure the directory exists, owner-only: the file is a credential
	tokenDir := filepath.Dir(tokenFile)
	if mkdirErr := os.MkdirAll(tokenDir, 0o700); mkdirErr != nil {
		return fmt.Errorf("failed to create token directory: %w", mkdirErr)
	}

	// Create a temporary file in the same directory
	tempFile := tokenFile + ".tmp"

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Write to temporary file with restricted permissions
	if writeErr := os.WriteFile(tempFile, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write temporary token file: %w", writeErr)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, tokenFile); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// LoadToken reads and validates a cached token from disk. It verifies
// the checksum and version compatibility. A missing file wraps
// os.ErrNotExist so callers can treat "not logged in" as a normal
// condition.
func LoadToken(tokenFile string) (*Token, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no cached token at %s: %w", tokenFile, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", tokenFile, err)
	}

	var tok Token
	if unmarshalErr := json.Unmarshal(data, &tok); unmarshalErr != nil {
		return nil, fmt.Errorf("token file is corrupted (invalid JSON): %w", unmarshalErr)
	}

	// Check version compatibility
	if tok.Version != CurrentVersion {
		return nil, fmt.Errorf("token file version (%d) is incompatible with current version (%d)",
			tok.Version, CurrentVersion)
	}

	// Verify checksum
	savedChecksum := tok.Checksum
	tok.Checksum = "" // Clear for recalculation

	calculatedChecksum, err := calculateChecksum(&tok)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}

	if savedChecksum != calculatedChecksum {
		return nil, fmt.Errorf("token file is corrupted (checksum mismatch)")
	}

	// Restore the checksum field
	tok.Checksum = savedChecksum

	return &tok, nil
}

// DeleteToken removes the token file for a domain. Deleting a token
// that does not exist is not an error.
func DeleteToken(tokenFile string) error {
	err := os.Remove(tokenFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// calculateChecksum computes the SHA256 hash of the token content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(tok *Token) (string, error) {
	// Create a copy without the checksum field
	tokCopy := *tok
	tokCopy.Checksum = ""

	// Marshal to JSON for consistent hashing
	data, err := json.Marshal(tokCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
