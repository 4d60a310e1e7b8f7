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
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetTokenFilePath(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{
			name:   "https domain",
			domain: "https://onyx.example.org",
			want:   "onyx.example.org.token",
		},
		{
			name:   "domain with port",
			domain: "http://localhost:8000",
			want:   "localhost-8000.token",
		},
		{
			name:   "bare host",
			domain: "onyx.example.org",
			want:   "onyx.example.org.token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTokenFilePath("/tokens", tt.domain)
			want := filepath.Join("/tokens", tt.want)
			if got != want {
				t.Errorf("GetTokenFilePath(%q) = %q, want %q", tt.domain, got, want)
			}
		})
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	tempDir := t.TempDir()

	testToken := &Token{
		Domain:     "https://onyx.example.org",
		Username:   "ada",
		Token:      "0a1b2c3d4e5f",
		Expiry:     "2026-09-22T10:00:00Z",
		ObtainedAt: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
	}

	tokenFile := filepath.Join(tempDir, "test.token")

	if err := SaveToken(testToken, tokenFile); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	if _, err := os.Stat(tokenFile); err != nil {
		t.Fatalf("Token file not created: %v", err)
	}

	loaded, err := LoadToken(tokenFile)
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}

	if loaded.Domain != testToken.Domain {
		t.Errorf("Domain mismatch: got %q, want %q", loaded.Domain, testToken.Domain)
	}
	if loaded.Username != testToken.Username {
		t.Errorf("Username mismatch: got %q, want %q", loaded.Username, testToken.Username)
	}
	if loaded.Token != testToken.Token {
		t.Errorf("Token mismatch: got %q, want %q", loaded.Token, testToken.Token)
	}
	if !loaded.ObtainedAt.Equal(testToken.ObtainedAt) {
		t.Errorf("ObtainedAt mismatch: got %v, want %v", loaded.ObtainedAt, testToken.ObtainedAt)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, CurrentVersion)
	}
	if loaded.Checksum == "" {
		t.Error("Checksum should not be empty")
	}
}

func TestSaveTokenPermissions(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "cache", "perm.token")

	if err := SaveToken(&Token{Domain: "https://onyx.example.org"}, tokenFile); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	info, err := os.Stat(tokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(tokenFile))
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("token directory mode = %o, want 700", perm)
	}
}

func TestLoadToken_FileNotExist(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "nonexistent.token")

	_, err := LoadToken(tokenFile)
	if err == nil {
		t.Fatal("LoadToken should fail for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadToken error should wrap os.ErrNotExist, got: %v", err)
	}
}

func TestLoadToken_CorruptedJSON(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "corrupted.token")

	if err := os.WriteFile(tokenFile, []byte("{ invalid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadToken(tokenFile)
	if err == nil {
		t.Fatal("LoadToken should fail for corrupted JSON")
	}
	if !strings.Contains(err.Error(), "corrupted (invalid JSON)") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestLoadToken_ChecksumMismatch(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "tampered.token")

	testToken := &Token{
		Domain:   "https://onyx.example.org",
		Username: "ada",
		Token:    "0a1b2c3d4e5f",
	}

	if err := SaveToken(testToken, tokenFile); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		t.Fatal(err)
	}

	// Tamper with the stored credential
	tampered := strings.Replace(string(data), `"token":"0a1b2c3d4e5f"`, `"token":"ffffffffffff"`, 1)
	if err := os.WriteFile(tokenFile, []byte(tampered), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = LoadToken(tokenFile)
	if err == nil {
		t.Fatal("LoadToken should fail for tampered token")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestLoadToken_VersionMismatch(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "oldversion.token")

	// Write a token claiming a future schema version, with a checksum
	// consistent for that content so only the version check can fire.
	future := &Token{
		Version:  CurrentVersion + 1,
		Domain:   "https://onyx.example.org",
		Username: "ada",
	}
	checksum, err := calculateChecksum(future)
	if err != nil {
		t.Fatal(err)
	}
	future.Checksum = checksum

	data, err := json.Marshal(future)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tokenFile, data, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = LoadToken(tokenFile)
	if err == nil {
		t.Fatal("LoadToken should fail for version mismatch")
	}
	if !strings.Contains(err.Error(), "incompatible with current version") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestDeleteToken(t *testing.T) {
	tempDir := t.TempDir()
	tokenFile := filepath.Join(tempDir, "delete.token")

	testToken := &Token{
		Domain: "https://onyx.example.org",
		Token:  "0a1b2c3d4e5f",
	}
	if err := SaveToken(testToken, tokenFile); err != nil {
		t.Fatal(err)
	}

	if err := DeleteToken(tokenFile); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}

	if _, err := os.Stat(tokenFile); !os.IsNotExist(err) {
		t.Error("Token file still exists after deletion")
	}

	// Delete non-existent file should not error
	if err := DeleteToken(tokenFile); err != nil {
		t.Errorf("DeleteToken on non-existent file should not error: %v", err)
	}
}
