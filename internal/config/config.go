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

// Package config provides configuration management for the onyx client with
// support for multiple configuration sources and a well-defined precedence
// order. It lets deployments pin their Onyx domain and client behavior in a
// file while keeping flexibility with environment variables and
// command-line overrides.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .onyx.yaml (current directory)
//   - .onyx.yml (current directory)
//   - ~/.onyx/config.yaml
//   - ~/.onyx/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on directory paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".onyx.yaml",
			".onyx.yml",
			filepath.Join(os.Getenv("HOME"), ".onyx", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".onyx", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Defaults.TokenDir = expandPath(cfg.Defaults.TokenDir)

	// A trailing slash on the domain would double up in endpoint URLs.
	cfg.Domain = strings.TrimRight(cfg.Domain, "/")

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if domain := os.Getenv("ONYX_DOMAIN"); domain != "" {
		cfg.Domain = domain
	}
	if tokenDir := os.Getenv("ONYX_TOKEN_DIR"); tokenDir != "" {
		cfg.Defaults.TokenDir = tokenDir
	}
	if timeout := os.Getenv("ONYX_REQUEST_TIMEOUT"); timeout != "" {
		if secs, err := parsePositiveInt(timeout); err == nil {
			cfg.Defaults.RequestTimeout = secs
		}
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// ScopeFor returns the configured default scope for a project, or nil when
// the project has no entry. Flag-provided scopes are appended after these
// by the command layer.
func (c *Config) ScopeFor(project string) []string {
	if projectConfig, ok := c.Projects[project]; ok {
		return projectConfig.Scope
	}
	return nil
}

// Validate checks if the configuration contains valid values. It ensures
// the domain, when set, is an absolute http(s) URL and that numeric
// settings are sane. This should be called after loading configuration to
// catch invalid settings early.
func (c *Config) Validate() error {
	if c.Domain != "" {
		u, err := url.Parse(c.Domain)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("domain must be an absolute http(s) URL, got: %s", c.Domain)
		}
	}
	if c.Defaults.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %d", c.Defaults.RequestTimeout)
	}
	if c.Defaults.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative, got: %g", c.Defaults.RateLimit)
	}
	if c.Defaults.TokenDir == "" {
		return fmt.Errorf("token directory cannot be empty")
	}
	return nil
}
