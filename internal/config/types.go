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

// Package config types define the configuration structures used throughout
// the onyx client. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for the onyx client.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	Domain   string                   `yaml:"domain"`
	Defaults DefaultsConfig           `yaml:"defaults"`
	Projects map[string]ProjectConfig `yaml:"projects"`
}

// DefaultsConfig contains default settings that apply to every request
// unless overridden by command-line flags. These settings control the core
// behavior of the HTTP client collaborator.
type DefaultsConfig struct {
	// RequestTimeout is the per-request timeout in seconds. It bounds a
	// single page fetch, never a whole result stream.
	RequestTimeout int `yaml:"request_timeout"`

	// RateLimit is the client-side request budget in requests per second.
	// Zero disables client-side throttling.
	RateLimit float64 `yaml:"rate_limit"`

	// TokenDir is where tokens obtained via `onyx auth login` are cached,
	// one file per domain host.
	TokenDir string `yaml:"token_dir"`
}

// ProjectConfig contains project-specific overrides. This is useful when a
// project is always queried with an extended scope, saving repeated -s
// flags on every invocation.
type ProjectConfig struct {
	Scope []string `yaml:"scope"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. The domain has no default; it must come from a flag, the
// ONYX_DOMAIN environment variable, or a config file.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			RequestTimeout: 30,
			RateLimit:      0,
			TokenDir:       "~/.onyx/tokens",
		},
		Projects: make(map[string]ProjectConfig),
	}
}
