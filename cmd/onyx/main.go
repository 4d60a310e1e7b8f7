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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/onyxhq/onyx-cli/internal/config"
	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
	"github.com/onyxhq/onyx-cli/internal/onyx"
	"github.com/onyxhq/onyx-cli/internal/tokencache"
	"github.com/onyxhq/onyx-cli/pkg/version"
)

// globalOptions carries the persistent flags shared by every command.
type globalOptions struct {
	domain     string
	token      string
	username   string
	password   string
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "onyx",
		Short: "Command-line client for Onyx data services",
		Long: fmt.Sprintf(`Onyx is a command-line client for record-oriented Onyx data services.
It streams filter results page by page and renders them as a JSON array,
CSV, TSV, or a table, holding at most one result page in memory.

Client Version: %s`, version.Version),
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.domain, "domain", "d", "", "Onyx service domain (overrides ONYX_DOMAIN env var and config)")
	pf.StringVarP(&opts.token, "token", "t", "", "Auth token (overrides ONYX_TOKEN env var and the token cache)")
	pf.StringVarP(&opts.username, "username", "u", "", "Account username (overrides ONYX_USERNAME env var)")
	pf.StringVarP(&opts.password, "password", "p", "", "Account password (overrides ONYX_PASSWORD env var)")
	pf.StringVar(&opts.configFile, "config", "", "Config file path (default: .onyx.yaml, then ~/.onyx/config.yaml)")

	// Pre-register the version flag so it gets the -v shorthand.
	rootCmd.Flags().BoolP("version", "v", false, "version for onyx")

	rootCmd.AddCommand(
		newProjectsCommand(opts),
		newFieldsCommand(opts),
		newChoicesCommand(opts),
		newGetCommand(opts),
		newFilterCommand(opts),
		newProfileCommand(opts),
		newSiteUsersCommand(opts),
		newAuthCommand(opts),
		newAdminCommand(opts),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// loadConfig resolves configuration from file, environment, and flags.
func (g *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(g.configFile)
	if err != nil {
		return nil, err
	}
	if g.domain != "" {
		cfg.Domain = strings.TrimRight(g.domain, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveUsername returns the account username from flag or environment.
func (g *globalOptions) resolveUsername() string {
	if g.username != "" {
		return g.username
	}
	return os.Getenv("ONYX_USERNAME")
}

// resolvePassword returns the account password from flag or environment.
func (g *globalOptions) resolvePassword() string {
	if g.password != "" {
		return g.password
	}
	return os.Getenv("ONYX_PASSWORD")
}

// resolveToken returns the auth token: flag first, then environment, then
// the cached token for the resolved domain. A corrupt cache entry is
// reported but never fatal; the command proceeds unauthenticated.
func (g *globalOptions) resolveToken(cfg *config.Config) string {
	if g.token != "" {
		return g.token
	}
	if token := os.Getenv("ONYX_TOKEN"); token != "" {
		return token
	}
	if cfg.Domain == "" {
		return ""
	}

	cached, err := tokencache.LoadToken(tokencache.GetTokenFilePath(cfg.Defaults.TokenDir, cfg.Domain))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring cached token: %v\n", err)
		}
		return ""
	}
	return cached.Token
}

// setupClient builds the service client from flags, environment, and
// config.
func (g *globalOptions) setupClient() (*onyx.Client, *config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	clientOpts := []onyx.Option{
		onyx.WithToken(g.resolveToken(cfg)),
		onyx.WithCredentials(g.resolveUsername(), g.resolvePassword()),
		onyx.WithTimeout(time.Duration(cfg.Defaults.RequestTimeout) * time.Second),
	}
	if cfg.Defaults.RateLimit > 0 {
		clientOpts = append(clientOpts, onyx.WithRateLimit(cfg.Defaults.RateLimit))
	}

	client, err := onyx.New(cfg.Domain, clientOpts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Configuration, usage, and authorization errors
	if errors.Is(err, onyxerrors.ErrMalformedCriterion) ||
		errors.Is(err, onyxerrors.ErrMissingDomain) ||
		errors.Is(err, onyxerrors.ErrMissingCredentials) ||
		errors.Is(err, onyxerrors.ErrInvalidFormat) ||
		errors.Is(err, onyxerrors.ErrInvalidArgument) ||
		errors.Is(err, onyxerrors.ErrInvalidToken) ||
		errors.Is(err, onyxerrors.ErrPermissionDenied) ||
		errors.Is(err, onyxerrors.ErrNotFound) {
		return 2
	}

	if errors.Is(err, onyxerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
