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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
	"github.com/onyxhq/onyx-cli/internal/onyx"
	"github.com/onyxhq/onyx-cli/internal/tokencache"
)

// authCmd groups the account session commands
func newAuthCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Create accounts and manage auth tokens",
	}

	cmd.AddCommand(
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newLogoutAllCommand(opts),
	)

	return cmd
}

// registerCmd represents the auth register command
func newRegisterCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runRegister executes the auth register command
func runRegister(ctx context.Context, opts *globalOptions, in io.Reader, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	prompter := newPrompter(in, out)
	reg := onyx.Registration{}
	if reg.FirstName, err = prompter.Line("First name: "); err != nil {
		return err
	}
	if reg.LastName, err = prompter.Line("Last name: "); err != nil {
		return err
	}
	if reg.Email, err = prompter.Line("Email address: "); err != nil {
		return err
	}
	if reg.Site, err = prompter.Line("Site code: "); err != nil {
		return err
	}
	if reg.Password, err = prompter.NewPassword(); err != nil {
		return err
	}

	user, err := client.Register(ctx, reg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "[SUCCESS] Created user: '%s'\n", user.Username)
	return nil
}

// loginCmd represents the auth login command
func newLoginCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and obtain an auth token",
		Long: `Log in with your username and password and obtain an auth token.

The token is cached on disk for subsequent commands and also printed so
it can be assigned to the ONYX_TOKEN environment variable. Credentials
not supplied via flags or environment are prompted for; the password
prompt hides its input on a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runLogin executes the auth login command
func runLogin(ctx context.Context, opts *globalOptions, in io.Reader, out io.Writer) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	prompter := newPrompter(in, out)
	username := opts.resolveUsername()
	if username == "" {
		if username, err = prompter.Line("Username: "); err != nil {
			return err
		}
	}
	password := opts.resolvePassword()
	if password == "" {
		if password, err = prompter.Password("Password: "); err != nil {
			return err
		}
	}

	client, err := onyx.New(cfg.Domain,
		onyx.WithCredentials(username, password),
		onyx.WithTimeout(time.Duration(cfg.Defaults.RequestTimeout)*time.Second),
	)
	if err != nil {
		return err
	}

	auth, err := client.Login(ctx)
	if err != nil {
		return err
	}

	// A failed cache write is reported but does not fail the login; the
	// token is still printed below.
	tokenFile := tokencache.GetTokenFilePath(cfg.Defaults.TokenDir, cfg.Domain)
	if err := tokencache.SaveToken(&tokencache.Token{
		Domain:     cfg.Domain,
		Username:   username,
		Token:      auth.Token,
		Expiry:     auth.Expiry,
		ObtainedAt: time.Now().UTC(),
	}, tokenFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not cache token: %v\n", err)
	}

	fmt.Fprintf(out, "[SUCCESS] Logged in as user: '%s'\n", username)
	fmt.Fprintf(out, "[NOTE] Obtained token: '%s'\n", auth.Token)
	fmt.Fprintf(out, "[NOTE] To authenticate, assign this token to the following environment variable: 'ONYX_TOKEN'\n")
	return nil
}

// logoutCmd represents the auth logout command
func newLogoutCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out this client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), opts, cmd.OutOrStdout(), false)
		},
	}
}

// logoutallCmd represents the auth logoutall command
func newLogoutAllCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logoutall",
		Short: "Log out across all clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), opts, cmd.OutOrStdout(), true)
		},
	}
}

// runLogout executes the auth logout and logoutall commands. The cached
// token is removed once the service has invalidated it.
func runLogout(ctx context.Context, opts *globalOptions, out io.Writer, all bool) error {
	client, cfg, err := opts.setupClient()
	if err != nil {
		return err
	}

	if all {
		err = client.LogoutAll(ctx)
	} else {
		err = client.Logout(ctx)
	}
	if err != nil {
		return err
	}

	tokenFile := tokencache.GetTokenFilePath(cfg.Defaults.TokenDir, cfg.Domain)
	if err := tokencache.DeleteToken(tokenFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not remove cached token: %v\n", err)
	}

	if all {
		fmt.Fprintln(out, "[SUCCESS] Logged out across all clients.")
	} else {
		fmt.Fprintln(out, "[SUCCESS] Logged out.")
	}
	return nil
}

// prompter reads interactive input. Password input is hidden when the
// input is a real terminal and read as a plain line otherwise, which
// keeps piped and scripted invocations working.
type prompter struct {
	in  io.Reader
	out io.Writer
	rd  *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, rd: bufio.NewReader(in)}
}

// Line prompts for one line of input and returns it trimmed.
func (p *prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.rd.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Password prompts for a password, hiding the input on a terminal.
func (p *prompter) Password(prompt string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(secret), nil
	}
	return p.Line(prompt)
}

// NewPassword prompts for a password twice and requires both entries to
// match.
func (p *prompter) NewPassword() (string, error) {
	password, err := p.Password("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := p.Password("Password (again): ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match: %w", onyxerrors.ErrMissingCredentials)
	}
	return password, nil
}
