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
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/onyxhq/onyx-cli/internal/onyx"
	"github.com/onyxhq/onyx-cli/internal/render"
)

// profileCmd represents the profile command
func newProfileCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your account details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

// runProfile executes the profile command
func runProfile(ctx context.Context, opts *globalOptions, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	user, err := client.Profile(ctx)
	if err != nil {
		return err
	}

	userTable(out, []onyx.User{*user}, false)
	return nil
}

// siteusersCmd represents the siteusers command
func newSiteUsersCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteusers",
		Short: "List users of your site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSiteUsers(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

// runSiteUsers executes the siteusers command
func runSiteUsers(ctx context.Context, opts *globalOptions, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	users, err := client.SiteUsers(ctx)
	if err != nil {
		return err
	}

	userTable(out, users, false)
	return nil
}

// userTable renders account listings. The waiting listing carries the
// extra join date column.
func userTable(out io.Writer, users []onyx.User, withJoined bool) {
	t := render.NewTable(out)
	if withJoined {
		t.AppendHeader(table.Row{"Username", "Email", "Site", "Date Joined"})
	} else {
		t.AppendHeader(table.Row{"Username", "Email", "Site"})
	}
	for _, u := range users {
		if withJoined {
			t.AppendRow(table.Row{u.Username, u.Email, u.Site, u.DateJoined})
		} else {
			t.AppendRow(table.Row{u.Username, u.Email, u.Site})
		}
	}
	t.Render()
}
