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
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// adminCmd groups the site administration commands
func newAdminCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer accounts (requires admin permissions)",
	}

	cmd.AddCommand(
		newWaitingCommand(opts),
		newApproveCommand(opts),
		newAllUsersCommand(opts),
	)

	return cmd
}

// waitingCmd represents the admin waiting command
func newWaitingCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "waiting",
		Short: "List users awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWaiting(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

// runWaiting executes the admin waiting command
func runWaiting(ctx context.Context, opts *globalOptions, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	users, err := client.Waiting(ctx)
	if err != nil {
		return err
	}

	userTable(out, users, true)
	return nil
}

// approveCmd represents the admin approve command
func newApproveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <username>",
		Short: "Approve a waiting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApprove(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
}

// runApprove executes the admin approve command
func runApprove(ctx context.Context, opts *globalOptions, username string, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	approval, err := client.Approve(ctx, username)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "[SUCCESS] Approved user: %s\n", approval.Username)
	return nil
}

// allusersCmd represents the admin allusers command
func newAllUsersCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "allusers",
		Short: "List users across all sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllUsers(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

// runAllUsers executes the admin allusers command
func runAllUsers(ctx context.Context, opts *globalOptions, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	users, err := client.AllUsers(ctx)
	if err != nil {
		return err
	}

	userTable(out, users, false)
	return nil
}
