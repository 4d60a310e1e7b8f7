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

	"github.com/onyxhq/onyx-cli/internal/render"
)

// projectsCmd represents the projects command
func newProjectsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects you can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

// runProjects executes the projects command
func runProjects(ctx context.Context, opts *globalOptions, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	projects, err := client.Projects(ctx)
	if err != nil {
		return err
	}

	t := render.NewTable(out)
	t.AppendHeader(table.Row{"Project", "Action", "Scope"})
	for _, p := range projects {
		t.AppendRow(table.Row{p.Project, p.Action, p.Scope})
	}
	t.Render()
	return nil
}
