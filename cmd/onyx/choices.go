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
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/onyxhq/onyx-cli/internal/render"
)

// choicesCmd represents the choices command
func newChoicesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choices <project> <field>",
		Short: "List the options of a choice field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChoices(cmd.Context(), opts, args[0], args[1], cmd.OutOrStdout())
		},
	}

	return cmd
}

// runChoices executes the choices command
func runChoices(ctx context.Context, opts *globalOptions, project, field string, out io.Writer) error {
	client, _, err := opts.setupClient()
	if err != nil {
		return err
	}

	choices, err := client.Choices(ctx, project, field)
	if err != nil {
		return err
	}

	t := render.NewTable(out)
	t.AppendHeader(table.Row{"Field", "Values"})
	t.AppendRow(table.Row{field, strings.Join(choices, ", ")})
	t.Render()
	return nil
}
