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

	"github.com/spf13/cobra"

	"github.com/onyxhq/onyx-cli/internal/render"
)

// fieldsCmd represents the fields command
func newFieldsCommand(opts *globalOptions) *cobra.Command {
	var scope []string

	cmd := &cobra.Command{
		Use:   "fields <project>",
		Short: "Show a project's field specification",
		Long: `Show the field specification of a project as a table, one row per
field. Fields nested under a relation appear as dotted paths below
their parent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd.Context(), opts, args[0], scope, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&scope, "scope", "s", nil, "Extend the specification with this scope (repeatable)")

	return cmd
}

// runFields executes the fields command
func runFields(ctx context.Context, opts *globalOptions, project string, scope []string, out io.Writer) error {
	client, cfg, err := opts.setupClient()
	if err != nil {
		return err
	}

	fields, err := client.Fields(ctx, project, append(cfg.ScopeFor(project), scope...))
	if err != nil {
		return err
	}

	render.FieldTree(out, project, fields)
	return nil
}
