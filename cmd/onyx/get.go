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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
	"github.com/onyxhq/onyx-cli/internal/onyx"
)

// getCmd represents the get command
func newGetCommand(opts *globalOptions) *cobra.Command {
	var (
		include []string
		exclude []string
		scope   []string
	)

	cmd := &cobra.Command{
		Use:   "get <project> <climb-id>",
		Short: "Fetch a single record by its identifier",
		Long: `Fetch one record of a project by its CLIMB identifier and print it as
indented JSON, preserving the service's field order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), opts, args[0], args[1], include, exclude, scope, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&include, "include", "i", nil, "Restrict the record to this field (repeatable)")
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "e", nil, "Drop this field from the record (repeatable)")
	cmd.Flags().StringArrayVarP(&scope, "scope", "s", nil, "Extend the record with this scope (repeatable)")

	return cmd
}

// runGet executes the get command
func runGet(ctx context.Context, opts *globalOptions, project, recordID string, include, exclude, scope []string, out io.Writer) error {
	client, cfg, err := opts.setupClient()
	if err != nil {
		return err
	}

	data, err := client.Get(ctx, project, recordID, onyx.RecordQuery{
		Include: include,
		Exclude: exclude,
		Scope:   append(cfg.ScopeFor(project), scope...),
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return fmt.Errorf("record is not valid JSON: %w", onyxerrors.ErrBadResponse)
	}
	buf.WriteByte('\n')
	_, err = out.Write(buf.Bytes())
	return err
}
