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

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
	"github.com/onyxhq/onyx-cli/internal/onyx"
	"github.com/onyxhq/onyx-cli/internal/render"
)

// Output formats accepted by -F/--format.
const (
	formatJSON  = "json"
	formatCSV   = "csv"
	formatTSV   = "tsv"
	formatTable = "table"
)

// filterCmd represents the filter command
func newFilterCommand(opts *globalOptions) *cobra.Command {
	var (
		criteria []string
		include  []string
		exclude  []string
		scope    []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "filter <project>",
		Short: "Stream records matching field criteria",
		Long: `Stream all records of a project that match the given field criteria.

Criteria use 'name=value' syntax and can be repeated; dots address fields
of nested relations (location.country=UK). Results arrive page by page
and are written to stdout as they arrive, so arbitrarily large result
sets stream in constant memory.

The default format is a single JSON array. With -F csv or -F tsv, rows
stream with columns taken from the first record; -F table draws a boxed
table once the stream ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.Context(), opts, args[0], criteria, include, exclude, scope, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&criteria, "field", "f", nil, "Filter criterion in 'name=value' syntax (repeatable)")
	cmd.Flags().StringArrayVarP(&include, "include", "i", nil, "Restrict results to this field (repeatable)")
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "e", nil, "Drop this field from results (repeatable)")
	cmd.Flags().StringArrayVarP(&scope, "scope", "s", nil, "Extend results with this scope (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "F", formatJSON, "Output format: json, csv, tsv or table")

	return cmd
}

// runFilter executes the filter command
func runFilter(ctx context.Context, opts *globalOptions, project string, rawCriteria, include, exclude, scope []string, format string, out io.Writer) error {
	// Format and criteria problems must surface before any network call.
	if err := validateFormat(format); err != nil {
		return err
	}
	criteria, err := onyx.BuildCriteria(rawCriteria)
	if err != nil {
		return err
	}

	client, cfg, err := opts.setupClient()
	if err != nil {
		return err
	}

	query := onyx.FilterQuery{
		Criteria: criteria,
		Include:  include,
		Exclude:  exclude,
		Scope:    append(cfg.ScopeFor(project), scope...),
	}

	switch format {
	case formatJSON:
		return streamJSON(ctx, client, project, query, out)
	case formatCSV:
		return streamRecords(ctx, client, project, query, render.NewDelimWriter(out, ','))
	case formatTSV:
		return streamRecords(ctx, client, project, query, render.NewDelimWriter(out, '\t'))
	default:
		return streamRecords(ctx, client, project, query, render.NewRecordTable(out))
	}
}

// validateFormat rejects unknown output formats.
func validateFormat(format string) error {
	switch format {
	case formatJSON, formatCSV, formatTSV, formatTable:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (choose json, csv, tsv or table): %w",
			format, onyxerrors.ErrInvalidFormat)
	}
}

// streamJSON stitches result pages into one JSON array on out. On a
// mid-stream failure everything already written stays on stdout and the
// array is left open, marking the abort point.
func streamJSON(ctx context.Context, client *onyx.Client, project string, query onyx.FilterQuery, out io.Writer) error {
	pages := client.FilterPages(ctx, project, query)
	stitcher := render.NewArrayStitcher(out)

	for pages.Next() {
		if err := stitcher.WritePage(pages.Page().Records); err != nil {
			return err
		}
	}
	if err := pages.Err(); err != nil {
		return err
	}
	return stitcher.Close()
}

// streamRecords drains the record stream into a renderer. Output already
// rendered survives a mid-stream failure; the table renderer draws its
// collected rows before the error is reported.
func streamRecords(ctx context.Context, client *onyx.Client, project string, query onyx.FilterQuery, renderer render.RecordRenderer) error {
	records := client.Filter(ctx, project, query)

	for records.Next() {
		if err := renderer.Write(records.Record()); err != nil {
			return err
		}
	}
	if err := records.Err(); err != nil {
		// Salvage whatever the renderer already holds.
		_ = renderer.Close()
		return err
	}
	return renderer.Close()
}
