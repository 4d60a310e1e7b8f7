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

package render

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/onyxhq/onyx-cli/internal/onyx"
)

// FieldTree renders a project's field specification as a table, one row
// per field in service order. Fields nested under a relation appear as
// dotted paths under their parent, so the flat table reads as a tree.
func FieldTree(w io.Writer, project string, fields *onyx.ProjectFields) {
	t := NewTable(w)
	t.SetCaption("Fields specification for the '%s' project. Version: %s", project, fields.Version)
	t.AppendHeader(table.Row{"Field", "Status", "Type", "Description", "Values"})
	appendFieldRows(t, fields.Fields, "")
	t.Render()
}

func appendFieldRows(t table.Writer, fields *onyx.FieldMap, prefix string) {
	for _, name := range fields.Names() {
		spec, ok := fields.Get(name)
		if !ok {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		status := "optional"
		if spec.Required {
			status = "required"
		}
		t.AppendRow(table.Row{
			path,
			status,
			spec.Type,
			spec.Description,
			strings.Join(spec.Values, ", "),
		})
		if spec.Type == "relation" && spec.Fields != nil {
			appendFieldRows(t, spec.Fields, path)
		}
	}
}
