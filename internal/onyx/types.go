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

package onyx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the result of one paginated HTTP round trip. It is immutable
// after construction and owned by whichever consumer pulled it; at most one
// page per stream is alive at any moment.
type Page struct {
	// OK is false when the page itself is an error response. The fetcher
	// never interprets error bodies; that is the caller's job.
	OK bool

	// StatusCode is the HTTP status of the round trip.
	StatusCode int

	// Body holds the raw response body of an error page. Nil when OK.
	Body []byte

	// Records holds the page's data elements, each element's bytes exactly
	// as the service sent them. Nil when not OK.
	Records []json.RawMessage

	// HasPrevious reports whether the service advertised an earlier page.
	HasPrevious bool

	// HasNext reports whether the service advertised a later page.
	HasNext bool

	// NextURL is the server-minted continuation URL for the next page.
	// Empty when HasNext is false.
	NextURL string
}

// Record is one result row. It preserves the service's field order, which
// drives column order in delimited and tabular output.
type Record struct {
	keys []string
	vals map[string]json.RawMessage
}

// UnmarshalJSON decodes a JSON object while recording key order, which
// encoding/json's map decoding would lose.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %s", tok)
	}

	r.keys = nil
	r.vals = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		if _, dup := r.vals[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.vals[key] = raw
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Keys returns the field names in service order.
func (r Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Get returns the raw JSON value for a field.
func (r Record) Get(key string) (json.RawMessage, bool) {
	raw, ok := r.vals[key]
	return raw, ok
}

// Display renders a field value for delimited or tabular output: strings
// bare, null empty, numbers and booleans as their JSON literals, nested
// objects and arrays as compact JSON.
func (r Record) Display(key string) string {
	raw, ok := r.vals[key]
	if !ok {
		return ""
	}
	return displayValue(raw)
}

func displayValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err == nil {
		return buf.String()
	}
	return string(trimmed)
}

// FieldSpec describes one field in a project's schema. Relation fields
// carry their children in Fields; all other types are leaves.
type FieldSpec struct {
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Required    bool      `json:"required"`
	Values      []string  `json:"values"`
	Fields      *FieldMap `json:"fields"`
}

// FieldMap is an ordered name-to-spec mapping. The service's field order is
// the display order, so plain map decoding is not an option.
type FieldMap struct {
	names []string
	specs map[string]FieldSpec
}

// UnmarshalJSON decodes the mapping while recording key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("field specification must be a JSON object, got %s", tok)
	}

	m.names = nil
	m.specs = make(map[string]FieldSpec)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("field name must be a string, got %v", tok)
		}

		var spec FieldSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}

		if _, dup := m.specs[name]; !dup {
			m.names = append(m.names, name)
		}
		m.specs[name] = spec
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Names returns the field names in service order.
func (m *FieldMap) Names() []string {
	if m == nil {
		return nil
	}
	return m.names
}

// Get returns the spec for a field name.
func (m *FieldMap) Get(name string) (FieldSpec, bool) {
	if m == nil {
		return FieldSpec{}, false
	}
	spec, ok := m.specs[name]
	return spec, ok
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// ProjectFields is the response of the fields endpoint: a schema version
// plus the project's field tree.
type ProjectFields struct {
	Version string    `json:"version"`
	Fields  *FieldMap `json:"fields"`
}

// Project is one row of the projects listing: an action the caller may
// perform on a project under a given scope.
type Project struct {
	Project string `json:"project"`
	Action  string `json:"action"`
	Scope   string `json:"scope"`
}

// User is an account record as returned by the profile, site, all, and
// waiting endpoints. DateJoined is only populated by the waiting endpoint.
type User struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Site       string `json:"site"`
	DateJoined string `json:"date_joined,omitempty"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Site      string `json:"site"`
	Password  string `json:"password"`
}

// Auth is the response of the login endpoint. Expiry is passed through as
// the service formats it.
type Auth struct {
	Token  string `json:"token"`
	Expiry string `json:"expiry"`
}

// Approval is the response of the approve endpoint.
type Approval struct {
	Username   string `json:"username"`
	IsApproved bool   `json:"is_approved"`
}
