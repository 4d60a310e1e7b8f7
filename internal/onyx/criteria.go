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
	"fmt"
	"net/url"
	"strings"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
)

// nestedFieldSeparator is what the service expects in place of dots when a
// criterion addresses a field of a relation.
const nestedFieldSeparator = "__"

// Criteria is an ordered set of filter criteria, grouped by field name in
// first-seen order. Multiple values on one field are OR'd by the service;
// how is opaque to the client, which only preserves order.
type Criteria struct {
	names  []string
	values map[string][]string
}

// BuildCriteria parses raw -f/--field arguments into Criteria. Every
// argument must use 'name=value' syntax with exactly one '='; dots in the
// name address nested relation fields and are rewritten to the separator
// the service recognizes. Malformed input fails here, before any network
// activity.
func BuildCriteria(raw []string) (*Criteria, error) {
	c := &Criteria{values: make(map[string][]string)}

	for _, arg := range raw {
		if strings.Count(arg, "=") != 1 {
			return nil, fmt.Errorf(
				"field criterion %q: 'name=value' syntax was not used (-f/--field): %w",
				arg, onyxerrors.ErrMalformedCriterion)
		}

		name, value, _ := strings.Cut(arg, "=")
		name = strings.ReplaceAll(name, ".", nestedFieldSeparator)

		if _, seen := c.values[name]; !seen {
			c.names = append(c.names, name)
		}
		c.values[name] = append(c.values[name], value)
	}

	return c, nil
}

// Len returns the total number of name/value pairs.
func (c *Criteria) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, vs := range c.values {
		n += len(vs)
	}
	return n
}

// each visits every pair in insertion order: field names in first-seen
// order, values per field in the order given.
func (c *Criteria) each(fn func(name, value string)) {
	if c == nil {
		return
	}
	for _, name := range c.names {
		for _, value := range c.values[name] {
			fn(name, value)
		}
	}
}

// FilterQuery carries everything a filter invocation sends to the service.
type FilterQuery struct {
	Criteria *Criteria
	Include  []string
	Exclude  []string
	Scope    []string
}

// Encode renders the query string for the initial page request. Criteria
// come first in their insertion order; url.Values is avoided because its
// encoder sorts keys. Continuation requests never re-encode: they use the
// server-minted next URL verbatim.
func (q FilterQuery) Encode() string {
	var sb strings.Builder

	add := func(name, value string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}

	q.Criteria.each(add)
	for _, field := range q.Include {
		add("include", field)
	}
	for _, field := range q.Exclude {
		add("exclude", field)
	}
	for _, scope := range q.Scope {
		add("scope", scope)
	}

	return sb.String()
}

// RecordQuery carries the optional parameters of a single-record get.
type RecordQuery struct {
	Include []string
	Exclude []string
	Scope   []string
}

// Encode renders the query string, empty when no parameters are set.
func (q RecordQuery) Encode() string {
	v := url.Values{}
	for _, field := range q.Include {
		v.Add("include", field)
	}
	for _, field := range q.Exclude {
		v.Add("exclude", field)
	}
	for _, scope := range q.Scope {
		v.Add("scope", scope)
	}
	return v.Encode()
}
