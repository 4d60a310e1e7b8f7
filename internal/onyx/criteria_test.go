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
	"errors"
	"strings"
	"testing"

	onyxerrors "github.com/onyxhq/onyx-cli/internal/errors"
)

func TestBuildCriteria(t *testing.T) {
	tests := []struct {
		name        string
		raw         []string
		wantErr     bool
		wantEncoded string
	}{
		{
			name:        "single criterion",
			raw:         []string{"status=active"},
			wantEncoded: "status=active",
		},
		{
			name:        "values grouped by field in first-seen order",
			raw:         []string{"status=active", "country=UK", "status=pending"},
			wantEncoded: "status=active&status=pending&country=UK",
		},
		{
			name:        "nested field dots rewritten",
			raw:         []string{"location.country=UK"},
			wantEncoded: "location__country=UK",
		},
		{
			name:        "deeply nested field",
			raw:         []string{"location.region.code=SW"},
			wantEncoded: "location__region__code=SW",
		},
		{
			name:        "empty value allowed",
			raw:         []string{"status="},
			wantEncoded: "status=",
		},
		{
			name:        "no criteria",
			raw:         nil,
			wantEncoded: "",
		},
		{
			name:    "missing equals sign",
			raw:     []string{"status"},
			wantErr: true,
		},
		{
			name:    "two equals signs",
			raw:     []string{"status=a=b"},
			wantErr: true,
		},
		{
			name:    "later argument malformed",
			raw:     []string{"status=active", "broken"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildCriteria(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("BuildCriteria() should have failed")
				}
				if !errors.Is(err, onyxerrors.ErrMalformedCriterion) {
					t.Errorf("error should wrap ErrMalformedCriterion, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCriteria() error = %v", err)
			}
			if encoded := (FilterQuery{Criteria: got}).Encode(); encoded != tt.wantEncoded {
				t.Errorf("Encode() = %q, want %q", encoded, tt.wantEncoded)
			}
		})
	}
}

func TestBuildCriteriaErrorMessage(t *testing.T) {
	_, err := BuildCriteria([]string{"nonsense"})
	if err == nil {
		t.Fatal("BuildCriteria() should have failed")
	}
	// The message must name the offending argument and the expected syntax.
	for _, want := range []string{`"nonsense"`, "'name=value' syntax was not used"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestCriteriaLen(t *testing.T) {
	crit, err := BuildCriteria([]string{"status=active", "status=pending", "country=UK"})
	if err != nil {
		t.Fatalf("BuildCriteria() error = %v", err)
	}
	if crit.Len() != 3 {
		t.Errorf("Len() = %d, want 3", crit.Len())
	}

	var nilCrit *Criteria
	if nilCrit.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", nilCrit.Len())
	}
}

func TestFilterQueryEncode(t *testing.T) {
	crit, err := BuildCriteria([]string{"status=active"})
	if err != nil {
		t.Fatalf("BuildCriteria() error = %v", err)
	}

	q := FilterQuery{
		Criteria: crit,
		Include:  []string{"sample_id", "status"},
		Exclude:  []string{"notes"},
		Scope:    []string{"mpxv"},
	}

	want := "status=active&include=sample_id&include=status&exclude=notes&scope=mpxv"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestFilterQueryEncodeEmpty(t *testing.T) {
	if got := (FilterQuery{}).Encode(); got != "" {
		t.Errorf("empty query Encode() = %q, want empty", got)
	}
}

func TestFilterQueryEncodeEscaping(t *testing.T) {
	crit, err := BuildCriteria([]string{"city=New York", "note=a&b"})
	if err != nil {
		t.Fatalf("BuildCriteria() error = %v", err)
	}

	want := "city=New+York&note=a%26b"
	if got := (FilterQuery{Criteria: crit}).Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRecordQueryEncode(t *testing.T) {
	q := RecordQuery{
		Include: []string{"sample_id"},
		Exclude: []string{"notes"},
		Scope:   []string{"mpxv"},
	}

	// url.Values sorts parameter names.
	want := "exclude=notes&include=sample_id&scope=mpxv"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	if got := (RecordQuery{}).Encode(); got != "" {
		t.Errorf("empty query Encode() = %q, want empty", got)
	}
}
