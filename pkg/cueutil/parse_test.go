// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	name:     string
	count:    int & >=0
	enabled:  bool
	mode?:    "fast" | "slow"
}
`

type testSettings struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Enabled bool   `json:"enabled"`
	Mode    string `json:"mode,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    testSettings
		wantErr string
	}{
		{
			name: "all fields",
			data: "name: \"a\"\ncount: 3\nenabled: true\nmode: \"fast\"\n",
			want: testSettings{Name: "a", Count: 3, Enabled: true, Mode: "fast"},
		},
		{
			name: "optional field omitted",
			data: "name: \"b\"\ncount: 0\nenabled: false\n",
			want: testSettings{Name: "b"},
		},
		{
			name:    "wrong type",
			data:    "name: \"c\"\ncount: \"many\"\nenabled: true\n",
			wantErr: "count",
		},
		{
			name:    "constraint violated",
			data:    "name: \"d\"\ncount: -1\nenabled: true\n",
			wantErr: "count",
		},
		{
			name:    "disjunction violated",
			data:    "name: \"e\"\ncount: 1\nenabled: true\nmode: \"medium\"\n",
			wantErr: "mode",
		},
		{
			name:    "missing required field",
			data:    "name: \"f\"\nenabled: true\n",
			wantErr: "count",
		},
		{
			name:    "unknown field",
			data:    "name: \"g\"\ncount: 1\nenabled: true\nextra: 1\n",
			wantErr: "extra",
		},
		{
			name:    "syntax error",
			data:    "name: {{{",
			wantErr: "settings.cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(tt.data), "#Settings", WithFilename("settings.cue"))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got value %+v", tt.wantErr, res.Value)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "settings.cue") {
					t.Errorf("error %q should name the file", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAndDecode() error = %v", err)
			}
			if *res.Value != tt.want {
				t.Errorf("Value = %+v, want %+v", *res.Value, tt.want)
			}
			if res.Unified.Err() != nil {
				t.Errorf("Unified has error: %v", res.Unified.Err())
			}
		})
	}
}

func TestParseAndDecode_NonConcreteIntoMap(t *testing.T) {
	t.Parallel()

	schema := `#Partial: { a?: string, b?: { c?: bool } }`
	res, err := ParseAndDecode[map[string]any]([]byte(schema), []byte(`b: c: true`), "#Partial", WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	b, ok := (*res.Value)["b"].(map[string]any)
	if !ok || b["c"] != true {
		t.Errorf("Value = %v, want b.c = true", *res.Value)
	}
	if _, ok := (*res.Value)["a"]; ok {
		t.Error("unset optional field should be absent")
	}
}

func TestParseAndDecode_FileSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("a", 200))
	_, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings", WithMaxFileSize(100))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}
	if !strings.Contains(err.Error(), "<input>") {
		t.Errorf("error should use the default name, got %v", err)
	}
}

func TestParseAndDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`name: "x"`), "#Nope")
	if err == nil || !strings.Contains(err.Error(), "#Nope") {
		t.Errorf("error = %v, want missing definition", err)
	}
}
