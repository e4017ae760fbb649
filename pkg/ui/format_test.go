// pkg/ui/format_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify format names, parsing and auto-resolution

package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonhq/canon/pkg/ui"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		name   string
		format ui.Format
		want   string
	}{
		{name: "auto", format: ui.FormatAuto, want: "auto"},
		{name: "terminal", format: ui.FormatTerminal, want: "term"},
		{name: "text", format: ui.FormatText, want: "text"},
		{name: "json", format: ui.FormatJSON, want: "json"},
		{name: "out_of_range", format: ui.Format(999), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ui.Format
		wantErr bool
	}{
		{name: "auto", input: "auto", want: ui.FormatAuto},
		{name: "empty_string_is_auto", input: "", want: ui.FormatAuto},
		{name: "term", input: "term", want: ui.FormatTerminal},
		{name: "terminal_long_form", input: "terminal", want: ui.FormatTerminal},
		{name: "text", input: "text", want: ui.FormatText},
		{name: "plain_alias", input: "plain", want: ui.FormatText},
		{name: "json", input: "json", want: ui.FormatJSON},
		{name: "case_insensitive", input: "JSON", want: ui.FormatJSON},
		{name: "unknown_name", input: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConcreteFormatsPassThrough(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		assert.Equal(t, f, ui.Resolve(f, nil))
	}
}
