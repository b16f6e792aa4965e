package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckerLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected CheckerDiagnostic
		ok       bool
	}{
		{
			name:     "Parse error",
			line:     "Parse error: bad token in test.lc on line 5",
			expected: CheckerDiagnostic{Message: "bad token", Filename: "test.lc", Line: 5},
			ok:       true,
		},
		{
			name:     "Fatal error",
			line:     "Fatal error: unexpected end of file in stack.livecodescript on line 120",
			expected: CheckerDiagnostic{Message: "unexpected end of file", Filename: "stack.livecodescript", Line: 120},
			ok:       true,
		},
		{
			name:     "Message containing ' in '",
			line:     "Parse error: 'put' not allowed in this context in script.lc on line 7",
			expected: CheckerDiagnostic{Message: "'put' not allowed in this context", Filename: "script.lc", Line: 7},
			ok:       true,
		},
		{
			name: "Warning lines ignored",
			line: "Warning: something minor in test.lc on line 3",
		},
		{
			name: "Free-form output ignored",
			line: "checking test.lc...",
		},
		{
			name: "Missing line number ignored",
			line: "Parse error: bad token in test.lc",
		},
		{
			name: "Empty line ignored",
			line: "",
		},
		{
			name: "Line zero ignored",
			line: "Parse error: odd in test.lc on line 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCheckerLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestToLSPDiagnostic(t *testing.T) {
	diag := toLSPDiagnostic(CheckerDiagnostic{Message: "bad token", Filename: "test.lc", Line: 5}, 17)

	assert.Equal(t, "bad token", diag.Message)
	assert.Equal(t, diagnosticSource, diag.Source)
	require.Equal(t, uint32(4), diag.Range.Start.Line, "1-based checker line becomes 0-based")
	assert.Equal(t, uint32(0), diag.Range.Start.Character)
	assert.Equal(t, uint32(4), diag.Range.End.Line)
	assert.Equal(t, uint32(17), diag.Range.End.Character)
}
