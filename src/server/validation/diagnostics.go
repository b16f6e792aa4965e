package validation

import (
	"regexp"
	"strconv"

	"go.lsp.dev/protocol"
)

// diagnosticSource labels published diagnostics in the editor UI
const diagnosticSource = "livecode"

// checkerLinePattern is the fixed shape of a checker diagnostic line:
//
//	(Parse error|Fatal error): <message> in <filename> on line <N>
//
// The message group is greedy and the filename group is not, so a message
// containing " in " still parses. Lines of any other shape are ignored.
var checkerLinePattern = regexp.MustCompile(`^(?:Parse|Fatal) error: (.*) in (.*?) on line (\d+)$`)

// CheckerDiagnostic is one parsed checker output line
type CheckerDiagnostic struct {
	Message  string
	Filename string
	// Line is 1-based as printed by the checker
	Line int
}

// ParseCheckerLine parses one line of checker output. The second return
// value is false for lines that do not match the diagnostic pattern.
func ParseCheckerLine(line string) (CheckerDiagnostic, bool) {
	match := checkerLinePattern.FindStringSubmatch(line)
	if match == nil {
		return CheckerDiagnostic{}, false
	}

	lineNo, err := strconv.Atoi(match[3])
	if err != nil || lineNo < 1 {
		return CheckerDiagnostic{}, false
	}

	return CheckerDiagnostic{
		Message:  match[1],
		Filename: match[2],
		Line:     lineNo,
	}, true
}

// toLSPDiagnostic converts a parsed checker line into an LSP diagnostic
// positioned over the whole source line. lineLength lets the range cover
// the actual text; the checker's 1-based line becomes 0-based here.
func toLSPDiagnostic(d CheckerDiagnostic, lineLength int) protocol.Diagnostic {
	line := uint32(d.Line - 1)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line, Character: uint32(lineLength)},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}
