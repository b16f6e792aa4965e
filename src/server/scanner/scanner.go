// Package scanner builds a document outline for LiveCode source text.
//
// The scanner is a single-pass, line-oriented heuristic, not a parser: each
// line is tokenized and classified on its own, with just enough state (a
// stack of open scopes and a block-comment flag) to reconstruct the nesting
// of handlers and variables. Malformed lines never fail a scan; anything
// that cannot be classified is skipped.
package scanner

import (
	"strings"
)

// SymbolKind classifies an outline symbol.
type SymbolKind int

const (
	KindHandler SymbolKind = iota
	KindPrivateHandler
	KindFunction
	KindProperty
	KindVariable
	KindComment
)

var symbolKindNames = map[SymbolKind]string{
	KindHandler:        "handler",
	KindPrivateHandler: "private handler",
	KindFunction:       "function",
	KindProperty:       "property",
	KindVariable:       "variable",
	KindComment:        "comment",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is one node of the document outline. StartLine and EndLine are
// 0-based source line indices, inclusive; children lie within the parent's
// range once the parent scope is closed.
type Symbol struct {
	Name      string
	Detail    string
	Kind      SymbolKind
	StartLine int
	EndLine   int
	Children  []*Symbol
}

// scope keywords that open a block closed by `end <keyword>`
const (
	kwHandler = "handler"
	kwFunc    = "function"
	kwGetter  = "getter"
	kwSetter  = "setter"
)

// openScope tracks a block between its opening keyword and the matching
// `end` line.
type openScope struct {
	keyword string
	symbol  *Symbol
}

// scanState is the per-scan mutable state: the stack of open scopes plus the
// block-comment flag. It is created per Scan call and discarded afterwards.
type scanState struct {
	stack        []*openScope
	insideBlockC bool
	topLevel     []*Symbol
}

// Scan walks the document lines in order and returns the outline symbol
// tree. It never fails on content: unknown lines are skipped, stray `end`
// lines are no-ops, and scopes still open at EOF are closed at the last
// line so a half-typed document still produces an outline.
func Scan(lines []string) []*Symbol {
	st := &scanState{}

	for i, line := range lines {
		st.scanLine(i, line)
	}

	// Close anything left open at the final line.
	last := len(lines) - 1
	if last < 0 {
		last = 0
	}
	for len(st.stack) > 0 {
		st.closeScope(last)
	}

	return st.topLevel
}

// ScanText splits text on line terminators and scans it.
func ScanText(text string) []*Symbol {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return Scan(strings.Split(text, "\n"))
}

// scanLine classifies one line and updates the scan state. Classification is
// a single ordered match: the first category that applies wins.
func (st *scanState) scanLine(lineNo int, line string) {
	if st.insideBlockC {
		if strings.Contains(line, "*/") {
			st.insideBlockC = false
		}
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "//") {
		return
	}

	// A block comment opened mid-line hides the rest of the line; anything
	// before the marker still classifies.
	if idx := strings.Index(line, "/*"); idx >= 0 {
		if !strings.Contains(line[idx+2:], "*/") {
			st.insideBlockC = true
		}
		line = line[:idx]
	}

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return
	}

	// `private`/`public` shift every keyword position by one.
	offset := 0
	visibility := ""
	if tokens[0] == "private" || tokens[0] == "public" {
		offset = 1
		visibility = tokens[0]
	}
	if len(tokens) <= offset {
		return
	}
	keyword := tokens[offset]

	switch {
	case keyword == "end":
		st.classifyEnd(lineNo, tokens[offset+1:])
	case isScopeKeyword(keyword):
		st.openSymbolScope(lineNo, keyword, visibility, tokens[offset:])
	case keyword == "variable" || keyword == "local" || keyword == "constant":
		st.classifyVariable(lineNo, tokens, offset)
	}
}

func isScopeKeyword(keyword string) bool {
	switch keyword {
	case kwHandler, kwFunc, kwGetter, kwSetter:
		return true
	}
	return false
}

// classifyEnd closes the innermost open scope when the `end` keyword matches
// it. An `end` with no open scope, or naming a different keyword, is a no-op.
func (st *scanState) classifyEnd(lineNo int, rest []string) {
	if len(st.stack) == 0 || len(rest) == 0 {
		return
	}
	top := st.stack[len(st.stack)-1]
	if rest[0] != top.keyword {
		return
	}
	st.closeScope(lineNo)
}

// closeScope pops the innermost scope, extends its range to the given line
// and appends it to its parent (or the top level when none is open).
func (st *scanState) closeScope(lineNo int) {
	top := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]

	top.symbol.EndLine = lineNo
	if len(st.stack) > 0 {
		parent := st.stack[len(st.stack)-1].symbol
		parent.Children = append(parent.Children, top.symbol)
	} else {
		st.topLevel = append(st.topLevel, top.symbol)
	}
}

// openSymbolScope pushes a new scope for handler/function/getter/setter
// lines. The symbol name is the token after the keyword and the detail is
// the one after that; both may be absent on a half-typed line.
func (st *scanState) openSymbolScope(lineNo int, keyword, visibility string, tokens []string) {
	sym := &Symbol{
		Kind:      scopeKind(keyword, visibility),
		StartLine: lineNo,
		EndLine:   lineNo,
	}
	if len(tokens) > 1 {
		sym.Name = tokens[1]
	}
	if len(tokens) > 2 {
		sym.Detail = tokens[2]
	}
	if keyword == kwGetter || keyword == kwSetter {
		sym.Detail = keyword
	}

	st.stack = append(st.stack, &openScope{keyword: keyword, symbol: sym})
}

func scopeKind(keyword, visibility string) SymbolKind {
	switch keyword {
	case kwFunc:
		return KindFunction
	case kwGetter, kwSetter:
		return KindProperty
	default:
		if visibility == "private" {
			return KindPrivateHandler
		}
		return KindHandler
	}
}

// classifyVariable emits one Variable symbol per declared name. Extraction
// walks the tokens after the keyword, skipping `=`, quote markers and
// everything inside a quoted literal, and stops at an `as` type clause.
// Each symbol's detail is the first token of the declaration line.
func (st *scanState) classifyVariable(lineNo int, tokens []string, offset int) {
	detail := tokens[0]
	insideQuote := false

	for _, token := range tokens[offset+1:] {
		if token == "\"" {
			insideQuote = !insideQuote
			continue
		}
		if insideQuote || token == "=" {
			continue
		}
		if token == "as" {
			break
		}
		name := trimListSeparators(token)
		if name == "" {
			continue
		}
		st.appendSymbol(&Symbol{
			Name:      name,
			Detail:    detail,
			Kind:      KindVariable,
			StartLine: lineNo,
			EndLine:   lineNo,
		})
	}
}

// appendSymbol attaches a completed symbol to the innermost open scope, or
// to the top level when no scope is open.
func (st *scanState) appendSymbol(sym *Symbol) {
	if len(st.stack) > 0 {
		parent := st.stack[len(st.stack)-1].symbol
		parent.Children = append(parent.Children, sym)
		return
	}
	st.topLevel = append(st.topLevel, sym)
}
