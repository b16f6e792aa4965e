package server

import (
	"go.lsp.dev/protocol"

	"livecode-ls/src/server/documents"
	"livecode-ls/src/server/scanner"
)

// symbolKindFor maps outline kinds onto the LSP symbol kind set
func symbolKindFor(kind scanner.SymbolKind) protocol.SymbolKind {
	switch kind {
	case scanner.KindPrivateHandler:
		return protocol.SymbolKindMethod
	case scanner.KindFunction:
		return protocol.SymbolKindFunction
	case scanner.KindProperty:
		return protocol.SymbolKindProperty
	case scanner.KindVariable:
		return protocol.SymbolKindVariable
	case scanner.KindComment:
		return protocol.SymbolKindString
	default:
		return protocol.SymbolKindFunction
	}
}

// DocumentSymbols scans a document and converts the outline into LSP
// document symbols. It always succeeds; empty or unclassifiable content
// yields an empty slice.
func DocumentSymbols(doc *documents.Document) []protocol.DocumentSymbol {
	lines := doc.Lines()
	return convertSymbols(scanner.Scan(lines), lines)
}

func convertSymbols(symbols []*scanner.Symbol, lines []string) []protocol.DocumentSymbol {
	converted := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		converted = append(converted, convertSymbol(sym, lines))
	}
	return converted
}

func convertSymbol(sym *scanner.Symbol, lines []string) protocol.DocumentSymbol {
	fullRange := lineSpan(sym.StartLine, sym.EndLine, lines)
	return protocol.DocumentSymbol{
		Name:           symbolName(sym),
		Detail:         sym.Detail,
		Kind:           symbolKindFor(sym.Kind),
		Range:          fullRange,
		SelectionRange: lineSpan(sym.StartLine, sym.StartLine, lines),
		Children:       convertSymbols(sym.Children, lines),
	}
}

// symbolName guards against nameless symbols from half-typed lines; the
// LSP forbids empty symbol names.
func symbolName(sym *scanner.Symbol) string {
	if sym.Name != "" {
		return sym.Name
	}
	return "(" + sym.Kind.String() + ")"
}

// lineSpan builds a range covering whole lines; the end position sits after
// the last character of the end line.
func lineSpan(startLine, endLine int, lines []string) protocol.Range {
	endChar := 0
	if endLine >= 0 && endLine < len(lines) {
		endChar = len(lines[endLine])
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(startLine), Character: 0},
		End:   protocol.Position{Line: uint32(endLine), Character: uint32(endChar)},
	}
}
