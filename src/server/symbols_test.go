package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"livecode-ls/src/server/documents"
	"livecode-ls/src/server/scanner"
)

func docWith(text string) *documents.Document {
	return &documents.Document{
		URI:        uri.File("/tmp/outline.lc"),
		LanguageID: documents.LanguageLiveCode,
		Text:       text,
	}
}

func TestDocumentSymbols_HandlerWithVariable(t *testing.T) {
	symbols := DocumentSymbols(docWith("handler foo\nvariable x\nend handler\n"))

	require.Len(t, symbols, 1)
	handler := symbols[0]
	assert.Equal(t, "foo", handler.Name)
	assert.Equal(t, protocol.SymbolKindFunction, handler.Kind)
	assert.Equal(t, uint32(0), handler.Range.Start.Line)
	assert.Equal(t, uint32(2), handler.Range.End.Line)
	assert.Equal(t, uint32(len("end handler")), handler.Range.End.Character)
	assert.Equal(t, uint32(0), handler.SelectionRange.Start.Line)
	assert.Equal(t, uint32(0), handler.SelectionRange.End.Line)

	require.Len(t, handler.Children, 1)
	child := handler.Children[0]
	assert.Equal(t, "x", child.Name)
	assert.Equal(t, protocol.SymbolKindVariable, child.Kind)
}

func TestDocumentSymbols_KindMapping(t *testing.T) {
	tests := []struct {
		kind     scanner.SymbolKind
		expected protocol.SymbolKind
	}{
		{scanner.KindHandler, protocol.SymbolKindFunction},
		{scanner.KindPrivateHandler, protocol.SymbolKindMethod},
		{scanner.KindFunction, protocol.SymbolKindFunction},
		{scanner.KindProperty, protocol.SymbolKindProperty},
		{scanner.KindVariable, protocol.SymbolKindVariable},
		{scanner.KindComment, protocol.SymbolKindString},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, symbolKindFor(tt.kind), tt.kind.String())
	}
}

func TestDocumentSymbols_EmptyDocument(t *testing.T) {
	symbols := DocumentSymbols(docWith(""))
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)
}

func TestDocumentSymbols_NamelessSymbolGetsPlaceholder(t *testing.T) {
	symbols := DocumentSymbols(docWith("handler\nend handler\n"))

	require.Len(t, symbols, 1)
	assert.Equal(t, "(handler)", symbols[0].Name)
}
