package server

import (
	"context"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"livecode-ls/src/internal/common"
)

// DiagnosticsPublisher is the validation.Sink that pushes diagnostic sets
// to the editor as textDocument/publishDiagnostics notifications. It keeps
// the set of URIs it has published so Delete and Clear can retract them.
type DiagnosticsPublisher struct {
	conn jsonrpc2.Conn

	mu        sync.Mutex
	published map[uri.URI]struct{}
}

// NewDiagnosticsPublisher creates a publisher bound to an LSP connection
func NewDiagnosticsPublisher(conn jsonrpc2.Conn) *DiagnosticsPublisher {
	return &DiagnosticsPublisher{
		conn:      conn,
		published: make(map[uri.URI]struct{}),
	}
}

// Set replaces the document's diagnostics in the editor
func (p *DiagnosticsPublisher) Set(docURI uri.URI, diagnostics []protocol.Diagnostic) {
	p.mu.Lock()
	p.published[docURI] = struct{}{}
	p.mu.Unlock()

	p.send(docURI, diagnostics)
}

// Delete retracts the document's diagnostics from the editor
func (p *DiagnosticsPublisher) Delete(docURI uri.URI) {
	p.mu.Lock()
	_, ok := p.published[docURI]
	delete(p.published, docURI)
	p.mu.Unlock()

	if ok {
		p.send(docURI, []protocol.Diagnostic{})
	}
}

// Clear retracts every published diagnostic set
func (p *DiagnosticsPublisher) Clear() {
	p.mu.Lock()
	uris := make([]uri.URI, 0, len(p.published))
	for docURI := range p.published {
		uris = append(uris, docURI)
	}
	p.published = make(map[uri.URI]struct{})
	p.mu.Unlock()

	for _, docURI := range uris {
		p.send(docURI, []protocol.Diagnostic{})
	}
}

func (p *DiagnosticsPublisher) send(docURI uri.URI, diagnostics []protocol.Diagnostic) {
	params := &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diagnostics,
	}
	if err := p.conn.Notify(context.Background(), protocol.MethodTextDocumentPublishDiagnostics, params); err != nil {
		common.ServerLogger.Warn("Failed to publish diagnostics for %s: %v", docURI, err)
	}
}
