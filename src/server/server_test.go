package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// startTestSession wires a server to an in-process client over a pipe
func startTestSession(t *testing.T) jsonrpc2.Conn {
	t.Helper()

	clientSide, serverSide := net.Pipe()

	serverConn := jsonrpc2.NewConn(jsonrpc2.NewStream(serverSide))
	s := NewServer(serverConn, "")
	serverConn.Go(context.Background(), s.Handle)

	clientConn := jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide))
	clientConn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		// Swallow server-initiated notifications.
		return reply(ctx, nil, nil)
	})

	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})
	return clientConn
}

func TestServer_InitializeAndDocumentSymbol(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := startTestSession(t)

	var initResult protocol.InitializeResult
	_, err := client.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{
		InitializationOptions: map[string]interface{}{"trusted": false},
	}, &initResult)
	require.NoError(t, err)
	assert.Equal(t, "livecode-ls", initResult.ServerInfo.Name)
	assert.NotNil(t, initResult.Capabilities.DocumentSymbolProvider)

	docURI := uri.File("/tmp/session.lc")
	err = client.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: "livecode",
			Version:    1,
			Text:       "handler greet\nvariable msg\nend handler\n",
		},
	})
	require.NoError(t, err)

	var symbols []protocol.DocumentSymbol
	_, err = client.Call(ctx, protocol.MethodTextDocumentDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	}, &symbols)
	require.NoError(t, err)

	require.Len(t, symbols, 1)
	assert.Equal(t, "greet", symbols[0].Name)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "msg", symbols[0].Children[0].Name)
}

func TestServer_DocumentSymbolForUnknownDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := startTestSession(t)

	var initResult protocol.InitializeResult
	_, err := client.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{}, &initResult)
	require.NoError(t, err)

	var symbols []protocol.DocumentSymbol
	_, err = client.Call(ctx, protocol.MethodTextDocumentDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri.File("/tmp/never-opened.lc")},
	}, &symbols)

	require.NoError(t, err, "outline requests never fail for content reasons")
	assert.Empty(t, symbols)
}

func TestWorkspaceTrusted(t *testing.T) {
	assert.True(t, workspaceTrusted(nil))
	assert.True(t, workspaceTrusted(map[string]interface{}{}))
	assert.True(t, workspaceTrusted(map[string]interface{}{"trusted": true}))
	assert.False(t, workspaceTrusted(map[string]interface{}{"trusted": false}))
	assert.True(t, workspaceTrusted("garbage"))
}
