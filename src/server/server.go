// Package server implements the LiveCode language server: the stdio LSP
// endpoint, the document outline provider and the validation pipeline
// wiring.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"livecode-ls/src/config"
	"livecode-ls/src/internal/common"
	"livecode-ls/src/server/documents"
	"livecode-ls/src/server/process"
	"livecode-ls/src/server/validation"
)

// Version is the server version reported to the client
const Version = "0.2.0"

// Server is one LSP session over stdio
type Server struct {
	conn      jsonrpc2.Conn
	store     *documents.Store
	validator *validation.Validator
	publisher *DiagnosticsPublisher

	configPath    string
	workspaceRoot string
	watcher       *config.Watcher

	shutdownRequested bool
}

// NewServer creates a server for the given connection. configPath may be
// empty; settings then resolve through the workspace and user tiers.
func NewServer(conn jsonrpc2.Conn, configPath string) *Server {
	publisher := NewDiagnosticsPublisher(conn)
	cfg, source := config.LoadConfigWithFallback(configPath, "")

	s := &Server{
		conn:       conn,
		store:      documents.NewStore(),
		publisher:  publisher,
		configPath: configPath,
	}
	s.validator = validation.NewValidator(cfg, process.NewExecRunner(), publisher, s.showError)

	if source != "" {
		common.ServerLogger.Info("Loaded configuration from %s", source)
	}
	return s
}

// Run serves the LSP session until the client disconnects or asks to exit
func Run(ctx context.Context, configPath string) error {
	stream := jsonrpc2.NewStream(newStdioConn())
	conn := jsonrpc2.NewConn(stream)

	s := NewServer(conn, configPath)
	conn.Go(ctx, s.Handle)

	common.ServerLogger.Info("LiveCode language server %s listening on stdio", Version)
	<-conn.Done()

	s.close()
	if err := conn.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}

func (s *Server) close() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	s.validator.Shutdown()
}

// Handle dispatches one incoming LSP request or notification
func (s *Server) Handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case protocol.MethodInitialize:
		return s.handleInitialize(ctx, reply, req)
	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)
	case protocol.MethodShutdown:
		s.shutdownRequested = true
		s.validator.Shutdown()
		return reply(ctx, nil, nil)
	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		s.conn.Close()
		return err
	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(ctx, reply, req)
	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(ctx, reply, req)
	case protocol.MethodTextDocumentDidSave:
		return s.handleDidSave(ctx, reply, req)
	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(ctx, reply, req)
	case protocol.MethodTextDocumentDocumentSymbol:
		return s.handleDocumentSymbol(ctx, reply, req)
	case protocol.MethodWorkspaceDidChangeConfiguration:
		s.reloadConfig()
		return reply(ctx, nil, nil)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
	}

	if strings.HasPrefix(string(params.RootURI), "file://") {
		s.workspaceRoot = params.RootURI.Filename()
	}
	s.validator.SetTrusted(workspaceTrusted(params.InitializationOptions))
	s.reloadConfig()
	s.startConfigWatcher()

	result := &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: false},
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "livecode-ls",
			Version: Version,
		},
	}
	return reply(ctx, result, nil)
}

// workspaceTrusted reads the trust flag the editor passes through
// initializationOptions. Clients without a trust model omit it; they get
// full functionality.
func workspaceTrusted(options interface{}) bool {
	opts, ok := options.(map[string]interface{})
	if !ok {
		return true
	}
	trusted, ok := opts["trusted"].(bool)
	if !ok {
		return true
	}
	return trusted
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	item := params.TextDocument
	languageID := string(item.LanguageID)
	if languageID == "" {
		languageID = documents.DetectLanguage(item.URI)
	}
	doc := s.store.Open(item.URI, languageID, item.Version, item.Text)

	s.validator.HandleEvent(validation.EventOpen, doc)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	// Full sync: the last change carries the complete document text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc := s.store.Update(params.TextDocument.URI, params.TextDocument.Version, text)
	if doc == nil {
		common.ServerLogger.Warn("Change for untracked document %s", params.TextDocument.URI)
		return reply(ctx, nil, nil)
	}

	s.validator.HandleEvent(validation.EventChange, doc)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	doc := s.store.Get(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, nil, nil)
	}

	s.validator.HandleEvent(validation.EventSave, doc)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.store.Close(params.TextDocument.URI)
	s.validator.CloseDocument(params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	doc := s.store.Get(params.TextDocument.URI)
	if doc == nil {
		// Outline requests never fail for content reasons.
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}

	return reply(ctx, DocumentSymbols(doc), nil)
}

// reloadConfig re-resolves settings and hands them to the validator,
// clearing any paused state.
func (s *Server) reloadConfig() {
	cfg, source := config.LoadConfigWithFallback(s.configPath, s.workspaceRoot)
	if source != "" {
		common.ServerLogger.Info("Configuration loaded from %s", source)
	}
	s.validator.UpdateConfig(cfg)
}

// startConfigWatcher watches the active config file so edits outside the
// editor's settings flow also reload the pipeline.
func (s *Server) startConfigWatcher() {
	if s.watcher != nil {
		return
	}

	path := s.configPath
	if path == "" && s.workspaceRoot != "" {
		path = config.GetWorkspaceConfigPath(s.workspaceRoot)
	}
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	w, err := config.NewWatcher(path, s.reloadConfig)
	if err != nil {
		common.ServerLogger.Warn("Config watcher unavailable: %v", err)
		return
	}
	s.watcher = w
}

// showError surfaces a validation failure to the user
func (s *Server) showError(message string) {
	params := &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	}
	if err := s.conn.Notify(context.Background(), protocol.MethodWindowShowMessage, params); err != nil {
		common.ServerLogger.Warn("Failed to deliver message to client: %v", err)
	}
}
