// Package documents tracks the open text documents the editor has handed to
// the server. The store is the single source of truth for in-memory document
// text; validation and outline requests read from it rather than from disk.
package documents

import (
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/uri"
)

// LanguageID values the server handles
const (
	LanguageLiveCode       = "livecode"
	LanguageLiveCodeScript = "livecodescript"
)

// Document is one open text document
type Document struct {
	URI        uri.URI
	LanguageID string
	Version    int32
	Text       string
}

// Lines splits the document text into lines, tolerating CRLF and bare CR
// terminators.
func (d *Document) Lines() []string {
	text := strings.ReplaceAll(d.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Line returns the text of a single 0-based line, or "" when out of range.
func (d *Document) Line(n int) string {
	lines := d.Lines()
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}

// Path returns the document's filesystem path
func (d *Document) Path() string {
	return d.URI.Filename()
}

// Store holds all open documents keyed by URI
type Store struct {
	mu   sync.RWMutex
	docs map[uri.URI]*Document
}

// NewStore creates an empty document store
func NewStore() *Store {
	return &Store{
		docs: make(map[uri.URI]*Document),
	}
}

// Open registers a document with its initial content
func (s *Store) Open(docURI uri.URI, languageID string, version int32, text string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{
		URI:        docURI,
		LanguageID: languageID,
		Version:    version,
		Text:       text,
	}
	s.docs[docURI] = doc
	return doc
}

// Update replaces a document's content. Returns nil when the document is not
// tracked.
func (s *Store) Update(docURI uri.URI, version int32, text string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[docURI]
	if !ok {
		return nil
	}
	doc.Text = text
	doc.Version = version
	return doc
}

// Get returns the tracked document, or nil
func (s *Store) Get(docURI uri.URI) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[docURI]
}

// Close removes a document from the store and reports whether it was tracked
func (s *Store) Close(docURI uri.URI) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.docs[docURI]
	delete(s.docs, docURI)
	return ok
}

// Len returns the number of open documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// DetectLanguage detects the language ID from a file URI
func DetectLanguage(docURI uri.URI) string {
	ext := strings.ToLower(filepath.Ext(docURI.Filename()))

	switch ext {
	case ".lc":
		return LanguageLiveCode
	case ".livecodescript", ".lcs":
		return LanguageLiveCodeScript
	default:
		return ""
	}
}

// IsSupported reports whether the server provides features for the language
func IsSupported(languageID string) bool {
	switch languageID {
	case LanguageLiveCode, LanguageLiveCodeScript:
		return true
	}
	return false
}
