package validation

import (
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Sink receives the diagnostic sets the validator produces. A validation
// run replaces the whole set for its document; sets are never merged.
type Sink interface {
	Set(docURI uri.URI, diagnostics []protocol.Diagnostic)
	Delete(docURI uri.URI)
	Clear()
}

// MemorySink collects diagnostics in memory. The check CLI command uses it
// for one-shot runs and tests use it to observe the validator.
type MemorySink struct {
	mu   sync.Mutex
	sets map[uri.URI][]protocol.Diagnostic
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{
		sets: make(map[uri.URI][]protocol.Diagnostic),
	}
}

// Set replaces the diagnostic set for a document
func (s *MemorySink) Set(docURI uri.URI, diagnostics []protocol.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[docURI] = diagnostics
}

// Delete removes a document's diagnostics
func (s *MemorySink) Delete(docURI uri.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, docURI)
}

// Clear removes all diagnostics
func (s *MemorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = make(map[uri.URI][]protocol.Diagnostic)
}

// Get returns the current set for a document
func (s *MemorySink) Get(docURI uri.URI) []protocol.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[docURI]
}

// Has reports whether the sink holds a set for the document
func (s *MemorySink) Has(docURI uri.URI) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sets[docURI]
	return ok
}
