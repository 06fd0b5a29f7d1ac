package lsp

import (
	"sync"

	"github.com/jarredhawkins/cfmatch/internal/lexer"
)

// DocumentStore manages open text documents and their tokens
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]*Document
	lexer *lexer.Lexer
}

// Document represents an open text document
type Document struct {
	URI     string
	Version int
	Lexed   *lexer.Document
}

// NewDocumentStore creates a new document store
func NewDocumentStore(lx *lexer.Lexer) *DocumentStore {
	return &DocumentStore{
		docs:  make(map[string]*Document),
		lexer: lx,
	}
}

// Open adds or replaces a document, tokenizing its content
func (ds *DocumentStore) Open(uri string, version int, content string) {
	lexed := ds.lexer.Lex(uriToPath(uri), content)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = &Document{
		URI:     uri,
		Version: version,
		Lexed:   lexed,
	}
}

// Update re-tokenizes a document; stale versions are ignored
func (ds *DocumentStore) Update(uri string, version int, content string) {
	lexed := ds.lexer.Lex(uriToPath(uri), content)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if doc, ok := ds.docs[uri]; ok && version >= doc.Version {
		doc.Version = version
		doc.Lexed = lexed
	}
}

// Close removes a document
func (ds *DocumentStore) Close(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// Get returns a document's tokens
func (ds *DocumentStore) Get(uri string) (*lexer.Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if doc, ok := ds.docs[uri]; ok {
		return doc.Lexed, true
	}
	return nil, false
}

// IsOpen checks if a document is open
func (ds *DocumentStore) IsOpen(uri string) bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	_, ok := ds.docs[uri]
	return ok
}
