package lsp

import (
	"context"
	"encoding/json"
	"io"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/index"
	"github.com/jarredhawkins/cfmatch/internal/lexer"
	"github.com/jarredhawkins/cfmatch/internal/match"
	"github.com/jarredhawkins/cfmatch/internal/stream"
)

// Version is reported in the initialize response
const Version = "0.1.0"

// Server implements the LSP server
type Server struct {
	index     *index.Index
	documents *DocumentStore
	matcher   atomic.Pointer[match.Facade]
	logger    *zap.Logger
}

// NewServer creates a new LSP server
func NewServer(idx *index.Index, m *match.Facade, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		index:     idx,
		documents: NewDocumentStore(idx.Lexer()),
		logger:    logger,
	}
	s.matcher.Store(m)
	return s
}

// SetMatcher swaps the matcher, e.g. after a configuration reload. Queries in
// flight keep the matcher they started with.
func (s *Server) SetMatcher(m *match.Facade) {
	s.matcher.Store(m)
}

// Serve starts the LSP server on the given reader/writer
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	rpcStream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(rpcStream)

	conn.Go(ctx, s.handler)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-conn.Done():
		return conn.Err()
	}
}

func (s *Server) handler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("LSP request", zap.String("method", req.Method()))

	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return nil
	case "textDocument/documentHighlight":
		return s.handleDocumentHighlight(ctx, reply, req)
	case MethodDelimiterInfo:
		return s.handleDelimiterInfo(ctx, reply, req)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	default:
		// Method not found
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.MethodNotFound,
			Message: "method not supported: " + req.Method(),
		})
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Info("client initialized", zap.String("root", s.index.RootPath()), zap.Int("documents", s.index.Len()))

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
			},
			DocumentHighlightProvider: true,
		},
		ServerInfo: &ServerInfo{
			Name:    "cfmatch",
			Version: Version,
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleDocumentHighlight(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: err.Error(),
		})
	}

	doc := s.getDocument(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, nil, nil)
	}

	m := s.matcher.Load()
	c, ok := s.delimiterAt(m, doc, params.Position)
	if !ok {
		return reply(ctx, nil, nil)
	}
	counterpart, ok := m.Counterpart(c, doc.FileType)
	if !ok {
		return reply(ctx, nil, nil)
	}

	self := c.Token()
	highlights := []DocumentHighlight{
		{Range: spanToRange(doc, spanOf(self.Start, self.End)), Kind: DocumentHighlightKindText},
		{Range: spanToRange(doc, counterpart), Kind: DocumentHighlightKindText},
	}
	return reply(ctx, highlights, nil)
}

func (s *Server) handleDelimiterInfo(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params TextDocumentPositionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, &jsonrpc2.Error{
			Code:    jsonrpc2.InvalidParams,
			Message: err.Error(),
		})
	}

	doc := s.getDocument(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, nil, nil)
	}

	m := s.matcher.Load()
	offset := doc.Offset(int(params.Position.Line), int(params.Position.Character))
	c, ok := doc.CursorAtOffset(offset)
	if !ok {
		return reply(ctx, nil, nil)
	}

	self := c.Token()
	info := DelimiterInfo{
		TokenType:  self.Type.String(),
		Group:      string(m.GroupID(c)),
		Opening:    m.IsOpeningDelimiter(c, doc.FileType),
		Closing:    m.IsClosingDelimiter(c, doc.FileType),
		Structural: m.IsStructural(c, doc.FileType),
		Range:      spanToRange(doc, spanOf(self.Start, self.End)),
	}
	if span, ok := m.Counterpart(c, doc.FileType); ok {
		r := spanToRange(doc, span)
		info.Counterpart = &r
	}
	return reply(ctx, info, nil)
}

// delimiterAt finds the delimiter token for a caret position. The caret may
// sit on the token, just after it, or on the name of a tag.
func (s *Server) delimiterAt(m *match.Facade, doc *lexer.Document, pos Position) (*stream.SliceCursor, bool) {
	offset := doc.Offset(int(pos.Line), int(pos.Character))
	for _, off := range []int{offset, offset - 1} {
		c, ok := doc.CursorAtOffset(off)
		if !ok {
			continue
		}
		if isDelimiter(m, c, doc) {
			return c, true
		}
		// from a tag name, try the neighbours that carry the tag
		idx := c.Index()
		for _, i := range []int{idx - 1, idx + 1, idx + 2} {
			if i < 0 || i >= len(doc.Tokens) {
				continue
			}
			n := doc.CursorAt(i)
			if isDelimiter(m, n, doc) {
				return n, true
			}
		}
	}
	return nil, false
}

func isDelimiter(m *match.Facade, c *stream.SliceCursor, doc *lexer.Document) bool {
	return m.IsOpeningDelimiter(c, doc.FileType) || m.IsClosingDelimiter(c, doc.FileType)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	if len(params.ContentChanges) > 0 {
		// Full sync mode - just take the last content
		last := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.documents.Update(params.TextDocument.URI, params.TextDocument.Version, last)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}

	s.documents.Close(params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) getDocument(uri string) *lexer.Document {
	// Check open documents first
	if doc, ok := s.documents.Get(uri); ok {
		return doc
	}

	path := uriToPath(uri)
	if doc, ok := s.index.Get(path); ok {
		return doc
	}

	// Fall back to reading from disk
	content, err := readFile(path)
	if err != nil {
		s.logger.Warn("failed to read file", zap.String("path", path), zap.Error(err))
		return nil
	}
	return s.index.Put(path, content)
}

// readWriteCloser wraps reader and writer into a ReadWriteCloser
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	return nil
}
