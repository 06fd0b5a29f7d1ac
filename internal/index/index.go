package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/lexer"
)

// Index caches tokenized templates of a workspace
type Index struct {
	mu sync.RWMutex

	// FilePath -> tokenized document
	docs map[string]*lexer.Document

	rootPath string
	lexer    *lexer.Lexer
	logger   *zap.Logger
}

// New creates a new index for the given root path
func New(rootPath string, lx *lexer.Lexer, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		docs:     make(map[string]*lexer.Document),
		rootPath: rootPath,
		lexer:    lx,
		logger:   logger,
	}
}

// Build tokenizes every template under the root
func (idx *Index) Build(ctx context.Context) error {
	idx.logger.Info("building index", zap.String("root", idx.rootPath))

	files, err := Collect(ctx, idx.rootPath)
	if err != nil {
		return err
	}

	idx.logger.Info("found templates", zap.Int("count", len(files)))

	// Index files concurrently
	var wg sync.WaitGroup
	sem := make(chan struct{}, 8) // Limit concurrency

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := idx.AddFile(path); err != nil {
				idx.logger.Warn("failed to index", zap.String("path", path), zap.Error(err))
			}
		}(file)
	}

	wg.Wait()
	idx.logger.Info("indexed documents", zap.Int("count", idx.Len()))
	return nil
}

// Collect walks root and returns template paths, skipping hidden, vendor
// and node_modules directories
func Collect(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsTemplate(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// AddFile reads and tokenizes a single file
func (idx *Index) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	idx.Put(path, string(content))
	return nil
}

// Put tokenizes content and stores it under path
func (idx *Index) Put(path, content string) *lexer.Document {
	doc := idx.lexer.Lex(path, content)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs[path] = doc
	return doc
}

// RemoveFile drops a file from the index
func (idx *Index) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.docs, path)
}

// UpdateFile re-reads a file; a file that vanished is removed
func (idx *Index) UpdateFile(path string) error {
	if err := idx.AddFile(path); err != nil {
		idx.RemoveFile(path)
		return err
	}
	return nil
}

// Get returns the tokenized document for path
func (idx *Index) Get(path string) (*lexer.Document, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	doc, ok := idx.docs[path]
	return doc, ok
}

// Paths returns the indexed paths in sorted order
func (idx *Index) Paths() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	paths := make([]string, 0, len(idx.docs))
	for p := range idx.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of indexed documents
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// RootPath returns the root path of the index
func (idx *Index) RootPath() string {
	return idx.rootPath
}

// Lexer returns the lexer used for tokenizing
func (idx *Index) Lexer() *lexer.Lexer {
	return idx.lexer
}

// SkipDir reports whether a directory is never indexed or watched
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules"
}

// IsTemplate checks if a file is a CFML template or component
func IsTemplate(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cfm", ".cfc", ".cfml":
		return true
	}
	return false
}
