package lsp

import (
	"net/url"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/chart.avenger)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups

	File     *ast.File // nil when the current content does not parse
	Err      error     // parse error of the current content
	LastGood *ast.File // most recent successful parse, kept while the user types
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store and parses it.
func (s *DocumentStore) Open(uri string, content string, version int) *Document {
	doc := &Document{URI: uri}
	doc.setContent(content, version)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = doc
	return doc
}

// Update replaces an open document's content and reparses it. It returns
// nil when the document is not open.
func (s *DocumentStore) Update(uri string, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.documents[uri]
	if !ok {
		return nil
	}
	doc := &Document{URI: uri, LastGood: old.LastGood}
	doc.setContent(content, version)
	s.documents[uri] = doc
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	return uris
}

func (d *Document) setContent(content string, version int) {
	d.Content = content
	d.Version = version
	d.Lines = computeLineOffsets(content)
	d.File, d.Err = parser.Parse(content)
	if d.File != nil {
		d.LastGood = d.File
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// Offset converts a Position to a byte offset. Characters count runes and
// are clamped to the end of their line.
func (d *Document) Offset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line]
	for n := uint32(0); n < pos.Character && offset < len(d.Content); n++ {
		r, size := utf8.DecodeRuneInString(d.Content[offset:])
		if r == '\n' {
			break
		}
		offset += size
	}
	return offset
}

// toPosition converts a parser position to an LSP position.
func toPosition(p token.Position) Position {
	return Position{
		Line:      uint32(max(p.Line-1, 0)),   //nolint:gosec // clamped non-negative
		Character: uint32(max(p.Column-1, 0)), //nolint:gosec // clamped non-negative
	}
}

// toRange converts a parser span to an LSP range.
func toRange(s token.Span) Range {
	return Range{Start: toPosition(s.Start), End: toPosition(s.End)}
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1 // Exclude newline
	}
	return strings.TrimSuffix(d.Content[start:end], "\r")
}

// WordBefore returns the identifier characters immediately before pos.
func (d *Document) WordBefore(pos Position) string {
	offset := d.Offset(pos)
	start := offset
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}
	return d.Content[start:offset]
}

// isWordChar returns true if the character is part of a word.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	const prefix = "file://"
	if !strings.HasPrefix(uri, prefix) {
		return uri
	}
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return u.Path
	}
	return uri[len(prefix):]
}
