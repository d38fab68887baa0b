// Package lsp implements a Language Server Protocol server for avenger
// programs: syntax diagnostics, keyword and name completion, and hover.
package lsp

// Wire types for the subset of LSP 3.17 the server speaks. Field names and
// JSON tags follow the protocol; anything the server never reads or sends
// is left out.

// Position is a zero-based line and character offset. Characters count
// runes, matching the lexer's columns.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range spans two positions, end exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// --- Documents ---

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier names a document revision.
type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int `json:"version"`
}

// TextDocumentItem is the full text of a document as opened by the client.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentContentChangeEvent carries new document text. The server
// asks for full sync, so Range is always nil in practice.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidOpenTextDocumentParams is the textDocument/didOpen payload.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is the textDocument/didChange payload.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is the textDocument/didClose payload.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentPositionParams points at a position inside a document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// --- Handshake ---

// InitializeParams holds the fields of the initialize request the server
// uses.
type InitializeParams struct {
	ProcessID int    `json:"processId"`
	RootURI   string `json:"rootUri"`
}

// InitializeResult answers initialize.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

// ServerInfo reports the avenger version to the client.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerCapabilities advertises full sync, completion and hover.
type ServerCapabilities struct {
	TextDocumentSync   *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	CompletionProvider *CompletionOptions       `json:"completionProvider,omitempty"`
	HoverProvider      bool                     `json:"hoverProvider,omitempty"`
}

// TextDocumentSyncKind selects how the client sends edits.
type TextDocumentSyncKind int

// TextDocumentSyncKindFull makes every change carry the whole document.
const TextDocumentSyncKindFull TextDocumentSyncKind = 1

// TextDocumentSyncOptions is the textDocumentSync capability.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose,omitempty"`
	Change    TextDocumentSyncKind `json:"change,omitempty"`
}

// CompletionOptions is the completionProvider capability.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

// --- Diagnostics ---

// DiagnosticSeverity ranks a diagnostic. Parse failures are always errors.
type DiagnosticSeverity int

// DiagnosticSeverityError marks a diagnostic as an error.
const DiagnosticSeverityError DiagnosticSeverity = 1

// Diagnostic is one syntax or lex error. Code is "syntax" or "lex".
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// PublishDiagnosticsParams replaces the client's diagnostics for a URI.
// An empty list clears them.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// --- Completion ---

// CompletionParams is the textDocument/completion payload.
type CompletionParams struct {
	TextDocumentPositionParams
}

// CompletionItemKind picks the icon a client shows for an item.
type CompletionItemKind int

// Kinds used for declared names and keywords.
const (
	CompletionItemKindFunction CompletionItemKind = 3  // fn definitions
	CompletionItemKindClass    CompletionItemKind = 7  // imported components
	CompletionItemKindProperty CompletionItemKind = 10 // properties and bindings
	CompletionItemKindKeyword  CompletionItemKind = 14
)

// CompletionItem is one suggestion.
type CompletionItem struct {
	Label  string             `json:"label"`
	Kind   CompletionItemKind `json:"kind,omitempty"`
	Detail string             `json:"detail,omitempty"`
}

// CompletionList is always complete; the client filters it further.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// --- Hover ---

// HoverParams is the textDocument/hover payload.
type HoverParams struct {
	TextDocumentPositionParams
}

// MarkupKind is the format of hover text.
type MarkupKind string

// MarkupKindMarkdown marks hover text as markdown.
const MarkupKindMarkdown MarkupKind = "markdown"

// MarkupContent is formatted hover text.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// Hover describes the node under the cursor and the range it covers.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}
