package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/thelilylang/lily-sub007/internal/diagnostics"
	"github.com/thelilylang/lily-sub007/internal/index"
)

// LanguageServer serves the LSP protocol over stdio. Stdout is the
// protocol channel; logs go to stderr.
type LanguageServer struct {
	out   io.Writer
	outMu sync.Mutex

	index *index.Index

	initialized bool
	shutdown    bool

	// Open documents by URI.
	documents map[string]string
}

// NewLanguageServer builds a server writing responses to out.
func NewLanguageServer(out io.Writer, ix *index.Index) *LanguageServer {
	return &LanguageServer{out: out, index: ix, documents: make(map[string]string)}
}

// Start reads Content-Length framed messages from in until EOF or exit.
func (s *LanguageServer) Start(in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		payload, err := readMessage(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.Printf("lsp: read: %v", err)
			continue
		}
		if exit := s.dispatch(payload); exit {
			return nil
		}
	}
}

func readMessage(reader *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("bad Content-Length: %w", err)
			}
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *LanguageServer) send(msg interface{}) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("lsp: marshal: %v", err)
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n%s", len(payload), payload)
}

func (s *LanguageServer) respond(id interface{}, result interface{}) {
	s.send(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: result})
}

func (s *LanguageServer) respondError(id interface{}, code int, message string) {
	s.send(ResponseMessage{Jsonrpc: "2.0", ID: id, Error: &Error{Code: code, Message: message}})
}

// dispatch handles one message. It reports true when the server must
// exit.
func (s *LanguageServer) dispatch(payload []byte) bool {
	var req RequestMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		s.send(ResponseMessage{Jsonrpc: "2.0", Error: &Error{Code: CodeParseError, Message: err.Error()}})
		return false
	}
	params, _ := json.Marshal(req.Params)

	switch req.Method {
	case "initialize":
		s.initialized = true
		s.respond(req.ID, InitializeResult{
			Capabilities: ServerCapabilities{
				PositionEncoding:        "utf-16",
				TextDocumentSync:        1, // Full
				WorkspaceSymbolProvider: true,
			},
			ServerInfo: &ServerInfo{Name: "lily-lsp"},
		})
	case "initialized":
		// Notification, nothing to answer.
	case "shutdown":
		s.shutdown = true
		s.respond(req.ID, nil)
	case "exit":
		return true
	case "textDocument/didOpen":
		var p DidOpenTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			log.Printf("lsp: didOpen: %v", err)
			return false
		}
		s.documents[p.TextDocument.URI] = p.TextDocument.Text
		s.publishDiagnostics(p.TextDocument.URI)
	case "textDocument/didChange":
		var p DidChangeTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			log.Printf("lsp: didChange: %v", err)
			return false
		}
		if len(p.ContentChanges) > 0 {
			s.documents[p.TextDocument.URI] = p.ContentChanges[len(p.ContentChanges)-1].Text
		}
		s.publishDiagnostics(p.TextDocument.URI)
	case "textDocument/didClose":
		var p DidCloseTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			return false
		}
		delete(s.documents, p.TextDocument.URI)
		s.send(NotificationMessage{
			Jsonrpc: "2.0",
			Method:  "textDocument/publishDiagnostics",
			Params:  PublishDiagnosticsParams{URI: p.TextDocument.URI, Diagnostics: []Diagnostic{}},
		})
	case "workspace/symbol":
		var p WorkspaceSymbolParams
		if err := json.Unmarshal(params, &p); err != nil {
			s.respondError(req.ID, CodeInvalidParams, err.Error())
			return false
		}
		s.workspaceSymbol(req.ID, p.Query)
	default:
		if req.ID != nil {
			if s.shutdown {
				s.respondError(req.ID, CodeInvalidRequest, "server is shutting down")
			} else {
				s.respondError(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
			}
		}
	}
	return false
}

// publishDiagnostics sends the stored diagnostics for the document. The
// index is the source of truth: re-analysis happens on build, not per
// keystroke.
func (s *LanguageServer) publishDiagnostics(uri string) {
	if s.index == nil {
		return
	}
	stored, err := s.index.FileDiagnostics(uriToPath(uri))
	if err != nil {
		log.Printf("lsp: diagnostics: %v", err)
		return
	}
	out := make([]Diagnostic, 0, len(stored))
	for _, d := range stored {
		out = append(out, Diagnostic{
			Range: Range{
				Start: Position{Line: max(d.Location.StartLine-1, 0), Character: max(d.Location.StartColumn-1, 0)},
				End:   Position{Line: max(d.Location.StartLine-1, 0), Character: max(d.Location.StartColumn, 0)},
			},
			Severity: lspSeverity(d.Severity),
			Code:     string(d.Code),
			Source:   "lily",
			Message:  d.Message,
		})
	}
	s.send(NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  PublishDiagnosticsParams{URI: uri, Diagnostics: out},
	})
}

func (s *LanguageServer) workspaceSymbol(id interface{}, query string) {
	if s.index == nil {
		s.respond(id, []SymbolInformation{})
		return
	}
	symbols, err := s.index.QuerySymbols(query)
	if err != nil {
		s.respondError(id, CodeRequestFailed, err.Error())
		return
	}
	out := make([]SymbolInformation, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, SymbolInformation{
			Name: sym.Name,
			Kind: symbolKinds[sym.Kind],
			Location: Location{
				URI: pathToURI(sym.File),
				Range: Range{
					Start: Position{Line: max(sym.Line-1, 0), Character: max(sym.Col-1, 0)},
					End:   Position{Line: max(sym.Line-1, 0), Character: max(sym.Col, 0)},
				},
			},
		})
	}
	s.respond(id, out)
}

func lspSeverity(s diagnostics.Severity) int {
	switch s {
	case diagnostics.SeverityError:
		return 1
	case diagnostics.SeverityWarning:
		return 2
	default:
		return 3
	}
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func pathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
