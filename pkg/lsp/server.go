package lsp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/tecoline/gteco/pkg/doc"
	"github.com/tecoline/gteco/pkg/edcore"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/completion": s.completion,

		"textDocument/didClose": noop,
		// Required by the protocol.
		"initialized": noop,
		// Called by clients even when the server doesn't advertise support.
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		return fn(ctx, conn, *req.Params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised
	// to support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) completion(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	idx := lspPositionToIdx(content, params.Position)
	return completionItems(content[:idx]), nil
}

// completionItems completes the command being typed at the end of head. After
// an ES command, the symbolic message names of the view are offered; anywhere
// else, the multi-character command prefixes.
func completionItems(head string) []lsp.CompletionItem {
	up := strings.ToUpper(head)
	if i := strings.LastIndex(up, "ES"); i >= 0 {
		partial := head[i+2:]
		if !strings.ContainsAny(partial, " \t\n\x1b") {
			var items []lsp.CompletionItem
			names := doc.MessageNames()
			sort.Strings(names)
			for _, name := range names {
				if strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(partial)) {
					items = append(items, lsp.CompletionItem{
						Label: name,
						Kind:  lsp.CIKFunction,
					})
				}
			}
			if len(items) > 0 {
				return items
			}
		}
	}
	items := make([]lsp.CompletionItem, 0, len(commandDocs))
	for _, cd := range commandDocs {
		items = append(items, lsp.CompletionItem{
			Label:         cd.cmd,
			Kind:          lsp.CIKKeyword,
			Documentation: cd.doc,
		})
	}
	return items
}

type commandDoc struct {
	cmd string
	doc string
}

// commandDocs lists the multi-character command prefixes worth completing.
var commandDocs = []commandDoc{
	{"EB", "edit file or list buffers"},
	{"EW", "save buffer"},
	{"EF", "close buffer"},
	{"ED", "edit flags"},
	{"EJ", "environment properties"},
	{"EL", "line ending mode"},
	{"EX", "exit"},
	{"EQ", "load file into register or edit register"},
	{"E%", "save register to file"},
	{"EM", "execute script file"},
	{"EI", "insert without string building"},
	{"ES", "send message to the document view"},
	{"FG", "change working directory"},
	{"F<", "go to loop start"},
	{"F>", "go to loop end"},
	{"F'", "go past end of conditional"},
	{"F|", "go to else part"},
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(content)})
}

// diagnostics runs the source through a parse-only interpreter and converts
// the first error into a diagnostic.
func diagnostics(content string) []lsp.Diagnostic {
	err := edcore.CheckSyntax(content)
	if err == nil {
		return []lsp.Diagnostic{}
	}
	e, ok := err.(*edcore.Error)
	if !ok {
		return []lsp.Diagnostic{}
	}
	rg := e.Range()
	return []lsp.Diagnostic{{
		Range: lsp.Range{
			Start: lspPositionFromIdx(content, rg.From),
			End:   lspPositionFromIdx(content, rg.To),
		},
		Severity: lsp.Error,
		Source:   "gteco",
		Message:  e.Error(),
	}}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
