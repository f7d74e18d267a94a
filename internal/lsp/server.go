package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/validator"
)

// JSON-RPC error codes.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Options configures a Server.
type Options struct {
	Dialect   string               // default dialect; clients may override it at initialize
	Validator *validator.Validator // must not normalize, or positions drift
	Logger    *slog.Logger
	Version   string
}

// Server implements the Language Server Protocol for SQL syntax checking.
type Server struct {
	documents *DocumentStore
	validator *validator.Validator

	dialect        string
	dialectMu      sync.RWMutex
	snippetSupport bool
	version        string

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *slog.Logger

	// Shutdown state
	shutdown bool
	exited   bool
}

// NewServer creates a new LSP server reading requests from reader and
// writing responses to writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Validator == nil {
		opts.Validator = validator.New(validator.WithLogger(opts.Logger))
	}
	if opts.Dialect == "" {
		opts.Dialect = dialect.DefaultName
	}
	return &Server{
		documents: NewDocumentStore(),
		validator: opts.Validator,
		dialect:   opts.Dialect,
		version:   opts.Version,
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    opts.Logger,
	}
}

// Run processes JSON-RPC messages until the client sends exit or closes
// the input stream.
func (s *Server) Run() error {
	s.logger.Info("lsp server starting", "dialect", s.currentDialect())

	for !s.exited {
		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			var proto *protocolError
			if errors.As(err, &proto) {
				// The stream is still framed; skip the bad message.
				s.logger.Error("error reading message", "error", err)
				continue
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("error handling message", "method", msg.Method, "error", err)
		}
	}
	s.logger.Info("lsp server exited")
	return nil
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// protocolError is a malformed message that left the stream usable.
type protocolError struct {
	msg string
}

func (e *protocolError) Error() string { return e.msg }

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	// Read headers
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}

		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength < 0 {
		return nil, &protocolError{msg: "missing Content-Length header"}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, &protocolError{msg: fmt.Sprintf("error parsing message: %v", err)}
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("error marshaling result", "error", err)
			return
		}
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			s.logger.Error("error marshaling params", "method", method, "error", err)
			return
		}
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(s.writer, header); err != nil {
		s.logger.Error("error writing message", "error", err)
		return
	}
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("received", "method", msg.Method)

	if s.shutdown && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		s.logger.Debug("client initialized")
		return nil
	case "shutdown":
		s.shutdown = true
		s.sendResponse(msg.ID, nil, nil)
		return nil
	case "exit":
		s.exited = true
		return nil
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	default:
		if msg.ID != nil {
			// Unknown method with ID - respond with method not found
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.snippetSupport = params.Capabilities.TextDocument.Completion.CompletionItem.SnippetSupport

	if opts := params.InitializationOptions; opts != nil && opts.Dialect != "" {
		d, err := dialect.Lookup(opts.Dialect)
		if err != nil {
			s.sendNotification("window/showMessage", &ShowMessageParams{
				Type:    MessageTypeWarning,
				Message: fmt.Sprintf("%v; using %s", err, s.currentDialect()),
			})
		} else {
			s.setDialect(d.Name)
		}
	}
	s.logger.Info("initialized", "root", URIToPath(params.RootURI), "dialect", s.currentDialect())

	s.sendResponse(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
			CompletionProvider: &CompletionOptions{},
			HoverProvider:      true,
		},
		ServerInfo: &ServerInfo{Name: "sqlidator", Version: s.version},
	}, nil)
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Debug("opened", "uri", params.TextDocument.URI)
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("closed", "uri", params.TextDocument.URI)

	// Clear diagnostics
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// Full sync: the last change holds the whole text
	if n := len(params.ContentChanges); n > 0 {
		s.documents.Update(params.TextDocument.URI, params.ContentChanges[n-1].Text, params.TextDocument.Version)
	}
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	if params.Text != nil {
		if doc := s.documents.Get(params.TextDocument.URI); doc != nil {
			s.documents.Update(params.TextDocument.URI, *params.Text, doc.Version)
		}
	}
	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

// --- Feature handlers ---

func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.sendResponse(msg.ID, &CompletionList{Items: s.getCompletions(params)}, nil)
	return nil
}

func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.sendResponse(msg.ID, s.getHover(params), nil)
	return nil
}

func (s *Server) currentDialect() string {
	s.dialectMu.RLock()
	defer s.dialectMu.RUnlock()
	return s.dialect
}

func (s *Server) setDialect(name string) {
	s.dialectMu.Lock()
	defer s.dialectMu.Unlock()
	s.dialect = name
}
