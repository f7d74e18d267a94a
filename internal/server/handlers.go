package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"github.com/sqlidator/sqlidator/pkg/token"
	"github.com/sqlidator/sqlidator/pkg/validator"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// queryRequest is the body of every POST endpoint.
type queryRequest struct {
	Query   string `json:"query"`
	Dialect string `json:"dialect,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

type tokensResponse struct {
	Dialect string        `json:"dialect"`
	Tokens  []token.Token `json:"tokens"`
}

type dialectsResponse struct {
	Default  string             `json:"default"`
	Dialects []*dialect.Dialect `json:"dialects"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dialectsResponse{
		Default:  s.dialect,
		Dialects: dialect.All(),
	})
}

// handleValidate answers with the validation envelope. Syntax errors are a
// successful validation, so the status is 200 either way.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.validator.Validate(req.Query, req.Dialect))
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	d, err := dialect.Lookup(req.Dialect)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tokens, err := parser.NewLexerWithDialect(req.Query, d.Name).Tokenize()
	if err != nil {
		resp := errorResponse{Error: err.Error()}
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) {
			resp.Line = synErr.Pos().Line
			resp.Column = synErr.Pos().Column
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	writeJSON(w, http.StatusOK, tokensResponse{Dialect: d.Name, Tokens: tokens})
}

// handleReport validates the query and responds with a rendered report.
// The format comes from the "format" query parameter and defaults to txt.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := report.FormatText
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := report.ParseFormat(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		format = f
	}

	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res := s.validator.Validate(req.Query, req.Dialect)
	rep := report.New(req.Query, res)

	var buf bytes.Buffer
	if err := rep.Render(&buf, format); err != nil {
		s.logger.Error("failed to render report", "error", err, "format", format)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to render report"})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="sqlidator_report_%s%s"`, rep.ID, format.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// decodeRequest reads a queryRequest and fills in the default dialect. On
// failure it writes a 400 response and returns false.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*queryRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return nil, false
	}
	if strings.TrimSpace(req.Dialect) == "" {
		req.Dialect = s.dialect
	}
	return &req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
