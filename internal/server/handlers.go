package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leapstack-labs/querygraph/internal/request"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"github.com/leapstack-labs/querygraph/pkg/dialect"
	"github.com/leapstack-labs/querygraph/pkg/query"
)

type errorResponse struct {
	Error string `json:"error"`
	// Kind is the error category: request, configuration, graph, identity
	// or dialect.
	Kind string `json:"kind"`
}

type compileResponse struct {
	Dialect string `json:"dialect"`
	*query.Statement
}

type planResponse struct {
	Start      string      `json:"start"`
	Order      []string    `json:"order"`
	Optional   []string    `json:"optional,omitempty"`
	Edges      [][2]string `json:"edges"`
	Components [][]string  `json:"components"`
	Cartesian  bool        `json:"cartesian"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) dialects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dialect.List())
}

func (s *Server) tables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog().Names())
}

func (s *Server) compile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("dialect")
	if name == "" {
		name = req.Dialect
	}
	if name == "" {
		name = s.cfg.Dialect
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request", err)
		return
	}
	if r.URL.Query().Get("count") == "true" {
		req.Count = true
	}

	st, err := req.Compile(s.catalog(), d, s.cfg.Options...)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compileResponse{Dialect: d.GetName(), Statement: st})
}

func (s *Server) explain(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	q, err := req.Build(s.catalog(), s.cfg.Options...)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}
	p, err := q.Explain()
	if err != nil {
		s.writeCompileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		Start:      p.Start,
		Order:      p.Order,
		Optional:   p.Optional,
		Edges:      p.Edges,
		Components: p.Components,
		Cartesian:  p.Cartesian,
	})
}

// readRequest decodes the posted request. YAML is a superset of JSON, so
// both content types parse.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (*request.Request, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request", fmt.Errorf("request exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "request", err)
		return nil, false
	}
	req, err := request.Parse(body)
	if err != nil {
		s.writeCompileError(w, err)
		return nil, false
	}
	if req.Schema != "" {
		writeError(w, http.StatusBadRequest, "request", errors.New("requests compile against the server's schema and may not name one"))
		return nil, false
	}
	return req, true
}

// writeCompileError maps the compiler's error taxonomy onto status codes.
func (s *Server) writeCompileError(w http.ResponseWriter, err error) {
	kind := "request"
	switch {
	case errors.Is(err, core.ErrConfiguration):
		kind = "configuration"
	case errors.Is(err, core.ErrGraph):
		kind = "graph"
	case errors.Is(err, core.ErrIdentity):
		kind = "identity"
	case errors.Is(err, core.ErrDialectUnsupported):
		kind = "dialect"
	}
	status := http.StatusUnprocessableEntity
	if kind == "request" {
		status = http.StatusBadRequest
	}
	s.logger.Debug("compile rejected", "kind", kind, "error", err)
	writeError(w, status, kind, err)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
