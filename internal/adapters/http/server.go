// Package http exposes a stream definition over a small JSON API.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomsilver/streamspec/internal/compiler"
	"github.com/tomsilver/streamspec/internal/docgen"
	"github.com/tomsilver/streamspec/internal/presentation/graph"
	"github.com/tomsilver/streamspec/internal/validator"
	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/ports"
)

// maxValidateBody bounds POST /validate payloads. Stream files are tiny;
// anything larger is a mistake.
const maxValidateBody = 1 << 20

// GeneratorInfo reports which streams have registered generators. Implemented
// by pkg/registry; nil disables the field.
type GeneratorInfo interface {
	Has(name string) bool
}

// Server serves one loaded stream definition.
type Server struct {
	Definition *domain.Definition
	Generators GeneratorInfo
	Validation validator.Options
	Logger     *slog.Logger
	Version    string

	// Facts, when set, exposes the shared fact store under /facts.
	Facts ports.FactStore
}

// NewHandler builds the router for the server.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/definition", s.handleDefinition)
	r.Get("/definition/doc", s.handleDoc)
	r.Get("/streams", s.handleStreams)
	r.Get("/streams/{name}", s.handleStream)
	r.Get("/graph", s.handleGraph)
	r.Post("/validate", s.handleValidate)
	if s.Facts != nil {
		r.Get("/facts", s.handleFacts)
		r.Post("/facts", s.handleAssert)
		r.Delete("/facts", s.handleClearFacts)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.Logger.Error("write response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":        "streamspec-http",
		"version":    s.Version,
		"definition": s.Definition.Name,
	})
}

func (s *Server) handleDefinition(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Definition)
}

func (s *Server) handleDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(docgen.Definition(s.Definition)))
}

// streamSummary is the list-view projection of a stream declaration.
type streamSummary struct {
	Name      string `json:"name"`
	Inputs    int    `json:"inputs"`
	Outputs   int    `json:"outputs"`
	Generator bool   `json:"generator_registered"`
}

func (s *Server) handleStreams(w http.ResponseWriter, _ *http.Request) {
	summaries := make([]streamSummary, 0, len(s.Definition.Streams))
	for _, stream := range s.Definition.Streams {
		summaries = append(summaries, streamSummary{
			Name:      stream.Name,
			Inputs:    len(stream.Inputs),
			Outputs:   len(stream.Outputs),
			Generator: s.Generators != nil && s.Generators.Has(stream.Name),
		})
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	stream, err := s.Definition.Stream(name)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.Definition)))
}

// validateResponse carries the outcome of POST /validate.
type validateResponse struct {
	Valid    bool              `json:"valid"`
	Errors   []validator.Issue `json:"errors,omitempty"`
	Warnings []validator.Issue `json:"warnings,omitempty"`
}

// handleValidate parses and validates a raw stream file from the request
// body, without touching the served definition.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValidateBody))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body: " + err.Error()})
		return
	}

	def, err := compiler.NewParser().Parse(body)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	report := validator.ValidateDefinition(def, s.Validation)
	s.writeJSON(w, http.StatusOK, validateResponse{
		Valid:    report.OK(),
		Errors:   report.Errors,
		Warnings: report.Warnings,
	})
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	facts, err := s.Facts.Facts(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, facts)
}

// handleAssert adds a ground fact to the shared store. The predicate must
// match a declared arity when the definition declares it.
func (s *Server) handleAssert(w http.ResponseWriter, r *http.Request) {
	var fact domain.Fact
	if err := json.NewDecoder(io.LimitReader(r.Body, maxValidateBody)).Decode(&fact); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decode fact: " + err.Error()})
		return
	}
	fact.Predicate = domain.CanonName(fact.Predicate)
	if fact.Predicate == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fact needs a predicate"})
		return
	}
	if arity, ok := s.Definition.DeclaredArities()[fact.Predicate]; ok && arity != len(fact.Args) {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("%s takes %d args, got %d", fact.Predicate, arity, len(fact.Args)),
		})
		return
	}

	if err := s.Facts.Assert(r.Context(), fact); err != nil {
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"fact": fact.Key()})
}

func (s *Server) handleClearFacts(w http.ResponseWriter, r *http.Request) {
	if err := s.Facts.Clear(r.Context()); err != nil {
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
