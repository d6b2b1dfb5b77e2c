// Package api exposes validation runs and the registry snapshot over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cmdguard/cmdguard/internal/catalog"
	"github.com/cmdguard/cmdguard/internal/pipeline"
	"github.com/cmdguard/cmdguard/internal/report"
	"github.com/cmdguard/cmdguard/internal/sandbox"
)

// Server holds the API state. Validation runs execute synchronously;
// the last result is kept for inspection.
type Server struct {
	log        *zap.SugaredLogger
	catalog    *catalog.Catalog
	sandboxNew func() sandbox.Sandbox
	lastResult *pipeline.Result
}

// StartServer runs the HTTP API on the given port.
func StartServer(log *zap.SugaredLogger, cat *catalog.Catalog, port int) error {
	s := &Server{
		log:        log,
		catalog:    cat,
		sandboxNew: func() sandbox.Sandbox { return sandbox.NewDocker() },
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/validate", s.handleValidate)
	r.Get("/api/v1/report", s.handleReport)
	r.Get("/api/v1/registry", s.handleRegistry)
	r.Get("/api/v1/rules", s.handleRules)

	addr := fmt.Sprintf(":%d", port)
	log.Infow("api listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "cmdguard",
		"rules":   s.catalog.Len(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path         string `json:"path"`
		RegistryPath string `json:"registry_path"`
		NoSandbox    bool   `json:"no_sandbox"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path required")
		return
	}
	if info, err := os.Stat(req.Path); err != nil || !info.IsDir() {
		writeError(w, http.StatusBadRequest, "path is not a readable directory")
		return
	}

	opts := pipeline.Options{
		Root:           req.Path,
		RegistryPath:   req.RegistryPath,
		DisableSandbox: req.NoSandbox,
		SkipRegistry:   req.RegistryPath == "",
	}
	v := pipeline.New(s.log, s.catalog, s.sandboxNew(), opts)
	result, err := v.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.lastResult = result

	writeJSON(w, http.StatusOK, map[string]any{
		"report": result.Report,
		"grade":  report.Grade(result.Report),
		"passed": len(result.Report.Errors) == 0,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.lastResult == nil {
		writeError(w, http.StatusNotFound, "no validation run yet")
		return
	}
	writeJSON(w, http.StatusOK, s.lastResult.Report)
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	if s.lastResult == nil {
		writeError(w, http.StatusNotFound, "no validation run yet")
		return
	}
	writeJSON(w, http.StatusOK, s.lastResult.Registry)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type ruleView struct {
		ID       string `json:"id"`
		Severity string `json:"severity"`
		Category string `json:"category"`
		Message  string `json:"message"`
	}
	rules := s.catalog.Rules()
	views := make([]ruleView, len(rules))
	for i, rule := range rules {
		views[i] = ruleView{
			ID:       rule.ID,
			Severity: string(rule.Severity),
			Category: rule.Category,
			Message:  rule.Message,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.catalog.Version,
		"rules":   views,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
