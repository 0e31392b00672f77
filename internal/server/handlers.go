// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	rt "github.com/GangGreenTemperTatum/robopages-cli/internal/runtime"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"golang.org/x/sync/errgroup"
)

// Executor runs one resolved function. Satisfied by *runtime.Executor;
// tests substitute a fake.
type Executor interface {
	Execute(ctx context.Context, fn *book.Function, values map[string]string, opts rt.Options) (*rt.Result, error)
}

type (
	// toolCall is one function-calling request entry.
	toolCall struct {
		Name      string            `json:"name"`
		Arguments map[string]string `json:"arguments"`
	}

	// toolResponse is the answer for one call, in the shape chat
	// clients feed back into the conversation.
	toolResponse struct {
		Role    string `json:"role"`
		Name    string `json:"name"`
		Content string `json:"content"`
		Error   string `json:"error,omitempty"`
	}
)

// handleToolSet answers GET / with the book's tool manifest.
func (s *Server) handleToolSet(w http.ResponseWriter, r *http.Request) {
	_, tools := s.current()
	writeJSON(w, http.StatusOK, tools)
}

// handleHealth answers GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	b, _ := s.current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"pages":     len(b.Pages),
		"functions": b.FunctionCount(),
	})
}

// handleProcess answers POST /process: a JSON array of tool calls,
// executed concurrently with a bounded worker count. A call that fails
// produces a per-call error entry; the batch itself only fails on
// malformed input.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var calls []toolCall
	if err := json.NewDecoder(r.Body).Decode(&calls); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	_, tools := s.current()
	responses := make([]toolResponse, len(calls))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.workers())
	for i, call := range calls {
		g.Go(func() error {
			responses[i] = s.process(ctx, tools, call)
			return nil
		})
	}
	_ = g.Wait()

	writeJSON(w, http.StatusOK, responses)
}

// process executes one tool call.
func (s *Server) process(ctx context.Context, tools *book.ToolSet, call toolCall) toolResponse {
	resp := toolResponse{Role: "tool", Name: call.Name}

	tool, ok := tools.Find(call.Name)
	if !ok {
		resp.Error = fmt.Sprintf("unknown tool %q", call.Name)
		return resp
	}

	s.metrics.executions.Inc()
	res, err := s.executor.Execute(ctx, tool.Function, call.Arguments, rt.Options{})
	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.Content = res.Output
	if res.ExitCode != 0 {
		resp.Error = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
