// Package server - handlers.go implements the generation endpoint.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skydev929/us-resume-v2/internal/db"
	"github.com/skydev929/us-resume-v2/internal/pipeline"
	"github.com/skydev929/us-resume-v2/internal/rendering"
	"github.com/skydev929/us-resume-v2/internal/types"
)

// handleGenerate runs the full pipeline for one request and responds with
// the rendered PDF.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failResponse(w, &ErrMissingInput{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.failResponse(w, err)
		return
	}

	templateName := req.Template
	if templateName == "" {
		templateName = s.template
	}
	if !rendering.HasTemplate(templateName) {
		s.failResponse(w, &rendering.TemplateNotFoundError{Name: templateName})
		return
	}

	ctx := r.Context()

	// Profile lookup and the optional posting fetch are independent.
	var record *types.ProfileRecord
	jobDescription := req.JobDescription
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.store.GetProfile(gCtx, req.ProfileKey)
		if err != nil {
			return err
		}
		if found == nil {
			return &ErrProfileNotFound{Key: req.ProfileKey}
		}
		record = found
		return nil
	})
	if req.JobURL != "" {
		g.Go(func() error {
			text, err := s.jobs.JobDescription(gCtx, req.JobURL)
			if err != nil {
				return err
			}
			jobDescription = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.failResponse(w, err)
		return
	}

	runID := s.recordRunStart(ctx, &req)

	result, err := s.runner.Run(ctx, record, jobDescription)
	if err != nil {
		s.recordRunEnd(ctx, runID, nil, err)
		s.failResponse(w, classifyPipelineError(err))
		return
	}

	renderCtx := rendering.BuildContext(record, result.Content)
	html, err := rendering.Render(templateName, renderCtx)
	if err != nil {
		s.recordRunEnd(ctx, runID, result, err)
		s.failResponse(w, err)
		return
	}

	pdf, err := s.printer.Print(ctx, html, rendering.LetterOptions())
	if err != nil {
		s.recordRunEnd(ctx, runID, result, err)
		s.failResponse(w, err)
		return
	}

	s.recordRunEnd(ctx, runID, result, nil)

	jobTitle := req.JobTitle
	if jobTitle == "" {
		jobTitle = result.Content.Title
	}
	filename := rendering.Filename(record.Name, req.Company, jobTitle)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[server] failed to write PDF response: %v", err)
	}
}

// handleListRuns returns recent generation runs from the audit trail.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "audit trail not configured")
		return
	}

	runs, err := s.db.ListRuns(r.Context(), 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one generation run by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "audit trail not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			s.jsonResponse(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// classifyPipelineError wraps unstructured generation failures so the
// status mapper treats them as upstream errors. Structured pipeline errors
// pass through untouched.
func classifyPipelineError(err error) error {
	if errorCode(err) == "internal_error" {
		return &ErrBackend{Cause: err}
	}
	return err
}

// recordRunStart writes the audit row for a new request. Auditing is best
// effort; failures are logged and never block generation.
func (s *Server) recordRunStart(ctx context.Context, req *GenerateRequest) uuid.UUID {
	if s.db == nil {
		return uuid.Nil
	}

	jobSource := req.JobURL
	if jobSource == "" {
		jobSource = "inline"
	}
	runID, err := s.db.CreateRun(ctx, req.ProfileKey, jobSource, s.model)
	if err != nil {
		log.Printf("[server] failed to record run start: %v", err)
		return uuid.Nil
	}
	return runID
}

// recordRunEnd completes the audit row with the pipeline outcome.
func (s *Server) recordRunEnd(ctx context.Context, runID uuid.UUID, result *pipeline.Result, runErr error) {
	if s.db == nil || runID == uuid.Nil {
		return
	}

	outcome := db.RunOutcome{Status: db.RunStatusCompleted}
	if runErr != nil {
		outcome.Status = db.RunStatusFailed
		outcome.Error = runErr.Error()
	}
	if result != nil {
		outcome.Fallback = result.Fallback
		outcome.Years = result.Years
		outcome.PromptTokens = result.Usage.PromptTokens
		outcome.CompletionTokens = result.Usage.CompletionTokens
		outcome.TotalTokens = result.Usage.TotalTokens
		if result.Report != nil {
			outcome.MergeStrategy = string(result.Report.Merge)
		}
	}

	if err := s.db.CompleteRun(ctx, runID, outcome); err != nil {
		log.Printf("[server] failed to record run outcome: %v", err)
	}
}

// failResponse writes a JSON error with the mapped status code.
func (s *Server) failResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed (%d): %v", status, err)
	}
	s.jsonResponse(w, status, map[string]string{
		"error":   errorCode(err),
		"message": err.Error(),
	})
}
