// Package pipeline orchestrates the resume generation stages: tenure
// metrics, prompt composition, generation, normalization, and
// reconciliation.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/skydev929/us-resume-v2/internal/llm"
	"github.com/skydev929/us-resume-v2/internal/normalize"
	"github.com/skydev929/us-resume-v2/internal/profile"
	"github.com/skydev929/us-resume-v2/internal/prompts"
	"github.com/skydev929/us-resume-v2/internal/reconcile"
	"github.com/skydev929/us-resume-v2/internal/types"
)

// Config holds the generation knobs for a pipeline run.
type Config struct {
	Model     string
	MaxTokens int32
	Retries   int
	Timeout   time.Duration
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		Model:     "gemini-2.5-flash",
		MaxTokens: 8192,
		Retries:   2,
		Timeout:   90 * time.Second,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	Content      *types.ResumeContent
	Report       *reconcile.Report
	Years        int
	Usage        llm.Usage
	FinishReason llm.FinishReason
	// Fallback is true when the output came from the reduced-bullet
	// attempt issued after a token-budget cutoff.
	Fallback bool
}

// Runner executes the generation pipeline. One request is processed
// end-to-end by a single run; no state is shared across runs.
type Runner struct {
	generator *llm.Generator
	cfg       Config
}

// New creates a Runner around an injected backend client.
func New(client llm.Client, cfg Config) *Runner {
	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	return &Runner{generator: llm.NewGenerator(client), cfg: cfg}
}

// Run generates tailored resume content for the profile and job description.
// A token-budget cutoff is handled by the fallback protocol: the bullet
// floor is rewritten downward and a single fresh attempt runs with a reduced
// token budget; truncated output never reaches normalization.
func (r *Runner) Run(ctx context.Context, record *types.ProfileRecord, jobDescription string) (*Result, error) {
	years := profile.YearsOfExperience(record.Experience)

	prompt, err := prompts.BuildResumePrompt(record, jobDescription, prompts.DefaultBullets)
	if err != nil {
		return nil, err
	}

	opts := llm.Options{
		Model:     r.cfg.Model,
		MaxTokens: r.cfg.MaxTokens,
		Retries:   r.cfg.Retries,
		Timeout:   r.cfg.Timeout,
	}

	generated, err := r.generator.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	fallback := false
	if generated.FinishReason == llm.FinishLength {
		log.Printf("[pipeline] output truncated (%d completion tokens), reissuing with reduced bullet floor",
			generated.Usage.CompletionTokens)

		prompt, err = prompts.BuildResumePrompt(record, jobDescription, prompts.FallbackBullets)
		if err != nil {
			return nil, err
		}

		// Fresh retry budget, reduced token budget. The truncated output
		// is discarded entirely.
		opts.MaxTokens = reducedBudget(r.cfg.MaxTokens)
		generated, err = r.generator.Generate(ctx, prompt, opts)
		if err != nil {
			return nil, err
		}
		fallback = true
	}

	cleaned, err := normalize.Extract(generated.Text)
	if err != nil {
		return nil, err
	}

	content, parsedJSON, err := normalize.Parse(cleaned)
	if err != nil {
		return nil, err
	}

	report, err := reconcile.Apply(content, parsedJSON, record, years)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:      content,
		Report:       report,
		Years:        years,
		Usage:        generated.Usage,
		FinishReason: generated.FinishReason,
		Fallback:     fallback,
	}, nil
}

// reducedBudget trims the token budget for the fallback attempt: fewer
// bullets need fewer tokens, and a smaller budget fails faster if the model
// ignores the reduced floor.
func reducedBudget(maxTokens int32) int32 {
	return maxTokens * 3 / 4
}
