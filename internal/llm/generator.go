package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultTimeout bounds a single generation attempt when no timeout is set.
const DefaultTimeout = 90 * time.Second

// TimeoutError reports that the attempt timer fired before the backend call
// settled. The in-flight call is not aborted at the transport level; its
// eventual result is discarded.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s", e.After)
}

// Options controls one logical generation: model, token budget, retry budget,
// and per-attempt timeout.
type Options struct {
	Model     string
	MaxTokens int32
	Retries   int // additional attempts after the first
	Timeout   time.Duration
}

// Generator invokes the backend with sequential retries. Each attempt races
// the backend call against a timer; whichever settles first wins and the
// loser's eventual completion is ignored.
type Generator struct {
	client Client
}

// NewGenerator wraps a backend client with retry and timeout behavior.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// Generate normalizes the payload into role-tagged messages and invokes the
// backend. On failure it retries until the attempt budget is exhausted, then
// propagates the last error unmodified. Callers must inspect the result's
// finish indicator: a token-budget cutoff is not surfaced as an error here.
func (g *Generator) Generate(ctx context.Context, payload any, opts Options) (*Result, error) {
	messages, err := NormalizeMessages(payload)
	if err != nil {
		return nil, err
	}

	req := Request{Messages: messages, Model: opts.Model, MaxTokens: opts.MaxTokens}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	attempts := opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := g.attempt(ctx, req, timeout)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Printf("[llm] attempt %d/%d failed: %v", attempt, attempts, err)
	}

	return nil, lastErr
}

// attempt races one backend call against the timeout timer. The outcome
// channel is buffered so a losing call can complete in the background
// without leaking its goroutine.
func (g *Generator) attempt(ctx context.Context, req Request, timeout time.Duration) (*Result, error) {
	type outcome struct {
		result *Result
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := g.client.Complete(ctx, req)
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		return nil, &TimeoutError{After: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NormalizeMessages coerces a prompt payload into role-tagged messages.
// A bare string becomes a single user message. An explicit message list is
// passed through with roles constrained to system, assistant, or user;
// unrecognized roles default to user.
func NormalizeMessages(payload any) ([]Message, error) {
	switch p := payload.(type) {
	case string:
		return []Message{{Role: RoleUser, Content: p}}, nil
	case Message:
		return []Message{normalizeRole(p)}, nil
	case []Message:
		messages := make([]Message, 0, len(p))
		for _, msg := range p {
			messages = append(messages, normalizeRole(msg))
		}
		return messages, nil
	default:
		return nil, fmt.Errorf("unsupported payload type %T", payload)
	}
}

func normalizeRole(msg Message) Message {
	switch msg.Role {
	case RoleSystem, RoleAssistant, RoleUser:
		return msg
	default:
		msg.Role = RoleUser
		return msg
	}
}
