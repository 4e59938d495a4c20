// Package llm provides the text-generation backend abstraction and the
// retrying generator the pipeline calls.
package llm

import "context"

// Role tags a message segment. Unrecognized roles are coerced to user.
type Role string

// Supported message roles.
const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one role-tagged segment of an instruction payload.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// FinishReason reports how the backend stopped generating. A token-budget
// cutoff is a silent semantic failure, not an error: callers must inspect
// this field rather than rely on the error return.
type FinishReason string

// Finish indicators.
const (
	// FinishNormal means the model completed its output.
	FinishNormal FinishReason = "normal"
	// FinishLength means generation was cut off by the token budget.
	FinishLength FinishReason = "length"
	// FinishOther covers safety blocks and any other backend-specific stop.
	FinishOther FinishReason = "other"
)

// Usage carries the backend's token counters for one generation.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// Request is one backend invocation: ordered message segments, a model
// identifier, and a token budget.
type Request struct {
	Messages  []Message
	Model     string
	MaxTokens int32
}

// Result is the backend's response, consumed immediately by normalization.
type Result struct {
	Text         string
	FinishReason FinishReason
	Usage        Usage
}

// Client is the raw text-generation backend. It is constructor-injected into
// the Generator so tests can substitute a fake backend.
type Client interface {
	// Complete performs a single generation call.
	Complete(ctx context.Context, req Request) (*Result, error)
	// Close releases any resources held by the client.
	Close() error
}
