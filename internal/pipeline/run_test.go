package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydev929/us-resume-v2/internal/llm"
	"github.com/skydev929/us-resume-v2/internal/normalize"
	"github.com/skydev929/us-resume-v2/internal/reconcile"
	"github.com/skydev929/us-resume-v2/internal/types"
)

const goodOutput = `{
	"title": "Backend Engineer at Acme LLC",
	"summary": "Seasoned builder with 12 years of experience in **Go**.",
	"skills": {"Languages": ["Go"]},
	"experience": [
		{"title": "Engineer", "company": "Acme LLC", "start_date": "2015-01-01", "end_date": "present", "details": ["Shipped **Go** services"]}
	]
}`

// scriptedClient returns canned results per call and records every request.
type scriptedClient struct {
	results  []*llm.Result
	errs     []error
	requests []llm.Request
}

func (s *scriptedClient) Complete(_ context.Context, req llm.Request) (*llm.Result, error) {
	call := len(s.requests)
	s.requests = append(s.requests, req)
	if call < len(s.errs) && s.errs[call] != nil {
		return nil, s.errs[call]
	}
	if call < len(s.results) {
		return s.results[call], nil
	}
	return &llm.Result{Text: goodOutput, FinishReason: llm.FinishNormal}, nil
}

func (s *scriptedClient) Close() error { return nil }

func janeProfile() *types.ProfileRecord {
	return &types.ProfileRecord{
		Name: "Jane Doe",
		Experience: []types.ExperienceEntry{
			{Title: "Engineer", Company: "Acme LLC", StartDate: "2015-01-01", EndDate: "present"},
		},
	}
}

func TestRun_HappyPath(t *testing.T) {
	client := &scriptedClient{
		results: []*llm.Result{{Text: goodOutput, FinishReason: llm.FinishNormal, Usage: llm.Usage{TotalTokens: 900}}},
	}
	runner := New(client, Config{})

	result, err := runner.Run(context.Background(), janeProfile(), "Go backend role")
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", result.Content.Title)
	assert.True(t, strings.HasPrefix(result.Content.Summary, reconcile.OpeningPhrase))
	assert.Contains(t, result.Content.Summary, "more than 10 years")
	assert.False(t, result.Fallback)
	assert.Equal(t, int32(900), result.Usage.TotalTokens)
	assert.GreaterOrEqual(t, result.Years, 10)

	require.Len(t, client.requests, 1)
	promptText := client.requests[0].Messages[0].Content
	assert.Contains(t, promptText, "8-10 detail bullets")
	assert.Contains(t, promptText, "Go backend role")
	assert.Contains(t, promptText, "Jane Doe")
}

func TestRun_TruncationFallbackProtocol(t *testing.T) {
	truncated := `{"title": "Backend`
	client := &scriptedClient{
		results: []*llm.Result{
			{Text: truncated, FinishReason: llm.FinishLength},
			{Text: goodOutput, FinishReason: llm.FinishNormal},
		},
	}
	runner := New(client, Config{MaxTokens: 8000})

	result, err := runner.Run(context.Background(), janeProfile(), "job")
	require.NoError(t, err)

	// Exactly one fallback attempt, with the reduced bullet instruction
	// and a reduced token budget.
	require.Len(t, client.requests, 2)
	assert.Contains(t, client.requests[0].Messages[0].Content, "8-10 detail bullets")
	assert.Equal(t, int32(8000), client.requests[0].MaxTokens)
	assert.Contains(t, client.requests[1].Messages[0].Content, "6-8 detail bullets")
	assert.Equal(t, int32(6000), client.requests[1].MaxTokens)

	// The truncated content never surfaces.
	assert.True(t, result.Fallback)
	assert.Equal(t, "Backend Engineer", result.Content.Title)
}

func TestRun_FallbackOutputAlsoTruncated(t *testing.T) {
	// A second cutoff is not retried again; the fallback result proceeds
	// and fails downstream on its merits.
	client := &scriptedClient{
		results: []*llm.Result{
			{Text: `{"x":`, FinishReason: llm.FinishLength},
			{Text: `{"still": "cut`, FinishReason: llm.FinishLength},
		},
	}
	runner := New(client, Config{})

	_, err := runner.Run(context.Background(), janeProfile(), "job")
	require.Error(t, err)
	assert.Len(t, client.requests, 2)
}

func TestRun_GenerationErrorPropagates(t *testing.T) {
	backendErr := errors.New("backend down")
	client := &scriptedClient{errs: []error{backendErr}}
	runner := New(client, Config{Retries: 0})

	_, err := runner.Run(context.Background(), janeProfile(), "job")
	assert.Same(t, backendErr, err)
}

func TestRun_RefusalSurfaces(t *testing.T) {
	client := &scriptedClient{
		results: []*llm.Result{{Text: "I'm sorry, I can't write that resume.", FinishReason: llm.FinishNormal}},
	}
	runner := New(client, Config{})

	_, err := runner.Run(context.Background(), janeProfile(), "job")
	var refusal *normalize.RefusalError
	assert.ErrorAs(t, err, &refusal)
}

func TestRun_SchemaErrorSurfaces(t *testing.T) {
	client := &scriptedClient{
		results: []*llm.Result{{Text: `{"title": "only"}`, FinishReason: llm.FinishNormal}},
	}
	runner := New(client, Config{})

	_, err := runner.Run(context.Background(), janeProfile(), "job")
	var schemaErr *reconcile.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestReducedBudget(t *testing.T) {
	assert.Equal(t, int32(6144), reducedBudget(8192))
	assert.Equal(t, int32(3072), reducedBudget(4096))
}
