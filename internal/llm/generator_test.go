package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts a sequence of backend outcomes for the generator.
type fakeClient struct {
	results  []*Result
	errs     []error
	delay    time.Duration
	requests []Request
}

func (f *fakeClient) Complete(_ context.Context, req Request) (*Result, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	call := len(f.requests)
	f.requests = append(f.requests, req)

	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	if err != nil {
		return nil, err
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return &Result{Text: "{}", FinishReason: FinishNormal}, nil
}

func (f *fakeClient) Close() error { return nil }

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{
		results: []*Result{{Text: `{"ok":true}`, FinishReason: FinishNormal, Usage: Usage{TotalTokens: 42}}},
	}
	gen := NewGenerator(client)

	result, err := gen.Generate(context.Background(), "write a resume", Options{Model: "gemini-2.5-flash", MaxTokens: 4096})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, result.Text)
	assert.Equal(t, FinishNormal, result.FinishReason)
	assert.Equal(t, int32(42), result.Usage.TotalTokens)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.Equal(t, int32(4096), req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleUser, req.Messages[0].Role)
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{
		errs:    []error{errors.New("transient"), errors.New("transient again"), nil},
		results: []*Result{nil, nil, {Text: "ok", FinishReason: FinishNormal}},
	}
	gen := NewGenerator(client)

	result, err := gen.Generate(context.Background(), "prompt", Options{Model: "m", Retries: 2})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Len(t, client.requests, 3)
}

func TestGenerate_ExhaustedRetriesPropagatesLastError(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	client := &fakeClient{errs: []error{backendErr, backendErr, backendErr}}
	gen := NewGenerator(client)

	_, err := gen.Generate(context.Background(), "prompt", Options{Model: "m", Retries: 2})
	require.Error(t, err)
	// The last attempt's error surfaces unmodified.
	assert.Same(t, backendErr, err)
	assert.Len(t, client.requests, 3)
}

func TestGenerate_TimeoutWinsRace(t *testing.T) {
	client := &fakeClient{delay: 200 * time.Millisecond}
	gen := NewGenerator(client)

	_, err := gen.Generate(context.Background(), "prompt", Options{Model: "m", Timeout: 20 * time.Millisecond})
	require.Error(t, err)

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestGenerate_TruncationIsNotAnError(t *testing.T) {
	client := &fakeClient{
		results: []*Result{{Text: `{"partial":`, FinishReason: FinishLength}},
	}
	gen := NewGenerator(client)

	result, err := gen.Generate(context.Background(), "prompt", Options{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, FinishLength, result.FinishReason)
}

func TestNormalizeMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    []Message
		wantErr bool
	}{
		{
			name:    "bare string becomes user message",
			payload: "hello",
			want:    []Message{{Role: RoleUser, Content: "hello"}},
		},
		{
			name:    "explicit list passes through",
			payload: []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "usr"}},
			want:    []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "usr"}},
		},
		{
			name:    "unknown role defaults to user",
			payload: []Message{{Role: "tool", Content: "x"}},
			want:    []Message{{Role: RoleUser, Content: "x"}},
		},
		{
			name:    "single message",
			payload: Message{Role: RoleAssistant, Content: "prior"},
			want:    []Message{{Role: RoleAssistant, Content: "prior"}},
		},
		{
			name:    "unsupported type",
			payload: 42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMessages(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
