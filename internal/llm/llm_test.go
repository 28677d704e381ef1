package llm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoflowhq/autoflow/internal/config"
)

// mockCompleter is a scripted stand-in for the OpenAI client.
type mockCompleter struct {
	response string
	err      error
	calls    int
	lastReq  openai.ChatCompletionRequest
}

func (m *mockCompleter) CreateChatCompletion(
	_ context.Context,
	request openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	m.calls++
	m.lastReq = request

	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.response}},
		},
	}, nil
}

func newTestClient(api ChatCompleter) (*Client, *bytes.Buffer) {
	var errOut bytes.Buffer
	cfg := &config.Config{Model: "gpt-3.5-turbo", APIKey: "test-key"}
	return NewClientWithCompleter(api, cfg, &errOut), &errOut
}

func TestCommitMessage(t *testing.T) {
	t.Run("success trims response", func(t *testing.T) {
		mock := &mockCompleter{response: "  feat: add login\n\nImplement session handling.  "}
		client, _ := newTestClient(mock)

		message, err := client.CommitMessage(context.Background(), "diff --git a/login.go b/login.go")
		require.NoError(t, err)
		assert.Equal(t, "feat: add login\n\nImplement session handling.", message)
		assert.Equal(t, 1, mock.calls)
		assert.Equal(t, "gpt-3.5-turbo", mock.lastReq.Model)
	})

	t.Run("blank diff rejected before any request", func(t *testing.T) {
		mock := &mockCompleter{}
		client, _ := newTestClient(mock)

		_, err := client.CommitMessage(context.Background(), "   \n ")
		assert.ErrorIs(t, err, ErrNoDiffContent)
		assert.Zero(t, mock.calls)
	})

	t.Run("oversized diff returns fallback without a request", func(t *testing.T) {
		mock := &mockCompleter{}
		client, errOut := newTestClient(mock)

		bigDiff := strings.Repeat("a", MaxDiffChars+10000)
		message, err := client.CommitMessage(context.Background(), bigDiff)
		require.NoError(t, err)
		assert.Equal(t, OversizedDiffFallback, message)
		assert.Zero(t, mock.calls)
		assert.Contains(t, errOut.String(), "very large")
	})

	t.Run("backend error reported as generation failure", func(t *testing.T) {
		mock := &mockCompleter{err: errors.New("rate limited")}
		client, _ := newTestClient(mock)

		_, err := client.CommitMessage(context.Background(), "diff content")
		assert.ErrorIs(t, err, ErrGenerationFailed)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("empty response is a generation failure, not a substitute", func(t *testing.T) {
		mock := &mockCompleter{response: "   "}
		client, _ := newTestClient(mock)

		_, err := client.CommitMessage(context.Background(), "diff content")
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})
}

func TestBranchName(t *testing.T) {
	t.Run("strips surrounding quotes and backticks", func(t *testing.T) {
		mock := &mockCompleter{response: "`\"feat/add-login\"`\n"}
		client, _ := newTestClient(mock)

		name, err := client.BranchName(context.Background(), "diff content")
		require.NoError(t, err)
		assert.Equal(t, "feat/add-login", name)
	})

	t.Run("sets branch-name generation parameters", func(t *testing.T) {
		mock := &mockCompleter{response: "fix/parser"}
		client, _ := newTestClient(mock)

		_, err := client.BranchName(context.Background(), "diff content")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, mock.lastReq.Temperature, 0.001)
		assert.Equal(t, 50, mock.lastReq.MaxTokens)
	})

	t.Run("whitespace in suggestion is invalid", func(t *testing.T) {
		mock := &mockCompleter{response: "feat add login"}
		client, _ := newTestClient(mock)

		_, err := client.BranchName(context.Background(), "diff content")

		var invalid *InvalidBranchNameError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "feat add login", invalid.Suggestion)
	})

	t.Run("empty suggestion is invalid", func(t *testing.T) {
		mock := &mockCompleter{response: "``"}
		client, _ := newTestClient(mock)

		_, err := client.BranchName(context.Background(), "diff content")

		var invalid *InvalidBranchNameError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("oversized diff rejected before any request", func(t *testing.T) {
		mock := &mockCompleter{}
		client, _ := newTestClient(mock)

		_, err := client.BranchName(context.Background(), strings.Repeat("a", MaxDiffChars+1))
		assert.ErrorIs(t, err, ErrContentTooLarge)
		assert.Zero(t, mock.calls)
	})
}

func TestPRDescription(t *testing.T) {
	t.Run("includes commit message context in the request", func(t *testing.T) {
		mock := &mockCompleter{response: "## Summary\nAdds login."}
		client, _ := newTestClient(mock)

		description, err := client.PRDescription(context.Background(), "diff content", "feat: add login")
		require.NoError(t, err)
		assert.Equal(t, "## Summary\nAdds login.", description)

		require.Len(t, mock.lastReq.Messages, 2)
		userContent := mock.lastReq.Messages[1].Content
		assert.Contains(t, userContent, "feat: add login")
		assert.Contains(t, userContent, "diff content")
	})

	t.Run("commit message is optional", func(t *testing.T) {
		mock := &mockCompleter{response: "## Summary\nAdds login."}
		client, _ := newTestClient(mock)

		_, err := client.PRDescription(context.Background(), "diff content", "")
		require.NoError(t, err)
		assert.NotContains(t, mock.lastReq.Messages[1].Content, "Commit message:")
	})

	t.Run("guards apply", func(t *testing.T) {
		mock := &mockCompleter{}
		client, _ := newTestClient(mock)

		_, err := client.PRDescription(context.Background(), "", "feat: add login")
		assert.ErrorIs(t, err, ErrNoDiffContent)

		_, err = client.PRDescription(context.Background(), strings.Repeat("a", MaxDiffChars+1), "")
		assert.ErrorIs(t, err, ErrContentTooLarge)

		assert.Zero(t, mock.calls)
	})
}

func TestMissingAPIKey(t *testing.T) {
	mock := &mockCompleter{response: "feat: something"}
	client := NewClientWithCompleter(mock, &config.Config{Model: "gpt-3.5-turbo"}, &bytes.Buffer{})

	_, err := client.CommitMessage(context.Background(), "diff content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Zero(t, mock.calls)
}
