// Package llm generates commit messages, branch names, and PR descriptions
// from diff content through a chat-completion backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/autoflowhq/autoflow/internal/config"
)

// MaxDiffChars is the input character budget. Inputs over this size are
// rejected before any request is issued.
const MaxDiffChars = 60000

// OversizedDiffFallback is the one sanctioned substitute result: an oversized
// diff yields this generic commit message instead of a hard failure.
const OversizedDiffFallback = "refactor: Apply extensive changes (diff too large for detailed AI summary)"

const requestTimeout = 30 * time.Second

const commitMessageSystemPrompt = "You are an expert assistant that generates concise, short, and informative " +
	"commit messages based on git diffs. Follow standard commit message conventions: use the imperative mood, " +
	"limit the subject line (if possible, imagine a 50-character limit), and focus on what changed and why, " +
	"not just how. Avoid overly long descriptions."

const branchNameSystemPrompt = `You are an expert at creating Git branch names. Based on the following git diff, suggest a concise, descriptive branch name.
The branch name should:
- Be in kebab-case (e.g., feature/user-authentication or fix/incorrect-calculation).
- Often start with a type like feat/, fix/, chore/, docs/, refactor/, test/, style/ if applicable.
- Be lowercase.
- Not contain spaces or special characters other than hyphens and slashes.
- Be relatively short but informative.
- Consist of a single line.
Output only the branch name itself, without any other text, explanation, or quotation marks.`

const prDescriptionSystemPrompt = `You are an expert assistant that writes clear pull request descriptions from git diffs.
Structure the description with exactly three sections:
## Summary
One to three sentences describing the overall change.
## Changes
A bullet list describing the functionality that changed, not the filenames.
## Testing Instructions
How a reviewer can verify the change.
Output only the description in Markdown, without any surrounding commentary.`

// ChatCompleter is the subset of the OpenAI client the generator needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client generates text for the three workflow tasks. Construct with NewClient.
type Client struct {
	api       ChatCompleter
	cfg       *config.Config
	errWriter io.Writer
}

// NewClient builds a generation client from resolved configuration.
func NewClient(cfg *config.Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientConfig.BaseURL = cfg.APIBase
	}
	return &Client{
		api:       openai.NewClientWithConfig(clientConfig),
		cfg:       cfg,
		errWriter: os.Stderr,
	}
}

// NewClientWithCompleter builds a client around an existing completer.
// Used by tests and by callers that manage their own backend transport.
func NewClientWithCompleter(api ChatCompleter, cfg *config.Config, errWriter io.Writer) *Client {
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Client{api: api, cfg: cfg, errWriter: errWriter}
}

func checkInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrNoDiffContent
	}
	if len(input) > MaxDiffChars {
		return ErrContentTooLarge
	}
	return nil
}

// CommitMessage generates a commit message for the given staged diff.
// An oversized diff returns OversizedDiffFallback with a warning rather
// than failing.
func (c *Client) CommitMessage(ctx context.Context, diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", ErrNoDiffContent
	}
	if len(diff) > MaxDiffChars {
		fmt.Fprintf(c.errWriter,
			"Warning: diff content is very large (%d chars, limit is %d chars). "+
				"Using a generic commit message to avoid exceeding the model context window.\n",
			len(diff), MaxDiffChars)
		return OversizedDiffFallback, nil
	}

	message, err := c.complete(ctx, "commit message", openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: commitMessageSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Please generate a commit message for the following changes:\n\n" + diff},
		},
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

// BranchName suggests a branch name for the given working-tree diff.
// The response is stripped of surrounding quote and backtick characters and
// post-validated to be a single non-empty token.
func (c *Client) BranchName(ctx context.Context, diff string) (string, error) {
	if err := checkInput(diff); err != nil {
		return "", err
	}

	suggestion, err := c.complete(ctx, "branch name", openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: 0.5,
		MaxTokens:   50,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: branchNameSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Generate a branch name for the following diff:\n" + diff},
		},
	})
	if err != nil {
		return "", err
	}

	suggestion = strings.TrimSpace(strings.NewReplacer("`", "", "'", "", `"`, "").Replace(suggestion))
	if suggestion == "" || strings.ContainsAny(suggestion, " \t\n") {
		return "", &InvalidBranchNameError{Suggestion: suggestion}
	}
	return suggestion, nil
}

// PRDescription generates a pull request description from the diff, optionally
// informed by the commit message that produced it.
func (c *Client) PRDescription(ctx context.Context, diff, commitMessage string) (string, error) {
	if err := checkInput(diff); err != nil {
		return "", err
	}

	var userContent strings.Builder
	if commitMessage != "" {
		userContent.WriteString("Commit message:\n")
		userContent.WriteString(commitMessage)
		userContent.WriteString("\n\n")
	}
	userContent.WriteString("Generate a pull request description for the following changes:\n\n")
	userContent.WriteString(diff)

	return c.complete(ctx, "PR description", openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prDescriptionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent.String()},
		},
	})
}

func (c *Client) complete(ctx context.Context, task string, request openai.ChatCompletionRequest) (string, error) {
	if c.cfg.APIKey == "" && c.cfg.APIBase == "" {
		return "", errors.New("API key not set, please set OPENAI_API_KEY")
	}

	if c.cfg.Verbose {
		fmt.Fprintf(c.errWriter, "Requesting %s from model %s\n", task, request.Model)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrGenerationFailed, task, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s: empty response", ErrGenerationFailed, task)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: %s: empty response", ErrGenerationFailed, task)
	}
	return content, nil
}
