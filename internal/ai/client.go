package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/miketan/gitprop/internal/config"
)

// ErrNoAPIKey is returned when no Gemini API key is configured.
var ErrNoAPIKey = errors.New("no Gemini API key configured, set GEMINI_API_KEY or [ai] api_key")

// Client generates commit messages, branch names and PR content with
// the Gemini API.
type Client struct {
	model  string
	client *genai.Client
}

// NewClient creates a Gemini client from the resolved config. Returns
// ErrNoAPIKey when neither the environment nor the config file carry a
// key.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Client{model: model, client: client}, nil
}

// generate sends a single text prompt and returns the trimmed response.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

// CommitMessage generates a Conventional Commits style message for the
// given diff.
func (c *Client) CommitMessage(ctx context.Context, diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", errors.New("no changes to describe")
	}
	return c.generate(ctx, commitMessagePrompt(diff))
}

// BranchName suggests a branch name for the given diff. prefix (e.g.
// "feature/") is prepended when non-empty.
func (c *Client) BranchName(ctx context.Context, diff, prefix string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", errors.New("no changes to describe")
	}

	raw, err := c.generate(ctx, branchNamePrompt(diff))
	if err != nil {
		return "", err
	}

	name := SanitizeBranchName(raw)
	if name == "" {
		return "", errors.New("gemini returned an unusable branch name")
	}
	return prefix + name, nil
}

// PRContent generates a PR title and description from the diff between
// the source and target branches.
func (c *Client) PRContent(ctx context.Context, diff, source, target string) (title, description string, err error) {
	if strings.TrimSpace(diff) == "" {
		return "No changes detected",
			"The diff appears to be empty. Please check your branch selection.",
			nil
	}

	raw, err := c.generate(ctx, prContentPrompt(diff, source, target))
	if err != nil {
		return "", "", err
	}

	title, description = ParseTitleDescription(raw)
	if title == "" {
		title = "Update from " + source
	}
	if description == "" {
		description = raw
	}
	return title, description, nil
}
