package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/miketan/gitprop/internal/cmd"
)

// GitHub implements Forge for GitHub repositories using the gh CLI.
// Commands run inside the repo so gh resolves the repository from the
// origin remote.
type GitHub struct{}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")
	}

	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no accounts") {
			return fmt.Errorf("gh not authenticated: please run 'gh auth login'")
		}
		return fmt.Errorf("gh auth check failed: %w", err)
	}

	return nil
}

// FindPR returns the open PR whose head is branch, or nil when no PR
// exists yet.
func (g *GitHub) FindPR(ctx context.Context, repoPath, branch string) (*ExistingPR, error) {
	output, err := cmd.OutputContext(ctx, repoPath, "gh", "pr", "list",
		"--head", branch,
		"--state", "open",
		"--json", "number,url,state",
		"--limit", "1")
	if err != nil {
		return nil, fmt.Errorf("gh pr list failed: %w", err)
	}

	var prs []struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
		State  string `json:"state"`
	}
	if err := json.Unmarshal(output, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	return &ExistingPR{
		Number: prs[0].Number,
		URL:    prs[0].URL,
		State:  prs[0].State,
	}, nil
}

// CreatePR creates a new PR using the gh CLI
func (g *GitHub) CreatePR(ctx context.Context, repoPath string, params CreatePRParams) (*CreatePRResult, error) {
	output, err := cmd.OutputContext(ctx, repoPath, "gh", createPRArgs(params)...)
	if err != nil {
		return nil, fmt.Errorf("gh pr create failed: %w", err)
	}

	// gh pr create prints the PR URL
	prURL := strings.TrimSpace(string(output))
	if prURL == "" {
		return nil, fmt.Errorf("gh pr create returned empty output")
	}

	return &CreatePRResult{
		Number: prNumberFromURL(prURL),
		URL:    prURL,
	}, nil
}

func createPRArgs(params CreatePRParams) []string {
	args := []string{"pr", "create",
		"--title", params.Title,
		"--body", params.Body,
	}

	if params.Base != "" {
		args = append(args, "--base", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--head", params.Head)
	}
	if params.Draft {
		args = append(args, "--draft")
	}

	return args
}

// prNumberFromURL extracts the trailing number from a PR URL
// (e.g. https://github.com/org/repo/pull/123). Returns 0 when the URL
// has no numeric suffix.
func prNumberFromURL(prURL string) int {
	parts := strings.Split(strings.TrimRight(prURL, "/"), "/")
	n, _ := strconv.Atoi(parts[len(parts)-1])
	return n
}
