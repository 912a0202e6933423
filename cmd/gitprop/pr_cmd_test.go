package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/miketan/gitprop/internal/cmd"
)

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, name, args...); err != nil {
		t.Fatalf("%s %v failed: %v", name, args, err)
	}
}

func TestResolvePRTarget(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// A clone whose origin's default branch is "trunk"
	origin := filepath.Join(dir, "origin.git")
	run(t, "", "git", "init", "--bare", "-b", "trunk", origin)
	repo := filepath.Join(dir, "repo")
	run(t, "", "git", "clone", origin, repo)
	run(t, repo, "git", "config", "user.email", "test@test.com")
	run(t, repo, "git", "config", "user.name", "Test User")
	run(t, repo, "git", "config", "commit.gpgsign", "false")
	run(t, repo, "git", "commit", "--allow-empty", "-m", "Initial commit")
	run(t, repo, "git", "push", "-u", "origin", "HEAD")
	run(t, repo, "git", "remote", "set-head", "origin", "--auto")

	t.Run("flag wins", func(t *testing.T) {
		if got := resolvePRTarget(ctx, repo, "release/1.2", "develop"); got != "release/1.2" {
			t.Errorf("resolvePRTarget = %q, want release/1.2", got)
		}
	})

	t.Run("config beats detection", func(t *testing.T) {
		if got := resolvePRTarget(ctx, repo, "", "develop"); got != "develop" {
			t.Errorf("resolvePRTarget = %q, want develop", got)
		}
	})

	t.Run("falls back to origin default branch", func(t *testing.T) {
		if got := resolvePRTarget(ctx, repo, "", ""); got != "trunk" {
			t.Errorf("resolvePRTarget = %q, want trunk", got)
		}
	})
}
