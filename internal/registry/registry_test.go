package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoHasBranch(t *testing.T) {
	t.Parallel()

	repo := Repo{
		Name:     "test",
		Path:     "/test",
		Branches: []string{"main", "develop"},
	}

	tests := []struct {
		branch string
		want   bool
	}{
		{"main", true},
		{"develop", true},
		{"feature", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := repo.HasBranch(tt.branch); got != tt.want {
			t.Errorf("HasBranch(%q) = %v, want %v", tt.branch, got, tt.want)
		}
	}
}

func TestRepoString(t *testing.T) {
	t.Parallel()

	withBranches := Repo{Name: "api", Branches: []string{"main", "develop"}}
	if got := withBranches.String(); got != "api (main, develop)" {
		t.Errorf("String() = %q, want %q", got, "api (main, develop)")
	}

	bare := Repo{Name: "api"}
	if got := bare.String(); got != "api" {
		t.Errorf("String() = %q, want %q", got, "api")
	}
}

func TestAddBranch(t *testing.T) {
	t.Parallel()

	reg := &Registry{}

	if err := reg.AddBranch("/repos/api", "api", "develop"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}
	if err := reg.AddBranch("/repos/api", "api", "main"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}
	if len(reg.Repos) != 1 {
		t.Fatalf("got %d repos, want 1", len(reg.Repos))
	}
	// Branches kept sorted
	if reg.Repos[0].Branches[0] != "develop" || reg.Repos[0].Branches[1] != "main" {
		t.Errorf("branches = %v, want [develop main]", reg.Repos[0].Branches)
	}

	// Duplicate is a no-op
	if err := reg.AddBranch("/repos/api", "api", "main"); err != nil {
		t.Fatalf("duplicate AddBranch failed: %v", err)
	}
	if len(reg.Repos[0].Branches) != 2 {
		t.Errorf("got %d branches after duplicate add, want 2", len(reg.Repos[0].Branches))
	}

	// Second repo gets its own entry
	if err := reg.AddBranch("/repos/web", "web", "main"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}
	if len(reg.Repos) != 2 {
		t.Errorf("got %d repos, want 2", len(reg.Repos))
	}
}

func TestRemoveBranch(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if err := reg.AddBranch("/repos/api", "api", "main"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}
	if err := reg.AddBranch("/repos/api", "api", "develop"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}

	if err := reg.RemoveBranch("/repos/api", "develop"); err != nil {
		t.Fatalf("RemoveBranch failed: %v", err)
	}
	if reg.Repos[0].HasBranch("develop") {
		t.Error("develop should no longer be tracked")
	}

	// Unknown branch errors
	if err := reg.RemoveBranch("/repos/api", "nonexistent"); err == nil {
		t.Error("RemoveBranch of untracked branch should fail")
	}

	// Removing the last branch drops the repo entry
	if err := reg.RemoveBranch("/repos/api", "main"); err != nil {
		t.Fatalf("RemoveBranch failed: %v", err)
	}
	if len(reg.Repos) != 0 {
		t.Errorf("got %d repos after removing last branch, want 0", len(reg.Repos))
	}

	// Unknown repo errors
	if err := reg.RemoveBranch("/repos/api", "main"); err == nil {
		t.Error("RemoveBranch on untracked repo should fail")
	}
}

func TestFindByPath(t *testing.T) {
	t.Parallel()

	reg := &Registry{}
	if err := reg.AddBranch("/repos/api", "api", "main"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}

	repo, err := reg.FindByPath("/repos/api")
	if err != nil {
		t.Fatalf("FindByPath failed: %v", err)
	}
	if repo.Name != "api" {
		t.Errorf("repo name = %q, want api", repo.Name)
	}

	if _, err := reg.FindByPath("/repos/unknown"); err == nil {
		t.Error("FindByPath of unknown repo should fail")
	}
}

func TestLoadSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// Load with no file returns empty registry
	reg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(reg.Repos) != 0 {
		t.Errorf("fresh registry has %d repos, want 0", len(reg.Repos))
	}

	if err := reg.AddBranch("/repos/api", "api", "main"); err != nil {
		t.Fatalf("AddBranch failed: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// File lands at the expected location
	path := filepath.Join(home, ".config", "gitprop", "tracked.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("registry file not written: %v", err)
	}

	// Round trip
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if len(loaded.Repos) != 1 || loaded.Repos[0].Name != "api" {
		t.Errorf("loaded registry = %+v, want one repo named api", loaded.Repos)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "gitprop")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tracked.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load of corrupt registry should fail")
	}
}
