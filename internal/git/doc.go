// Package git provides git operations via shell commands.
//
// All operations use [os/exec.Command] to call the git CLI directly rather than
// using Go git libraries. This approach is simpler, more reliable, and ensures
// compatibility with user configurations (SSH keys, credential helpers, aliases).
//
// # Repository Operations
//
// Repository and branch queries:
//
//   - [GetOriginURL], [GetRepoNameFrom]: Extract repository information
//   - [GetCurrentBranch], [BranchExists], [ListBranches]: Branch queries
//   - [GetDefaultBranch]: Detect main/master branch
//   - [IsDirty]: Uncommitted change detection
//
// # Commit Graph
//
// Commit inspection and replay:
//
//   - [ListCommits]: Recent history with parent hashes
//   - [GetParents], [IsMergeCommit]: Merge commit detection
//   - [CherryPick]: Replay a commit, with mainline selection for merges
//   - [ResetSoft]: Move HEAD while keeping the worktree
//
// # Locking
//
// [RepoLock] serializes propagation runs per repository using flock on a
// file inside .git, so concurrent gitprop invocations fail fast with
// [ErrRepoBusy] instead of corrupting each other's branch state.
package git
