package propagate

import "github.com/miketan/gitprop/internal/git"

// ReplayOrder returns the selection in application order. Selections
// come from git log newest-first; cherry-picking must happen
// oldest-first so each commit applies onto its predecessor.
func ReplayOrder(selection []git.Commit) []git.Commit {
	out := make([]git.Commit, len(selection))
	for i, c := range selection {
		out[len(selection)-1-i] = c
	}
	return out
}
