// Package ai generates commit messages, branch names and pull request
// content from git diffs using the Gemini API. All generated text is
// a suggestion: callers let the user review and edit it before use.
package ai
