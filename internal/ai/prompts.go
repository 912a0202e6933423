package ai

import "fmt"

// Very large diffs blow the token budget; cut them and say so.
const (
	maxPRDiffLen     = 8000
	maxCommitDiffLen = 6000
)

func truncateDiff(diff string, max int) string {
	if len(diff) <= max {
		return diff
	}
	return diff[:max] + "\n\n... (diff truncated for analysis)"
}

func commitMessagePrompt(diff string) string {
	return fmt.Sprintf(`Generate a git commit message for this diff.
Follow Conventional Commits format (type(scope): subject).
Keep it concise.

Diff:
%s

Output ONLY the commit message.
`, truncateDiff(diff, maxCommitDiffLen))
}

func branchNamePrompt(diff string) string {
	return fmt.Sprintf(`Suggest a short git branch name for this diff.
Use 2-4 lowercase words joined by hyphens (e.g. fix-login-redirect).
No prefix like feature/ or fix/, no quotes.

Diff:
%s

Output ONLY the branch name.
`, truncateDiff(diff, maxCommitDiffLen))
}

func prContentPrompt(diff, source, target string) string {
	return fmt.Sprintf(`Analyze this git diff and generate a pull request title and description.

Source Branch: %s
Target Branch: %s

Git Diff:
`+"```"+`
%s
`+"```"+`

Generate:
1. A concise, descriptive PR title (max 80 characters) that summarizes the main changes
2. A summarised PR description with:
   - Brief summary of what changed
   - Key changes (bullet points)
   - Any notable implementation details

Format your response EXACTLY as:
TITLE: [your title here]
DESCRIPTION:
[your description here]

Keep it short, simple, professional and technical. Focus on what changed and why it matters.`,
		source, target, truncateDiff(diff, maxPRDiffLen))
}
