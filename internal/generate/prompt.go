package generate

import (
	"fmt"
	"strings"
)

// systemPrompt returns the system instruction for the remote providers.
func systemPrompt(kind Kind) string {
	if kind == KindCommitMessage {
		return "You are a senior developer writing conventional commit messages. " +
			"Output ONLY the commit message itself in type(scope): subject form - no explanations."
	}
	return "You are a helpful senior developer writing informal updates to your team. " +
		"Write naturally and conversationally, like you're explaining what you did to a colleague. " +
		"Output ONLY the comment text itself - no meta-commentary or explanations about what you're writing."
}

// BuildPrompt renders the user prompt for a request.
func BuildPrompt(req Request) string {
	if req.Kind == KindCommitMessage {
		return buildCommitPrompt(req)
	}
	return buildCommentPrompt(req)
}

func buildCommitPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Write a conventional commit message (type(scope): subject) for these changes.\n")
	b.WriteString("Output ONLY the commit message, nothing else.\n\n")
	fmt.Fprintf(&b, "Branch: %s\n", req.Branch)
	if len(req.FilesChanged) > 0 {
		fmt.Fprintf(&b, "Files changed: %s\n", strings.Join(req.FilesChanged, ", "))
	}
	b.WriteString("\nDIFF:\n")
	b.WriteString(req.Diff)

	return b.String()
}

// buildCommentPrompt mirrors the prompt the original automation used: an
// informal first-person update with testing notes, never meta-commentary.
func buildCommentPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("CRITICAL INSTRUCTION: Output ONLY the Jira comment text itself. ")
	b.WriteString("Do NOT include any meta-commentary, explanations, or descriptions about what you're writing. ")
	b.WriteString("Your output will be posted directly to Jira.\n\n")

	b.WriteString("Write an informal Jira comment update from a developer who just completed a task. ")
	b.WriteString("Write it like you're explaining what you did to your team lead - casual, conversational, but still professional.\n\n")

	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Commit: %s\n", req.CommitMessage)
	fmt.Fprintf(&b, "- SHA: %s\n", req.CommitSHA)
	fmt.Fprintf(&b, "- Branch: %s\n", req.Branch)
	fmt.Fprintf(&b, "- Files changed: %d\n", len(req.FilesChanged))
	if req.CommitURL != "" {
		fmt.Fprintf(&b, "- Commit link: %s\n", req.CommitURL)
	}
	if req.TicketSummary != "" {
		fmt.Fprintf(&b, "- Ticket: %s\n", req.TicketSummary)
	}
	if req.TicketDescription != "" {
		fmt.Fprintf(&b, "- Ticket context: %s\n", req.TicketDescription)
	}

	b.WriteString("\nCODE CHANGES:\n")
	b.WriteString(req.Diff)
	b.WriteString("\n\n")

	b.WriteString("STYLE GUIDELINES:\n")
	b.WriteString("1. Write in FIRST PERSON, like a developer writing their own update\n")
	b.WriteString("2. Be casual and conversational - use contractions, avoid formal structure\n")
	b.WriteString("3. Be brief but informative - don't over-explain\n")
	b.WriteString("4. Use simple markdown (**, -, bullets) - no fancy formatting\n")
	b.WriteString("5. Include practical details that matter for testing\n")
	b.WriteString("6. DON'T use section headers like \"Summary:\" - just write naturally\n")
	b.WriteString("7. Start with something like \"Hey team, I've completed ...\" or \"Done with ...\"\n\n")

	b.WriteString("REQUIRED CONTENT (written naturally, not as sections): ")
	b.WriteString("a brief intro saying you completed the task, what the issue was, what you changed, ")
	b.WriteString("a link to the commit, how to test it, and anything to watch out for.\n\n")

	b.WriteString("REMEMBER: Output ONLY the comment text. Start directly with something like \"Hey team\" or \"Done with\".")

	return b.String()
}
