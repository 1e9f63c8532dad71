// Package comment implements the comment command: the full pipeline from
// branch reconciliation through text generation to the tracker update.
package comment

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alan/jira-sync/cmd"
	"github.com/alan/jira-sync/internal/adf"
	"github.com/alan/jira-sync/internal/commands"
	"github.com/alan/jira-sync/internal/generate"
	"github.com/alan/jira-sync/internal/gitsync"
	"github.com/alan/jira-sync/internal/jira"
)

// NewCommentCmd creates and returns the comment command
func NewCommentCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var (
		transition int
		assignee   int
		mentions   []string
		fieldPairs []string
		dryRun     bool
	)

	cobraCmd := &cobra.Command{
		Use:   "comment <TICKET-KEY>",
		Short: "Generate and post a progress comment on a Jira ticket",
		Long: `Comment runs the full update pipeline for one ticket:

  1. reconcile the current branch with its upstream (rebase + autostash)
  2. gather commit context from git and, when available, the GitHub API
  3. generate an update comment through the provider chain
  4. convert it to an Atlassian document
  5. apply the update plan: comment, fields, transition, assignee, mentions

Each tracker step is independent; a failed step is reported and the rest
still run.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			key, err := commands.ParseTicketKey(args)
			if err != nil {
				return err
			}
			fields, err := commands.ParseFieldArgs(fieldPairs)
			if err != nil {
				return err
			}
			return runComment(cobraCmd, *globalConfigFile, key, commentOptions{
				transition: transition,
				assignee:   assignee,
				mentions:   mentions,
				fields:     fields,
				dryRun:     dryRun,
			}, loadConfig)
		},
	}

	cobraCmd.Flags().IntVarP(&transition, "transition", "t", 0, "Workflow transition to apply, as a 1-based ordinal into the ticket's transitions")
	cobraCmd.Flags().IntVar(&assignee, "assignee", 0, "Assignee to set, as a 1-based ordinal into the assignable users")
	cobraCmd.Flags().StringArrayVarP(&mentions, "mention", "m", nil, "Account id to mention in a follow-up comment (repeatable)")
	cobraCmd.Flags().StringArrayVar(&fieldPairs, "field", nil, "Field to set as name=value (repeatable)")
	cobraCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the update plan without touching the tracker")

	return cobraCmd
}

type commentOptions struct {
	transition int
	assignee   int
	mentions   []string
	fields     map[string]string
	dryRun     bool
}

func runComment(cobraCmd *cobra.Command, configFile, key string, opts commentOptions, loadConfig func(string) (*cmd.Config, error)) error {
	if err := commands.ValidateGitRepository(); err != nil {
		return err
	}

	base := &commands.BaseCommand{ConfigFile: &configFile, LoadConfig: loadConfig}
	if err := base.InitTracker(); err != nil {
		return err
	}
	ctx := cobraCmd.Context()

	branch := base.Config.SourceBranch
	if branch == "" {
		current, err := commands.CurrentBranch()
		if err != nil {
			return err
		}
		branch = current
	}

	// Step 1: branch reconciliation. Conflicts halt the pipeline.
	commands.Step("Reconciling %s with upstream", branch)
	syncResult, err := gitsync.NewCoordinator(base.Config.RemoteOrDefault()).Reconcile(ctx, branch)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if syncResult.Fatal() {
		commands.Error("Sync halted: %s", syncResult)
		return fmt.Errorf("resolve the conflicts before updating %s", key)
	}
	commands.Info("   %s", syncResult)

	// Step 2: commit context.
	cc, err := gatherCommitContext(branch)
	if err != nil {
		return fmt.Errorf("failed to read commit context: %w", err)
	}
	enrichFromGitHub(ctx, base.Config.RemoteOrDefault(), cc)

	// Step 3: ticket context. A failed fetch degrades generation but does not
	// stop the pipeline.
	var summary, description string
	if issue, err := base.JiraClient.GetIssue(ctx, key); err != nil {
		commands.Warn("Could not fetch %s, generating without ticket context: %v", key, err)
	} else {
		summary = issue.Summary
		description = issue.Description.PlainText()
	}

	// Step 4: generation.
	commands.Step("Generating update comment for %s", key)
	chain := generate.NewChain(
		generate.NewChatProvider(base.Creds.OpenAIKey, base.Config.OpenAIModelOrDefault()),
		generate.NewMessagesProvider(base.Creds.AnthropicKey, base.Config.AnthropicModelOrDefault()),
		generate.NewAgentProvider(base.Config.AgentCommand, base.Creds.AnthropicKey, "ANTHROPIC_API_KEY"),
	)
	genResult, err := chain.Generate(ctx, generate.Request{
		Kind:              generate.KindTicketComment,
		Diff:              cc.Diff,
		TicketSummary:     summary,
		TicketDescription: description,
		Branch:            cc.Branch,
		CommitSHA:         cc.SHA,
		CommitMessage:     cc.Message,
		CommitURL:         cc.CommitURL,
		FilesChanged:      cc.FilesChanged,
	})
	if err != nil {
		return fmt.Errorf("failed to generate comment: %w", err)
	}
	commands.Info("   Generated by %s", genResult.Provider)

	// Step 5: build and apply the update plan.
	plan := jira.UpdatePlan{
		Key:              key,
		Comment:          adf.Convert(genResult.Text),
		Fields:           mergeFields(base.Config.Fields, opts.fields),
		TransitionChoice: opts.transition,
		AssigneeChoice:   opts.assignee,
		Mentions:         opts.mentions,
	}

	if opts.dryRun {
		displayPlan(plan, genResult.Text)
		return nil
	}

	commands.Step("Updating %s", key)
	report := jira.NewOrchestrator(base.JiraClient).Apply(ctx, plan)
	displayReport(key, report)
	return nil
}

// mergeFields overlays the per-run field flags on the configured defaults.
func mergeFields(defaults, overrides map[string]string) map[string]string {
	if len(defaults) == 0 && len(overrides) == 0 {
		return nil
	}

	merged := make(map[string]string, len(defaults)+len(overrides))
	for name, value := range defaults {
		merged[name] = value
	}
	for name, value := range overrides {
		merged[name] = value
	}
	return merged
}

func displayPlan(plan jira.UpdatePlan, commentText string) {
	fmt.Printf("🔍 Dry run for %s — nothing sent\n\n", plan.Key)
	fmt.Println("Comment:")
	for _, line := range strings.Split(commentText, "\n") {
		fmt.Printf("   %s\n", line)
	}
	for name, value := range plan.Fields {
		fmt.Printf("Field: %s = %s\n", name, value)
	}
	if plan.TransitionChoice > 0 {
		fmt.Printf("Transition: #%d\n", plan.TransitionChoice)
	}
	if plan.AssigneeChoice > 0 {
		fmt.Printf("Assignee: #%d\n", plan.AssigneeChoice)
	}
	if len(plan.Mentions) > 0 {
		fmt.Printf("Mentions: %s\n", strings.Join(plan.Mentions, ", "))
	}
}

func displayReport(key string, report *jira.UpdateReport) {
	if report.CommentPosted {
		commands.Success("Comment posted to %s", key)
	}
	for _, field := range report.FieldsUpdated {
		commands.Success("Field %s updated", field)
	}
	if report.TransitionApplied != "" {
		commands.Success("Transitioned to %s", report.TransitionApplied)
	}
	if report.AssigneeChanged != "" {
		commands.Success("Assigned to %s", report.AssigneeChanged)
	}
	if report.MentionsPosted > 0 {
		commands.Success("Mentioned %d user(s)", report.MentionsPosted)
	}
	for _, failure := range report.Failures {
		commands.Warn("%v", failure)
	}
}
