package jira

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/alan/jira-sync/internal/adf"
)

// API is the slice of the Jira client the orchestrator needs. Satisfied by
// *Client; tests substitute a fake.
type API interface {
	ListFields(ctx context.Context) ([]Field, error)
	AddComment(ctx context.Context, key string, body *adf.Node) error
	UpdateFields(ctx context.Context, key string, fields map[string]any) error
	ListTransitions(ctx context.Context, key string) ([]Transition, error)
	ApplyTransition(ctx context.Context, key, transitionID string) error
	ListAssignableUsers(ctx context.Context, key string) ([]User, error)
	SetAssignee(ctx context.Context, key, accountID string) error
}

// Orchestrator applies an UpdatePlan step by step. Every step is optional and
// independent: a failed step is recorded in the report and the next one runs.
type Orchestrator struct {
	api API
}

// NewOrchestrator wires the orchestrator to an API implementation.
func NewOrchestrator(api API) *Orchestrator {
	return &Orchestrator{api: api}
}

var numericValue = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Apply runs the plan's steps in order: comment, fields, transition,
// assignee, mentions. The returned report is always usable, even when
// some steps failed.
func (o *Orchestrator) Apply(ctx context.Context, plan UpdatePlan) *UpdateReport {
	report := &UpdateReport{}

	o.postComment(ctx, plan, report)
	o.updateFields(ctx, plan, report)
	o.applyTransition(ctx, plan, report)
	o.setAssignee(ctx, plan, report)
	o.postMentions(ctx, plan, report)

	return report
}

func (o *Orchestrator) postComment(ctx context.Context, plan UpdatePlan, report *UpdateReport) {
	if plan.Comment == nil || plan.Comment.Empty() {
		return
	}
	if err := o.api.AddComment(ctx, plan.Key, plan.Comment); err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("comment: %w", err))
		slog.Warn("failed to post comment", "ticket", plan.Key, "error", err)
		return
	}
	report.CommentPosted = true
}

// updateFields resolves field names to ids once, then issues one update call
// per field so a rejected value never blocks the others.
func (o *Orchestrator) updateFields(ctx context.Context, plan UpdatePlan, report *UpdateReport) {
	if len(plan.Fields) == 0 {
		return
	}

	defs, err := o.api.ListFields(ctx)
	if err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("fields: %w", err))
		slog.Warn("failed to list fields", "ticket", plan.Key, "error", err)
		return
	}

	byName := make(map[string]string, len(defs))
	for _, def := range defs {
		byName[strings.ToLower(def.Name)] = def.ID
	}

	for name, raw := range plan.Fields {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			report.Failures = append(report.Failures, fmt.Errorf("fields: no field named %q", name))
			continue
		}

		err := o.api.UpdateFields(ctx, plan.Key, map[string]any{id: typedValue(raw)})
		if err != nil {
			report.Failures = append(report.Failures, fmt.Errorf("field %q: %w", name, err))
			slog.Warn("failed to update field", "ticket", plan.Key, "field", name, "error", err)
			continue
		}
		report.FieldsUpdated = append(report.FieldsUpdated, name)
	}
}

// typedValue sends numeric-looking values as numbers. Jira rejects a string
// payload on number-typed custom fields.
func typedValue(raw string) any {
	if numericValue.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

func (o *Orchestrator) applyTransition(ctx context.Context, plan UpdatePlan, report *UpdateReport) {
	if plan.TransitionChoice == 0 {
		return
	}

	transitions, err := o.api.ListTransitions(ctx, plan.Key)
	if err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("transition: %w", err))
		slog.Warn("failed to list transitions", "ticket", plan.Key, "error", err)
		return
	}

	if plan.TransitionChoice < 1 || plan.TransitionChoice > len(transitions) {
		report.Failures = append(report.Failures,
			fmt.Errorf("transition: choice %d out of range, issue has %d transitions", plan.TransitionChoice, len(transitions)))
		return
	}

	chosen := transitions[plan.TransitionChoice-1]
	if err := o.api.ApplyTransition(ctx, plan.Key, chosen.ID); err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("transition %q: %w", chosen.Name, err))
		slog.Warn("failed to apply transition", "ticket", plan.Key, "transition", chosen.Name, "error", err)
		return
	}
	report.TransitionApplied = chosen.Name
}

func (o *Orchestrator) setAssignee(ctx context.Context, plan UpdatePlan, report *UpdateReport) {
	if plan.AssigneeChoice == 0 {
		return
	}

	users, err := o.api.ListAssignableUsers(ctx, plan.Key)
	if err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("assignee: %w", err))
		slog.Warn("failed to list assignable users", "ticket", plan.Key, "error", err)
		return
	}

	if plan.AssigneeChoice < 1 || plan.AssigneeChoice > len(users) {
		report.Failures = append(report.Failures,
			fmt.Errorf("assignee: choice %d out of range, %d users assignable", plan.AssigneeChoice, len(users)))
		return
	}

	chosen := users[plan.AssigneeChoice-1]
	if err := o.api.SetAssignee(ctx, plan.Key, chosen.AccountID); err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("assignee %q: %w", chosen.DisplayName, err))
		slog.Warn("failed to set assignee", "ticket", plan.Key, "assignee", chosen.DisplayName, "error", err)
		return
	}
	report.AssigneeChanged = chosen.DisplayName
}

// postMentions posts one extra comment that pings the given accounts.
func (o *Orchestrator) postMentions(ctx context.Context, plan UpdatePlan, report *UpdateReport) {
	if len(plan.Mentions) == 0 {
		return
	}

	spans := make([]*adf.Node, 0, len(plan.Mentions)*2+1)
	spans = append(spans, adf.Text("FYI "))
	for i, accountID := range plan.Mentions {
		if i > 0 {
			spans = append(spans, adf.Text(" "))
		}
		spans = append(spans, adf.Mention(accountID, ""))
	}
	body := adf.Doc(adf.Paragraph(spans...))

	if err := o.api.AddComment(ctx, plan.Key, body); err != nil {
		report.Failures = append(report.Failures, fmt.Errorf("mentions: %w", err))
		slog.Warn("failed to post mention comment", "ticket", plan.Key, "error", err)
		return
	}
	report.MentionsPosted = len(plan.Mentions)
}
