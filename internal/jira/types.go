// Package jira talks to the Jira Cloud REST v3 API and orchestrates the
// per-ticket update steps: comment, fields, transition, assignee, mentions.
package jira

import (
	"github.com/alan/jira-sync/internal/adf"
)

// Issue is the subset of a Jira issue the pipeline reads.
type Issue struct {
	Key         string    `json:"key"`
	Summary     string    `json:"-"`
	Description *adf.Node `json:"-"`
}

// issueEnvelope is the wire shape; Summary and Description live under fields.
type issueEnvelope struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string    `json:"summary"`
		Description *adf.Node `json:"description"`
	} `json:"fields"`
}

func (e issueEnvelope) issue() Issue {
	return Issue{Key: e.Key, Summary: e.Fields.Summary, Description: e.Fields.Description}
}

// Field is a custom or system field definition from /rest/api/3/field.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transition is one available workflow move for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

// User is an assignable or mentionable Jira account.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	EmailAddr   string `json:"emailAddress"`
}

// UpdatePlan is everything the orchestrator should apply to one issue.
// Zero values mean "skip that step".
type UpdatePlan struct {
	Key              string
	Comment          *adf.Node         // nil or Empty() skips the comment step
	Fields           map[string]string // field name -> raw value
	TransitionChoice int               // 1-based ordinal into the issue's transitions, 0 skips
	AssigneeChoice   int               // 1-based ordinal into assignable users, 0 skips
	Mentions         []string          // account ids to ping in a follow-up comment
}

// UpdateReport records what each step did. Steps are independent: a failure
// is collected and the remaining steps still run.
type UpdateReport struct {
	CommentPosted     bool
	FieldsUpdated     []string
	TransitionApplied string
	AssigneeChanged   string
	MentionsPosted    int
	Failures          []error
}

// Failed reports whether any step failed.
func (r *UpdateReport) Failed() bool {
	return len(r.Failures) > 0
}
