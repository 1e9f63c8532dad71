package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alan/jira-sync/internal/adf"
	"github.com/alan/jira-sync/internal/credentials"
)

// Client is a minimal Jira Cloud REST v3 client authenticated with
// email + API token basic auth.
type Client struct {
	baseURL string
	email   string
	token   string
	client  *http.Client
}

// NewClient builds a client from resolved credentials.
func NewClient(creds *credentials.Context) *Client {
	return &Client{
		baseURL: creds.BaseURL,
		email:   creds.Email,
		token:   creds.APIToken,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues one authenticated request and decodes the response into out when
// out is non-nil. Non-2xx responses become errors carrying the body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// GetIssue fetches the summary and description of one issue.
func (c *Client) GetIssue(ctx context.Context, key string) (Issue, error) {
	var envelope issueEnvelope
	path := fmt.Sprintf("/rest/api/3/issue/%s?fields=summary,description", url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return Issue{}, fmt.Errorf("failed to fetch issue %s: %w", key, err)
	}
	return envelope.issue(), nil
}

// SearchIssues runs a JQL query and returns the matching issues with their
// summary and description fields.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	var out struct {
		Issues []issueEnvelope `json:"issues"`
	}
	path := "/rest/api/3/search?fields=summary,description&jql=" + url.QueryEscape(jql)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	issues := make([]Issue, 0, len(out.Issues))
	for _, envelope := range out.Issues {
		issues = append(issues, envelope.issue())
	}
	return issues, nil
}

// ListFields returns every field definition visible to the account. Used to
// map user-facing field names to field ids.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/field", nil, &fields); err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return fields, nil
}

// AddComment posts an ADF document as a comment on the issue.
func (c *Client) AddComment(ctx context.Context, key string, body *adf.Node) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/comment", url.PathEscape(key))
	payload := map[string]any{"body": body}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to add comment to %s: %w", key, err)
	}
	return nil
}

// UpdateFields sets issue fields by id. Values must already be typed
// (string or float64) the way the field expects.
func (c *Client) UpdateFields(ctx context.Context, key string, fields map[string]any) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s", url.PathEscape(key))
	payload := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPut, path, payload, nil); err != nil {
		return fmt.Errorf("failed to update fields on %s: %w", key, err)
	}
	return nil
}

// ListTransitions returns the workflow moves currently available on the issue.
func (c *Client) ListTransitions(ctx context.Context, key string) ([]Transition, error) {
	var out struct {
		Transitions []Transition `json:"transitions"`
	}
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}
	return out.Transitions, nil
}

// ApplyTransition moves the issue through the given transition id.
func (c *Client) ApplyTransition(ctx context.Context, key, transitionID string) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(key))
	payload := map[string]any{"transition": map[string]string{"id": transitionID}}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, err)
	}
	return nil
}

// ListAssignableUsers returns the accounts that can be assigned to the issue.
func (c *Client) ListAssignableUsers(ctx context.Context, key string) ([]User, error) {
	var users []User
	path := fmt.Sprintf("/rest/api/3/user/assignable/search?issueKey=%s", url.QueryEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list assignable users for %s: %w", key, err)
	}
	return users, nil
}

// SetAssignee assigns the issue to the given account.
func (c *Client) SetAssignee(ctx context.Context, key, accountID string) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/assignee", url.PathEscape(key))
	payload := map[string]string{"accountId": accountID}
	if err := c.do(ctx, http.MethodPut, path, payload, nil); err != nil {
		return fmt.Errorf("failed to assign %s: %w", key, err)
	}
	return nil
}
