package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultMessagesBaseURL = "https://api.anthropic.com"

// MessagesProvider talks to an Anthropic-shaped messages endpoint. The
// secret rides in the x-api-key header, not a bearer token.
type MessagesProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewMessagesProvider returns a messages provider. An empty apiKey makes the
// provider report unavailable.
func NewMessagesProvider(apiKey, model string) *MessagesProvider {
	return &MessagesProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultMessagesBaseURL,
		client:  http.DefaultClient,
	}
}

// Name identifies the provider in logs and results
func (*MessagesProvider) Name() string { return "anthropic" }

// Available reports whether a secret is configured
func (p *MessagesProvider) Available() bool { return p.apiKey != "" }

type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system"`
	Messages  []messagesMessage `json:"messages"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Generate performs a single messages call. No retry on failure.
func (p *MessagesProvider) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     p.model,
		MaxTokens: 2000,
		System:    systemPrompt(req.Kind),
		Messages:  []messagesMessage{{Role: "user", Content: BuildPrompt(req)}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode messages request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read messages response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if authErr := detectAuthError(p.Name(), fmt.Sprintf("%d %s", resp.StatusCode, respBody)); authErr != nil {
			return "", authErr
		}
		return "", fmt.Errorf("messages returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse messages response: %w", err)
	}

	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("messages returned empty content")
	}

	return parsed.Content[0].Text, nil
}
