package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const defaultChatBaseURL = "https://api.openai.com"

// ChatProvider talks to an OpenAI-shaped chat-completions endpoint. The
// bearer token rides on an oauth2 static-token client.
type ChatProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewChatProvider returns a chat-completions provider. An empty apiKey makes
// the provider report unavailable.
func NewChatProvider(apiKey, model string) *ChatProvider {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	return &ChatProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultChatBaseURL,
		client:  oauth2.NewClient(context.Background(), ts),
	}
}

// Name identifies the provider in logs and results
func (*ChatProvider) Name() string { return "openai" }

// Available reports whether a secret is configured
func (p *ChatProvider) Available() bool { return p.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate performs a single chat-completions call. No retry on failure.
func (p *ChatProvider) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Kind)},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completions request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if authErr := detectAuthError(p.Name(), fmt.Sprintf("%d %s", resp.StatusCode, respBody)); authErr != nil {
			return "", authErr
		}
		return "", fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
