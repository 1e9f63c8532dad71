package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatProviderParsesNestedChoicePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"fix(auth): refresh tokens"}}]}`)
	}))
	defer server.Close()

	p := NewChatProvider("sk-test", "gpt-4-turbo-preview")
	p.baseURL = server.URL

	text, err := p.Generate(context.Background(), Request{Kind: KindCommitMessage, Diff: "d"})
	require.NoError(t, err)
	assert.Equal(t, "fix(auth): refresh tokens", text)
}

func TestChatProviderAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer server.Close()

	p := NewChatProvider("sk-bad", "gpt-4-turbo-preview")
	p.baseURL = server.URL

	_, err := p.Generate(context.Background(), Request{Kind: KindCommitMessage, Diff: "d"})
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "openai", authErr.Provider)
}

func TestChatProviderServerErrorIsNotAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))
	defer server.Close()

	p := NewChatProvider("sk-test", "gpt-4-turbo-preview")
	p.baseURL = server.URL

	_, err := p.Generate(context.Background(), Request{Kind: KindCommitMessage, Diff: "d"})
	require.Error(t, err)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestChatProviderUnavailableWithoutKey(t *testing.T) {
	assert.False(t, NewChatProvider("", "model").Available())
	assert.True(t, NewChatProvider("sk", "model").Available())
}

func TestMessagesProviderParsesContentArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		fmt.Fprint(w, `{"content":[{"text":"Hey team, the auth fix is in."}]}`)
	}))
	defer server.Close()

	p := NewMessagesProvider("key-test", "claude-3-5-sonnet-20241022")
	p.baseURL = server.URL
	p.client = server.Client()

	text, err := p.Generate(context.Background(), Request{Kind: KindTicketComment, Diff: "d"})
	require.NoError(t, err)
	assert.Equal(t, "Hey team, the auth fix is in.", text)
}

func TestMessagesProviderAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	p := NewMessagesProvider("key-bad", "claude-3-5-sonnet-20241022")
	p.baseURL = server.URL
	p.client = server.Client()

	_, err := p.Generate(context.Background(), Request{Kind: KindTicketComment, Diff: "d"})
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "anthropic", authErr.Provider)
}

func TestAgentProviderFirstAttemptWithoutSecret(t *testing.T) {
	var envsSeen [][]string
	p := NewAgentProvider("fake-agent", "secret-key", "ANTHROPIC_API_KEY")
	p.run = func(_ context.Context, _ string, extraEnv []string, _ string) (string, error) {
		envsSeen = append(envsSeen, extraEnv)
		return "Done with the task, summary attached for review this week.", nil
	}

	text, err := p.Generate(context.Background(), Request{Kind: KindTicketComment, Diff: "d"})
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	require.Len(t, envsSeen, 1)
	assert.Nil(t, envsSeen[0])
}

func TestAgentProviderRetriesOnceWithSecret(t *testing.T) {
	var envsSeen [][]string
	p := NewAgentProvider("fake-agent", "secret-key", "ANTHROPIC_API_KEY")
	p.run = func(_ context.Context, _ string, extraEnv []string, _ string) (string, error) {
		envsSeen = append(envsSeen, extraEnv)
		if len(envsSeen) == 1 {
			return "", errors.New("exit status 1: not logged in")
		}
		return "Hey team, the agent finished the work after authenticating.", nil
	}

	text, err := p.Generate(context.Background(), Request{Kind: KindTicketComment, Diff: "d"})
	require.NoError(t, err)
	assert.Contains(t, text, "Hey team")

	require.Len(t, envsSeen, 2)
	assert.Equal(t, []string{"ANTHROPIC_API_KEY=secret-key"}, envsSeen[1])
}

func TestAgentProviderAuthErrorWithoutSecret(t *testing.T) {
	p := NewAgentProvider("fake-agent", "", "")
	p.run = func(context.Context, string, []string, string) (string, error) {
		return "", errors.New("exit status 1: please run /login first")
	}

	_, err := p.Generate(context.Background(), Request{Kind: KindTicketComment, Diff: "d"})
	require.Error(t, err)

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestAgentProviderUnavailableWithoutCommand(t *testing.T) {
	assert.False(t, NewAgentProvider("", "", "").Available())
	assert.True(t, NewAgentProvider("claude", "", "").Available())
}

func TestDetectAuthError(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"401 Unauthorized", true},
		{"Invalid API key provided", true},
		{"authentication_error", true},
		{"You are not logged in", true},
		{"connection timed out", false},
		{"internal server error", false},
	}

	for _, tt := range tests {
		err := detectAuthError("test", tt.body)
		if (err != nil) != tt.want {
			t.Errorf("detectAuthError(%q) = %v, want auth=%v", tt.body, err, tt.want)
		}
	}
}
