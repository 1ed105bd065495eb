package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	chatDefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	chatDefaultModel    = "gpt-4o-mini"
)

// ChatConfig holds configuration for the chat-completions adapter.
type ChatConfig struct {
	APIKey   string
	Endpoint string        // Optional override (tests, compatible gateways)
	Model    string        // Defaults to gpt-4o-mini
	Timeout  time.Duration // Total request timeout
}

// ChatClient implements Client against a chat-completions style API.
// The credential travels in the Authorization bearer header.
type ChatClient struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewChatClient creates a chat-completions adapter.
func NewChatClient(cfg ChatConfig) *ChatClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = chatDefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = chatDefaultModel
	}
	return &ChatClient{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   newHTTPClient(cfg.Timeout),
	}
}

// Name returns the adapter identifier.
func (c *ChatClient) Name() string { return "chat" }

// Generate sends a generation prompt. JSON object output is requested via
// response_format; the prompt itself carries the real output contract.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, true)
}

// Refine sends a refinement prompt expecting plain text back.
func (c *ChatClient) Refine(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt, false)
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		reqBody.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Reason: fmt.Sprintf("malformed response envelope: %v", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &Error{Reason: "empty choices in response"}
	}

	return parsed.Choices[0].Message.Content, nil
}
