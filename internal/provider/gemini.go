package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geminiDefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiDefaultModel    = "gemini-2.0-flash"
)

// GenerateConfig holds configuration for the generateContent adapter.
type GenerateConfig struct {
	APIKey   string
	Endpoint string        // Optional base URL override (tests)
	Model    string        // Defaults to gemini-2.0-flash
	Timeout  time.Duration // Total request timeout
}

// GenerateClient implements Client against a generateContent style API.
// The credential travels as a query parameter.
type GenerateClient struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewGenerateClient creates a generateContent adapter.
func NewGenerateClient(cfg GenerateConfig) *GenerateClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = geminiDefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	return &GenerateClient{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		client:   newHTTPClient(cfg.Timeout),
	}
}

// Name returns the adapter identifier.
func (c *GenerateClient) Name() string { return "gemini" }

// Generate sends a generation prompt.
func (c *GenerateClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generateContent(ctx, prompt)
}

// Refine sends a refinement prompt. The protocol does not distinguish the
// two; the prompt carries the difference.
func (c *GenerateClient) Refine(ctx context.Context, prompt string) (string, error) {
	return c.generateContent(ctx, prompt)
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GenerateClient) generateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("marshal request: %v", err)}
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

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

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Reason: fmt.Sprintf("malformed response envelope: %v", err)}
	}

	if len(parsed.Candidates) == 0 {
		return "", &Error{Reason: "no candidates in response"}
	}
	if len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Reason: "no content parts in first candidate"}
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
